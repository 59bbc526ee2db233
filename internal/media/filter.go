package media

import (
	"context"
	"mime"
	"path"

	"tickerbot/internal/feed"
	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
)

// FileAPI is the client subset used to fetch attachment payloads.
type FileAPI interface {
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, path string, out flu.Output) error
}

// Filter removes previously seen attachments from messages.
// A nil *Filter passes messages through untouched.
type Filter struct {
	Files FileAPI
	Dedup *Deduplicator
}

func (f *Filter) String() string {
	return "media.filter"
}

// Apply returns the message with duplicate attachments removed.
// Failed checks keep the attachment: a repeat is better than a lost part.
func (f *Filter) Apply(ctx context.Context, message *feed.Message) *feed.Message {
	if f == nil || len(message.Media) == 0 {
		return message
	}

	kept := make([]feed.MediaRef, 0, len(message.Media))
	for _, ref := range message.Media {
		ok, err := f.check(ctx, message.Chat.ID, ref)
		if err != nil {
			logf.Get(f).Warnf(ctx, "check %s: %s", ref.FileID, err)
			ok = true
		}

		if ok {
			kept = append(kept, ref)
		}
	}

	if len(kept) == len(message.Media) {
		return message
	}

	filtered := *message
	filtered.Media = kept
	return &filtered
}

func (f *Filter) check(ctx context.Context, chatID telegram.ID, ref feed.MediaRef) (bool, error) {
	file, err := f.Files.GetFile(ctx, ref.FileID)
	if err != nil {
		return false, errors.Wrap(err, "get file")
	}

	buffer := new(flu.ByteBuffer)
	if err := f.Files.DownloadFile(ctx, file.Path, buffer); err != nil {
		return false, errors.Wrap(err, "download file")
	}

	mimeType := mime.TypeByExtension(path.Ext(file.Path))
	return f.Dedup.Check(ctx, chatID, ref.FileID, mimeType, buffer)
}
