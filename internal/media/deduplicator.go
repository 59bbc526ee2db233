package media

import (
	"context"
	"crypto/md5"
	"fmt"

	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/pkg/errors"
)

// Deduplicator checks attachment payloads against previously seen ones
// in the same chat. A nil *Deduplicator accepts everything.
type Deduplicator struct {
	Clock   syncf.Clock
	Storage HashStorage
	Images  ImageProcessor
}

func (d *Deduplicator) clock() syncf.Clock {
	if d.Clock != nil {
		return d.Clock
	}

	return syncf.DefaultClock
}

// Check fingerprints the payload and reports whether it is seen
// for the first time in the chat.
func (d *Deduplicator) Check(ctx context.Context, chatID telegram.ID, fileID, mimeType string, blob flu.Input) (bool, error) {
	if d == nil {
		return true, nil
	}

	now := d.clock().Now()
	hash := &Hash{
		ChatID:    chatID,
		FileID:    fileID,
		FirstSeen: now,
		LastSeen:  now,
	}

	var (
		fingerprint Fingerprint
		err         error
	)

	if d.Images != nil && d.Images.Supports(mimeType) {
		fingerprint, err = d.Images.Fingerprint(mimeType, blob)
	} else {
		fingerprint, err = exactFingerprint(blob)
	}

	if err != nil {
		return false, err
	}

	hash.Type = fingerprint.Type
	hash.Value = fingerprint.Value
	return d.Storage.Check(ctx, hash)
}

func exactFingerprint(blob flu.Input) (Fingerprint, error) {
	md5 := md5.New()
	if _, err := flu.Copy(blob, flu.IO{W: md5}); err != nil {
		return Fingerprint{}, errors.Wrap(err, "get md5 hash")
	}

	return Fingerprint{
		Type:  "md5",
		Value: fmt.Sprintf("%x", md5.Sum(nil)),
	}, nil
}
