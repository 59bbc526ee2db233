// Package bot assembles the ingestion pipeline: long polling updates
// are parsed into normalized messages, album parts are merged, duplicate
// attachments are dropped, and the result is handed to a Responder.
package bot

import (
	"context"
	"time"

	"tickerbot/internal/feed"
	"tickerbot/internal/media"
	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/me3x"
)

// Responder consumes logical messages.
// This is the seam for the conversational agent: implementations are
// invoked one message at a time and must not call back into the Bot.
type Responder interface {
	Respond(ctx context.Context, message *feed.Message)
}

// ResponderFunc is a Responder functional adapter.
type ResponderFunc func(ctx context.Context, message *feed.Message)

func (f ResponderFunc) Respond(ctx context.Context, message *feed.Message) {
	f(ctx, message)
}

// Bot drives the ingestion pipeline until its context is cancelled.
type Bot struct {
	// Client executes API calls.
	Client *telegram.Client

	// Responder receives every logical message.
	Responder Responder

	// Filter drops duplicate attachments. Optional.
	Filter *media.Filter

	// Commands are registered via setMyCommands on startup. Optional.
	Commands []telegram.BotCommand

	// PollTimeout is the getUpdates long poll timeout.
	PollTimeout time.Duration

	// AlbumTimeout is the album quiet period.
	AlbumTimeout time.Duration

	// Metrics tracks pipeline counters.
	Metrics me3x.Registry
}

func (b *Bot) String() string {
	return "bot"
}

func (b *Bot) metrics() me3x.Registry {
	if b.Metrics != nil {
		return b.Metrics
	}

	return me3x.DummyRegistry{}
}

// Run blocks until ctx is cancelled.
// Pending albums are flushed to the Responder on the way out.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.Client.GetMe(ctx)
	if err != nil {
		return err
	}

	logf.Get(b).Infof(ctx, "running as %s", me.Username.String())

	if len(b.Commands) > 0 {
		if err := b.Client.SetMyCommands(ctx, nil, b.Commands); err != nil {
			return err
		}
	}

	albums := &feed.AlbumBuffer{
		Handler: func(message *feed.Message) { b.deliver(ctx, message) },
		Timeout: b.AlbumTimeout,
		Metrics: b.metrics().WithPrefix("albums"),
	}

	defer flu.CloseQuietly(albums)

	updater := &telegram.Updater{
		Client: b.Client,
		Options: telegram.GetUpdatesOptions{
			TimeoutSecs:    int(b.PollTimeout / time.Second),
			AllowedUpdates: []string{"message", "edited_message", "channel_post", "edited_channel_post"},
		},
		Metrics: b.metrics().WithPrefix("poll"),
	}

	return updater.Run(ctx, func(ctx context.Context, updates []telegram.Update) {
		for _, update := range updates {
			if message := feed.Parse(update); message != nil {
				albums.Push(message)
			}
		}
	})
}

func (b *Bot) deliver(ctx context.Context, message *feed.Message) {
	message = b.Filter.Apply(ctx, message)
	if message.Text == "" && len(message.Media) == 0 {
		logf.Get(b).Debugf(ctx, "message %s/%s is empty after filtering, skipping", message.Chat.ID, message.ID)
		return
	}

	b.metrics().Counter("messages", nil).Inc()
	b.Responder.Respond(ctx, message)
}
