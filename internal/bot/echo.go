package bot

import (
	"context"
	"fmt"
	"strings"

	"tickerbot/internal/feed"
	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu/logf"
)

// EchoResponder replies to every delivered message with a short summary
// of its contents. Mostly useful for smoke testing a deployment.
type EchoResponder struct {
	Client *telegram.Client
}

func (r *EchoResponder) String() string {
	return "bot.echo"
}

func (r *EchoResponder) Respond(ctx context.Context, message *feed.Message) {
	if err := r.Client.SendChatAction(ctx, message.Chat.ID, "typing"); err != nil {
		logf.Get(r).Warnf(ctx, "send chat action to %s: %v", message.Chat.ID, err)
	}

	var text strings.Builder
	if message.Text != "" {
		text.WriteString(message.Text)
	}

	if len(message.Media) > 0 {
		if text.Len() > 0 {
			text.WriteString("\n")
		}

		fmt.Fprintf(&text, "[%d attachments]", len(message.Media))
	}

	_, err := r.Client.SendMessage(ctx, message.Chat.ID, text.String(), &telegram.SendMessageOptions{
		ReplyToMessageID: message.ID,
	})

	logf.Get(r).Resultf(ctx, logf.Debug, logf.Warn, "reply in %s: %v", message.Chat.ID, err)
}
