package feed

import (
	"tickerbot/internal/telegram"
)

// Parse converts a raw update into a normalized message.
// Update kinds without a message payload (callback queries etc.) yield nil.
func Parse(update telegram.Update) *Message {
	var (
		message *telegram.Message
		edited  bool
	)

	switch {
	case update.Message != nil:
		message = update.Message
	case update.EditedMessage != nil:
		message, edited = update.EditedMessage, true
	case update.ChannelPost != nil:
		message = update.ChannelPost
	case update.EditedChannelPost != nil:
		message, edited = update.EditedChannelPost, true
	default:
		return nil
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}

	result := &Message{
		ID:           message.ID,
		Chat:         message.Chat,
		From:         message.From,
		Date:         message.Date,
		Text:         text,
		MediaGroupID: message.MediaGroupID,
		Edited:       edited,
	}

	if photo := largestPhoto(message.Photo); photo != nil {
		result.Media = append(result.Media, MediaRef{Type: "photo", FileID: photo.ID})
	}

	if message.Video != nil {
		result.Media = append(result.Media, MediaRef{Type: "video", FileID: message.Video.ID})
	}

	if message.Animation != nil {
		result.Media = append(result.Media, MediaRef{Type: "animation", FileID: message.Animation.ID})
	}

	if message.Document != nil {
		result.Media = append(result.Media, MediaRef{Type: "document", FileID: message.Document.ID})
	}

	return result
}

func largestPhoto(sizes []telegram.MessageFile) *telegram.MessageFile {
	var best *telegram.MessageFile
	for i := range sizes {
		size := &sizes[i]
		if best == nil || size.Width*size.Height > best.Width*best.Height {
			best = size
		}
	}

	return best
}
