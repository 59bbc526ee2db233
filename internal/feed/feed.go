// Package feed converts raw Bot API updates into a stream of
// normalized logical messages, coalescing media group albums.
package feed

import (
	"tickerbot/internal/telegram"
)

// MediaRef points at an attachment hosted by the platform.
type MediaRef struct {
	Type   string `json:"type"`
	FileID string `json:"file_id"`
}

// Message is a normalized inbound message.
// Instances are never mutated after creation, only copied into merges.
type Message struct {
	ID           telegram.ID
	Chat         telegram.Chat
	From         telegram.User
	Date         int
	Text         string
	Media        []MediaRef
	MediaGroupID string
	Edited       bool
}

// MessageHandler consumes logical messages.
// Invoked synchronously and must not panic.
type MessageHandler func(message *Message)
