// Package media fingerprints message attachments and filters out
// duplicates per chat.
package media

import (
	"context"
	"time"

	"tickerbot/internal/telegram"
)

// Hash is a stored attachment fingerprint.
type Hash struct {
	ChatID     telegram.ID `gorm:"primaryKey"`
	FileID     string      `gorm:"not null"`
	Type       string      `gorm:"primaryKey;column:hash_type"`
	Value      string      `gorm:"primaryKey;column:hash"`
	FirstSeen  time.Time   `gorm:"not null"`
	LastSeen   time.Time   `gorm:"not null"`
	Collisions int64       `gorm:"not null"`
}

func (h *Hash) TableName() string {
	return "media_hash"
}

// HashStorage records fingerprints and detects collisions.
type HashStorage interface {

	// Check stores the hash and returns true iff it was not seen before.
	Check(ctx context.Context, hash *Hash) (bool, error)
}
