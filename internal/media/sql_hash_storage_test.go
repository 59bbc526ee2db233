package media_test

import (
	"context"
	"testing"
	"time"

	"tickerbot/internal/database"
	"tickerbot/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLHashStorage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.NewTestDatabase(t)
	defer db.Close()

	storage := (*media.SQLHashStorage)(db.DB)
	require.NoError(t, storage.Init(ctx))

	now, err := time.Parse(time.RFC3339, "2026-08-30T03:00:00+03:00")
	require.NoError(t, err)

	hash := &media.Hash{
		ChatID:    456,
		FileID:    "file-1",
		Type:      "md5",
		Value:     "123",
		FirstSeen: now,
		LastSeen:  now,
	}

	ok, err := storage.Check(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	stored := new(media.Hash)
	err = storage.Unmask().WithContext(ctx).
		First(stored).
		Error
	require.NoError(t, err)
	assert.Equal(t, hash, stored)

	now = now.Add(time.Hour)
	hash.FirstSeen = now
	hash.LastSeen = now
	hash.FileID = "file-2"

	ok, err = storage.Check(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	err = storage.Unmask().WithContext(ctx).
		First(stored).
		Error
	require.NoError(t, err)
	hash.FirstSeen = now.Add(-time.Hour)
	hash.Collisions = 1
	assert.Equal(t, hash, stored)
}
