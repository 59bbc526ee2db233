package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryHashStorage struct {
	hashes []*Hash
}

func (s *memoryHashStorage) Check(ctx context.Context, hash *Hash) (bool, error) {
	for _, seen := range s.hashes {
		if seen.ChatID == hash.ChatID && seen.Type == hash.Type && seen.Value == hash.Value {
			seen.Collisions++
			return false, nil
		}
	}

	s.hashes = append(s.hashes, hash)
	return true, nil
}

func testImage(shade uint8) flu.Bytes {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x) * shade, G: uint8(y) * 10, B: 0, A: 255})
		}
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, img); err != nil {
		panic(err)
	}

	return buffer.Bytes()
}

func TestDeduplicator_Image(t *testing.T) {
	ctx := context.Background()
	storage := new(memoryHashStorage)
	dedup := &Deduplicator{Storage: storage, Images: DifferenceHash{}}

	ok, err := dedup.Check(ctx, 1, "f1", "image/png", testImage(10))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dedup.Check(ctx, 1, "f2", "image/png", testImage(10))
	require.NoError(t, err)
	assert.False(t, ok, "same image under a new file ID is a duplicate")

	require.Len(t, storage.hashes, 1)
	assert.Equal(t, "dhash", storage.hashes[0].Type)
}

func TestDeduplicator_ExactFallback(t *testing.T) {
	ctx := context.Background()
	storage := new(memoryHashStorage)
	dedup := &Deduplicator{Storage: storage, Images: DifferenceHash{}}

	ok, err := dedup.Check(ctx, 1, "f1", "video/mp4", flu.Bytes("payload"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dedup.Check(ctx, 1, "f2", "video/mp4", flu.Bytes("payload"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = dedup.Check(ctx, 1, "f3", "video/mp4", flu.Bytes("other"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, storage.hashes, 2)
	assert.Equal(t, "md5", storage.hashes[0].Type)
}

func TestDeduplicator_NoImageProcessor(t *testing.T) {
	ctx := context.Background()
	storage := new(memoryHashStorage)
	dedup := &Deduplicator{Storage: storage}

	ok, err := dedup.Check(ctx, 1, "f1", "image/png", testImage(10))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "md5", storage.hashes[0].Type, "without an image processor everything is hashed exactly")
}

func TestDeduplicator_ChatsAreIndependent(t *testing.T) {
	ctx := context.Background()
	storage := new(memoryHashStorage)
	dedup := &Deduplicator{Storage: storage}

	ok, err := dedup.Check(ctx, 1, "f1", "video/mp4", flu.Bytes("payload"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dedup.Check(ctx, telegram.ID(2), "f1", "video/mp4", flu.Bytes("payload"))
	require.NoError(t, err)
	assert.True(t, ok, "the same payload in another chat is not a duplicate")
}

func TestDeduplicator_Nil(t *testing.T) {
	var dedup *Deduplicator
	ok, err := dedup.Check(context.Background(), 1, "f1", "video/mp4", flu.Bytes("payload"))
	require.NoError(t, err)
	assert.True(t, ok)
}
