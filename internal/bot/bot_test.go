package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tickerbot/internal/feed"
	"tickerbot/internal/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBot_Run(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot123:abc/getMe":
			_, _ = w.Write([]byte(`{"ok": true, "result": {"id": 42, "is_bot": true, "first_name": "test", "username": "test_bot"}}`))

		case "/bot123:abc/setMyCommands":
			_, _ = w.Write([]byte(`{"ok": true, "result": true}`))

		case "/bot123:abc/getUpdates":
			if atomic.AddInt32(&polls, 1) == 1 {
				_, _ = w.Write([]byte(`{"ok": true, "result": [
					{"update_id": 1, "message": {"message_id": 100, "chat": {"id": 5, "type": "private"}, "text": "hello"}},
					{"update_id": 2, "message": {"message_id": 101, "chat": {"id": 5, "type": "private"}, "media_group_id": "g1", "caption": "album",
						"photo": [{"file_id": "a", "width": 100, "height": 100}]}},
					{"update_id": 3, "message": {"message_id": 102, "chat": {"id": 5, "type": "private"}, "media_group_id": "g1",
						"photo": [{"file_id": "b", "width": 100, "height": 100}]}},
					{"update_id": 4, "callback_query": {"id": "cb", "from": {"id": 7}}}
				]}`))
				return
			}

			time.Sleep(10 * time.Millisecond)
			_, _ = w.Write([]byte(`{"ok": true, "result": []}`))

		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	output := make(chan *feed.Message, 4)
	b := &Bot{
		Client: telegram.NewClient(nil, server.URL, "123:abc"),
		Responder: ResponderFunc(func(ctx context.Context, message *feed.Message) {
			output <- message
		}),
		Commands:     []telegram.BotCommand{{Command: "start", Description: "Start the bot"}},
		PollTimeout:  time.Second,
		AlbumTimeout: 50 * time.Millisecond,
	}

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	plain := awaitMessage(t, output)
	assert.Equal(t, telegram.ID(100), plain.ID)
	assert.Equal(t, "hello", plain.Text)

	album := awaitMessage(t, output)
	assert.Equal(t, telegram.ID(101), album.ID)
	assert.Equal(t, "album", album.Text)
	assert.Equal(t, []feed.MediaRef{
		{Type: "photo", FileID: "a"},
		{Type: "photo", FileID: "b"},
	}, album.Media)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop in time")
	}
}

func awaitMessage(t *testing.T, output chan *feed.Message) *feed.Message {
	t.Helper()
	select {
	case message := <-output:
		require.NotNil(t, message)
		return message
	case <-time.After(5 * time.Second):
		t.Fatal("no message in time")
		return nil
	}
}
