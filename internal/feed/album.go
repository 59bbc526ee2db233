package feed

import (
	"time"

	"github.com/jfk9w-go/flu/me3x"
	"github.com/jfk9w-go/flu/syncf"
	"golang.org/x/exp/slices"
)

// DefaultAlbumTimeout is the quiet period after the last album part.
const DefaultAlbumTimeout = 500 * time.Millisecond

type album struct {
	messages []Message
	timer    *time.Timer
	seq      uint64
}

// AlbumBuffer coalesces messages sharing a media group into a single
// logical message emitted once no new part arrives for Timeout.
//
// Push, timer expiry and Flush hold the same lock, so the handler never
// runs concurrently with itself and must not call back into the buffer.
type AlbumBuffer struct {
	// Handler consumes forwarded and merged messages.
	Handler MessageHandler

	// Timeout is the quiet period, DefaultAlbumTimeout if not positive.
	Timeout time.Duration

	// Metrics tracks pending groups and merged albums.
	Metrics me3x.Registry

	schedule func(timeout time.Duration, fire func()) *time.Timer

	mu     syncf.RWMutex
	groups map[string]*album
	seq    uint64
	closed bool
}

func (b *AlbumBuffer) String() string {
	return "feed.albums"
}

func (b *AlbumBuffer) timeout() time.Duration {
	if b.Timeout > 0 {
		return b.Timeout
	}

	return DefaultAlbumTimeout
}

func (b *AlbumBuffer) metrics() me3x.Registry {
	if b.Metrics != nil {
		return b.Metrics
	}

	return me3x.DummyRegistry{}
}

// Push accepts the next normalized message.
// Messages without a media group are forwarded to the handler synchronously.
func (b *AlbumBuffer) Push(message *Message) {
	if message == nil {
		return
	}

	_, cancel := b.mu.Lock(nil)
	defer cancel()

	if message.MediaGroupID == "" || b.closed {
		b.Handler(message)
		return
	}

	key := message.MediaGroupID
	group, ok := b.groups[key]
	if !ok {
		if b.groups == nil {
			b.groups = make(map[string]*album)
		}

		group = new(album)
		b.groups[key] = group
		b.metrics().Gauge("pending", nil).Inc()
	} else {
		group.timer.Stop()
	}

	group.messages = append(group.messages, *message)

	b.seq++
	group.seq = b.seq
	seq := group.seq
	schedule := b.schedule
	if schedule == nil {
		schedule = time.AfterFunc
	}

	group.timer = schedule(b.timeout(), func() { b.expire(key, seq) })
}

// Pending returns the number of groups awaiting merge.
func (b *AlbumBuffer) Pending() int {
	_, cancel := b.mu.RLock(nil)
	defer cancel()
	return len(b.groups)
}

// Flush merges every pending group immediately.
func (b *AlbumBuffer) Flush() {
	_, cancel := b.mu.Lock(nil)
	defer cancel()
	for key := range b.groups {
		b.merge(key)
	}
}

// Close flushes pending groups and stops buffering.
// Messages pushed afterwards are forwarded without merging.
func (b *AlbumBuffer) Close() error {
	_, cancel := b.mu.Lock(nil)
	defer cancel()
	b.closed = true
	for key := range b.groups {
		b.merge(key)
	}

	return nil
}

func (b *AlbumBuffer) expire(key string, seq uint64) {
	_, cancel := b.mu.Lock(nil)
	defer cancel()

	// a part pushed between the timer firing and this lock acquisition
	// re-arms the group, leaving this call stale
	if group, ok := b.groups[key]; ok && group.seq == seq {
		b.merge(key)
	}
}

// merge must be called under the write lock.
func (b *AlbumBuffer) merge(key string) {
	group, ok := b.groups[key]
	if !ok {
		return
	}

	group.timer.Stop()
	delete(b.groups, key)
	b.metrics().Gauge("pending", nil).Dec()
	b.metrics().Counter("merged", nil).Inc()

	messages := group.messages
	slices.SortFunc(messages, func(a, b Message) bool { return a.ID < b.ID })

	merged := messages[0]
	merged.Text = ""
	merged.Media = nil
	for _, message := range messages {
		merged.Media = append(merged.Media, message.Media...)
		if merged.Text == "" {
			merged.Text = message.Text
		}
	}

	b.Handler(&merged)
}
