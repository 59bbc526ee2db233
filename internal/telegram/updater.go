package telegram

import (
	"context"
	"time"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/backoff"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/me3x"
	"github.com/jfk9w-go/flu/syncf"
	"gopkg.in/guregu/null.v3"
)

// Updater drives the getUpdates long polling cycle.
//
// It owns the offset cursor and the backoff state for the duration of
// a single Run invocation. The offset starts absent so the platform
// decides which updates to replay on first connect, and only ever
// advances after a successful non-empty fetch.
type Updater struct {
	// Client executes getUpdates calls.
	Client *Client

	// Options is the long poll request template.
	// Offset is managed by the Updater and must be left zero.
	Options GetUpdatesOptions

	// Backoff is the failure wait strategy.
	// Defaults to exponential waits of 1s, 2s, 4s and so on.
	Backoff backoff.Interface

	// Metrics counts fetched updates and poll failures.
	Metrics me3x.Registry

	// OnError is notified of every recoverable poll failure.
	OnError ErrorHandler

	sleep sleepFunc
}

func (u *Updater) String() string {
	return "telegram.updater"
}

func (u *Updater) backoff() backoff.Interface {
	if u.Backoff != nil {
		return u.Backoff
	}

	return backoff.Exp{Base: time.Second, Factor: 2}
}

func (u *Updater) metrics() me3x.Registry {
	if u.Metrics != nil {
		return u.Metrics
	}

	return me3x.DummyRegistry{}
}

// Run polls for updates until ctx is cancelled, passing every non-empty
// batch to handler in update ID order. Recoverable failures are reported
// via OnError and followed by an exponential wait; cancellation is
// terminal and is returned without touching OnError or handler.
func (u *Updater) Run(ctx context.Context, handler Handler) error {
	sleep := u.sleep
	if sleep == nil {
		sleep = flu.Sleep
	}

	options := u.Options
	metrics := u.metrics()

	var (
		offset null.Int
		level  int
	)

	for {
		if offset.Valid {
			options.Offset = ID(offset.Int64)
		}

		updates, err := u.Client.GetUpdates(ctx, options)
		switch {
		case syncf.IsContextRelated(err):
			return err

		case err != nil:
			logf.Get(u).Warnf(ctx, "poll: %s", err)
			metrics.Counter("errors", nil).Inc()
			if u.OnError != nil {
				u.OnError(ctx, err)
			}

			level++
			if err := sleep(ctx, u.backoff().Timeout(level)); err != nil {
				return err
			}

		default:
			level = 0
			if len(updates) > 0 {
				last := updates[0].ID
				for _, update := range updates {
					if update.ID > last {
						last = update.ID
					}
				}

				offset = null.IntFrom(int64(last.Increment()))
				if ctx.Err() != nil {
					return ctx.Err()
				}

				metrics.Counter("updates", nil).Add(float64(len(updates)))
				handler(ctx, updates)
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
