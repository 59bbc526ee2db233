// Package telegram implements a typed Telegram Bot API client and
// a long polling updater on top of it.
package telegram

import (
	"context"
	"time"

	"github.com/jfk9w-go/flu/logf"
)

const rootLoggerName = "telegram"

func log() logf.Interface {
	return logf.Get(rootLoggerName)
}

// Handler receives raw update batches from an Updater.
// Batches are non-empty and ordered by update ID.
// Handlers are invoked synchronously and must not panic.
type Handler func(ctx context.Context, updates []Update)

// ErrorHandler is notified of recoverable poll failures.
type ErrorHandler func(ctx context.Context, err error)

type sleepFunc func(ctx context.Context, timeout time.Duration) error
