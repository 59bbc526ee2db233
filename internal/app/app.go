// Package app contains application mixins wiring the ingestion
// pipeline into an apfel application context.
package app

import (
	"context"

	"tickerbot/internal/bot"
	"tickerbot/internal/media"
	"tickerbot/internal/telegram"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/pkg/errors"
)

// TelegramConfig configures the Bot API client.
type TelegramConfig struct {
	Token       string       `yaml:"token" doc:"Telegram Bot API token."`
	BaseURL     string       `yaml:"baseUrl,omitempty" doc:"Bot API base URL. Override for self-hosted gateways."`
	PollTimeout flu.Duration `yaml:"pollTimeout,omitempty" doc:"getUpdates long poll timeout." default:"1m"`
}

// AlbumConfig configures media group merging.
type AlbumConfig struct {
	Timeout flu.Duration `yaml:"timeout,omitempty" doc:"Quiet period after the last album part." default:"500ms"`
}

// DedupConfig configures the duplicate attachment filter.
type DedupConfig struct {
	Enabled bool `yaml:"enabled,omitempty" doc:"Whether duplicate attachments should be dropped."`
	Images  bool `yaml:"images,omitempty" doc:"Whether images should be matched perceptually." default:"true"`
}

type TelegramContext interface {
	TelegramConfig() TelegramConfig
}

type DedupContext interface {
	TelegramContext
	DedupConfig() DedupConfig
	StorageConfig() apfel.GormConfig
}

type BotContext interface {
	apfel.PrometheusContext
	TelegramContext
	DedupContext
	AlbumConfig() AlbumConfig
}

// Telegram provides the shared Bot API client.
type Telegram[C TelegramContext] struct {
	client *telegram.Client
}

func (t *Telegram[C]) String() string {
	return "telegram.client"
}

func (t *Telegram[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	config := app.Config().TelegramConfig()
	if config.Token == "" {
		return errors.New("telegram.token must not be empty")
	}

	t.client = telegram.NewClient(nil, config.BaseURL, config.Token)
	return nil
}

func (t *Telegram[C]) Client() *telegram.Client {
	return t.client
}

// Dedup provides the duplicate attachment filter backed by SQL storage.
type Dedup[C DedupContext] struct {
	filter *media.Filter
}

func (d *Dedup[C]) String() string {
	return "media.dedup"
}

func (d *Dedup[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	config := app.Config().DedupConfig()
	if !config.Enabled {
		return apfel.ErrDisabled
	}

	db := &apfel.GormDB[C]{Config: app.Config().StorageConfig()}
	if err := app.Use(ctx, db, false); err != nil {
		return err
	}

	storage := (*media.SQLHashStorage)(db.DB())
	if err := storage.Init(ctx); err != nil {
		return errors.Wrap(err, "init hash storage")
	}

	var client Telegram[C]
	if err := app.Use(ctx, &client, false); err != nil {
		return err
	}

	var images media.ImageProcessor
	if config.Images {
		images = media.DifferenceHash{}
	}

	d.filter = &media.Filter{
		Files: client.Client(),
		Dedup: &media.Deduplicator{
			Clock:   app,
			Storage: storage,
			Images:  images,
		},
	}

	return nil
}

// Filter returns the configured filter, nil when the mixin is disabled.
func (d *Dedup[C]) Filter() *media.Filter {
	return d.filter
}

// Echo replies to every message with a summary of its contents.
type Echo[C TelegramContext] struct {
	bot.EchoResponder
}

func (e *Echo[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	var client Telegram[C]
	if err := app.Use(ctx, &client, false); err != nil {
		return err
	}

	e.Client = client.Client()
	return nil
}

// Mixin assembles the ingestion pipeline.
// The Responder is picked up from any other included mixin implementing
// bot.Responder.
type Mixin[C BotContext] struct {
	bot *bot.Bot
}

func (m *Mixin[C]) String() string {
	return "bot"
}

func (m *Mixin[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	var client Telegram[C]
	if err := app.Use(ctx, &client, false); err != nil {
		return err
	}

	var metrics apfel.Prometheus[C]
	if err := app.Use(ctx, &metrics, false); err != nil {
		return err
	}

	var dedup Dedup[C]
	if err := app.Use(ctx, &dedup, false); err != nil && !errors.Is(err, apfel.ErrDisabled) {
		return err
	}

	config := app.Config()
	m.bot = &bot.Bot{
		Client:       client.Client(),
		Filter:       dedup.Filter(),
		PollTimeout:  config.TelegramConfig().PollTimeout.Value,
		AlbumTimeout: config.AlbumConfig().Timeout.Value,
		Metrics:      metrics.Registry().WithPrefix("bot"),
	}

	return nil
}

func (m *Mixin[C]) AfterInclude(ctx context.Context, app apfel.MixinApp[C], mixin apfel.Mixin[C]) error {
	if responder, ok := mixin.(bot.Responder); ok {
		if m.bot.Responder != nil {
			return errors.Errorf("responder already registered, cannot use %s", mixin)
		}

		m.bot.Responder = responder
		logf.Get(m).Infof(ctx, "registered responder [%s]: ok", mixin)
	}

	return nil
}

// Run polls for updates until ctx is cancelled or a termination
// signal is received.
func (m *Mixin[C]) Run(ctx context.Context) error {
	if m.bot.Responder == nil {
		return errors.New("no responder registered")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.bot.Run(ctx) }()
	go func() {
		syncf.AwaitSignal(ctx)
		cancel()
	}()

	defer logf.Get(m).Infof(ctx, "stopped")
	return <-done
}
