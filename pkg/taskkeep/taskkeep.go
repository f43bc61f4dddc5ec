// Package taskkeep is the embeddable task core: lifecycle operations,
// reminder scheduling and history aggregation behind a single App type,
// for hosts that want the engine without the HTTP delivery layer.
package taskkeep

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskkeep/callback"
	"taskkeep/infrastructure/circuitbreaker"
	"taskkeep/infrastructure/kv"
	"taskkeep/infrastructure/notify"
	"taskkeep/repository/kvstore"
	tasksvc "taskkeep/task"
)

// App wires the task core together for embedding.
type App struct {
	svc       *tasksvc.Service
	reminders *tasksvc.ReminderScheduler
	webhook   *callback.Service

	notifier    notify.Notifier
	ownNotifier *notify.Local

	config *Config
	logger *zap.Logger

	started bool
}

// New creates an App instance with functional options.
func New(opts ...Option) (*App, error) {
	cfg := &Config{
		Keys:           kvstore.DefaultKeys(),
		PollInterval:   time.Second,
		WebhookTimeout: 30 * time.Second,
		Logger:         zap.L(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	a := &App{config: cfg, logger: cfg.Logger}

	if cfg.KV == nil {
		cfg.KV = kv.NewMemory()
	}

	a.notifier = cfg.Notifier
	if a.notifier == nil {
		a.ownNotifier = notify.NewLocal(notify.LocalConfig{PollInterval: cfg.PollInterval}, cfg.Logger.Named("notify"))
		a.notifier = a.ownNotifier
	}

	store := kvstore.New(cfg.KV, cfg.Keys, cfg.Logger.Named("store"))
	a.reminders = tasksvc.NewReminderScheduler(a.notifier, cfg.Logger.Named("reminder"))
	a.svc = tasksvc.NewService(store, a.reminders, a.notifier, cfg.Logger.Named("lifecycle"))

	if cfg.WebhookURL != "" {
		breaker := circuitbreaker.New(5, 60*time.Second)
		a.webhook = callback.NewService(cfg.WebhookURL, cfg.WebhookSecret, cfg.WebhookTimeout, breaker, cfg.Logger.Named("webhook"))
	}

	a.logger.Info("App initialized",
		zap.String("active_key", cfg.Keys.Active),
		zap.String("completed_key", cfg.Keys.Completed),
		zap.Bool("webhook_enabled", a.webhook != nil),
	)

	return a, nil
}
