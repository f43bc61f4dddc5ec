package taskkeep

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskkeep/infrastructure/kv"
	"taskkeep/infrastructure/notify"
	"taskkeep/repository/kvstore"
)

// Option is a function that configures an App instance
type Option func(*Config) error

// Config holds all configuration for an embedded App
type Config struct {
	// Storage
	KV   kv.Store
	Keys kvstore.Keys

	// Notifications
	Notifier     notify.Notifier
	PollInterval time.Duration

	// Optional reminder webhook
	WebhookURL     string
	WebhookSecret  string
	WebhookTimeout time.Duration

	// Logging
	Logger *zap.Logger
}

// WithKV configures the key-value store backing the task collections.
// The default is an in-memory store.
func WithKV(store kv.Store) Option {
	return func(c *Config) error {
		if store == nil {
			return fmt.Errorf("kv store cannot be nil")
		}
		c.KV = store
		return nil
	}
}

// WithStorageKeys overrides the storage keys for the two collections,
// letting embedders namespace them.
func WithStorageKeys(active, completed string) Option {
	return func(c *Config) error {
		if active == "" || completed == "" {
			return fmt.Errorf("storage keys cannot be empty")
		}
		c.Keys = kvstore.Keys{Active: active, Completed: completed}
		return nil
	}
}

// WithNotifier supplies an external notification capability. By default
// the app owns an in-process notifier and manages its lifecycle.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Config) error {
		if n == nil {
			return fmt.Errorf("notifier cannot be nil")
		}
		c.Notifier = n
		return nil
	}
}

// WithPollInterval tunes the owned notifier's delivery poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive")
		}
		c.PollInterval = d
		return nil
	}
}

// WithWebhook enables posting fired reminders to the given URL, signed
// with secret when non-empty.
func WithWebhook(url, secret string) Option {
	return func(c *Config) error {
		if url == "" {
			return fmt.Errorf("webhook URL cannot be empty")
		}
		c.WebhookURL = url
		c.WebhookSecret = secret
		return nil
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}
