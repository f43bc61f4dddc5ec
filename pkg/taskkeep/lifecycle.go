package taskkeep

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskkeep/infrastructure/notify"
)

// Start loads the task collections and begins reminder delivery.
// Must be called before lifecycle operations.
func (a *App) Start(ctx context.Context) error {
	if a.started {
		return fmt.Errorf("already started")
	}

	if err := a.svc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load task collections: %w", err)
	}

	if a.webhook != nil {
		a.notifier.OnDelivered(func(d notify.Delivery) {
			if err := a.webhook.Deliver(context.Background(), d); err != nil {
				a.logger.Warn("Reminder webhook delivery failed", zap.Error(err))
			}
		})
	}

	if a.ownNotifier != nil {
		a.ownNotifier.Start()
	}

	a.started = true
	a.logger.Info("App started")
	return nil
}

// Shutdown stops the owned notifier. Externally supplied notifiers are
// left running.
func (a *App) Shutdown(context.Context) error {
	if !a.started {
		return nil
	}

	if a.ownNotifier != nil {
		a.ownNotifier.Stop()
	}

	a.started = false
	a.logger.Info("App shutdown complete")
	return nil
}
