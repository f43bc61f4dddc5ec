package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskkeep/domain"
	"taskkeep/domain/entity"
	"taskkeep/infrastructure/notify"
)

// activeGuard is the interval below which a reminder is treated as already
// fired. Guards against the race where a reminder just fired but the task
// record has not been refreshed yet.
const activeGuard = 2 * time.Second

// DefaultChannel is the routing channel reminders are published on.
var DefaultChannel = notify.ChannelConfig{
	ID:   "task-reminders",
	Name: "Task reminders",
}

// ReminderScheduler wraps the notification capability with the reminder
// protocol: future-time validation, permission acquisition and idempotent
// cancellation. It never mutates Task records; the lifecycle service owns
// the reminder bookkeeping fields.
type ReminderScheduler struct {
	notifier notify.Notifier
	channel  notify.ChannelConfig
	logger   *zap.Logger

	channelOnce sync.Once
	channelErr  error

	now func() time.Time
}

// NewReminderScheduler creates a scheduler publishing on the default channel.
func NewReminderScheduler(n notify.Notifier, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{
		notifier: n,
		channel:  DefaultChannel,
		logger:   logger,
		now:      time.Now,
	}
}

// Schedule requests a one-shot reminder for the task at the given time and
// returns the opaque reminder id. The time must be in the future and the
// platform permission must be granted; otherwise no scheduling happens.
func (r *ReminderScheduler) Schedule(ctx context.Context, t *entity.Task, at time.Time) (string, error) {
	if !at.After(r.now()) {
		return "", domain.ErrInvalidReminderTime
	}

	granted, err := r.notifier.RequestPermission(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to request notification permission: %w", err)
	}
	if !granted {
		return "", domain.ErrPermissionDenied
	}

	r.channelOnce.Do(func() {
		_, r.channelErr = r.notifier.EnsureChannel(ctx, r.channel)
	})
	if r.channelErr != nil {
		return "", fmt.Errorf("failed to create notification channel: %w", r.channelErr)
	}

	id, err := r.notifier.ScheduleAt(ctx, at, notify.Payload{
		Title: "Task reminder",
		Body:  t.Title,
		Data:  notify.Data{TaskID: t.ID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to schedule reminder: %w", err)
	}

	r.logger.Info("Reminder scheduled",
		zap.String("task_id", t.ID),
		zap.String("reminder_id", id),
		zap.Time("at", at))
	return id, nil
}

// Cancel removes a reminder. Cancelling an empty, unknown, already fired or
// already cancelled id is a no-op.
func (r *ReminderScheduler) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.notifier.Cancel(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel reminder %s: %w", id, err)
	}
	return nil
}

// IsActive reports whether the task's reminder is still pending. A reminder
// within the guard interval of now reads as inactive even if the task still
// carries its id.
func (r *ReminderScheduler) IsActive(t *entity.Task) bool {
	if t == nil || t.ReminderAt == nil {
		return false
	}
	return t.ReminderAt.Sub(r.now()) > activeGuard
}
