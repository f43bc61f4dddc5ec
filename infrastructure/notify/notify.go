// Package notify provides the device notification capability: one-shot
// triggers scheduled at a wall-clock time, cancellation by id, and a
// delivered-event subscription.
package notify

import (
	"context"
	"time"
)

// Payload is the content carried by a scheduled notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Data  Data   `json:"data"`
}

// Data is the structured part of a notification payload.
type Data struct {
	TaskID string `json:"taskId"`
}

// Delivery is emitted when a scheduled notification fires.
type Delivery struct {
	ReminderID string    `json:"reminderId"`
	FiredAt    time.Time `json:"firedAt"`
	Payload    Payload   `json:"payload"`
}

// ChannelConfig describes the platform routing channel notifications are
// published on. Opaque to the task core.
type ChannelConfig struct {
	ID   string
	Name string
}

// Notifier is the notification-scheduling capability.
type Notifier interface {
	// RequestPermission performs the one-time permission acquisition.
	// Repeated calls after a grant are cheap.
	RequestPermission(ctx context.Context) (bool, error)

	// EnsureChannel registers the routing channel and returns its id.
	EnsureChannel(ctx context.Context, cfg ChannelConfig) (string, error)

	// ScheduleAt creates a one-shot trigger at the given time and returns
	// an opaque reminder id.
	ScheduleAt(ctx context.Context, at time.Time, p Payload) (string, error)

	// Cancel removes a pending trigger. Cancelling an unknown, already
	// fired or already cancelled id is a no-op.
	Cancel(ctx context.Context, id string) error

	// OnDelivered registers a callback invoked whenever a trigger fires.
	OnDelivered(fn func(Delivery))
}
