package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced task does not exist
	ErrNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when a task is created or edited with no title
	ErrEmptyTitle = errors.New("task title cannot be empty")

	// ErrInvalidDate is returned when a task date cannot be normalized to yyyy-MM-dd
	ErrInvalidDate = errors.New("invalid task date")

	// ErrInvalidReminderTime is returned when a reminder is requested for a past time
	ErrInvalidReminderTime = errors.New("reminder time must be in the future")

	// ErrPermissionDenied is returned when the notification permission is not granted
	ErrPermissionDenied = errors.New("notification permission denied")
)
