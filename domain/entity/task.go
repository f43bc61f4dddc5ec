package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"taskkeep/domain"
)

// DateLayout is the canonical day-granularity format used for task dates.
// Every stored date is normalized to this form so grouping and equality
// comparisons stay correct.
const DateLayout = "2006-01-02"

// Task is the central entity: a dated to-do item with an optional one-shot
// reminder. ReminderID and ReminderAt are set and cleared together; use
// SetReminder/ClearReminder instead of touching the fields directly.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Date       string     `json:"date"`
	Completed  bool       `json:"completed"`
	ReminderID *string    `json:"reminderId,omitempty"`
	ReminderAt *time.Time `json:"reminderDate,omitempty"`
}

// NewTask creates an active task with a fresh ID and no reminder. The
// date is expected in canonical yyyy-MM-dd form (see NormalizeDate).
func NewTask(title, date string) *Task {
	return &Task{
		ID:    uuid.New().String(),
		Title: title,
		Date:  date,
	}
}

// NormalizeDate parses a date string and returns it in canonical yyyy-MM-dd
// form. Full timestamps are accepted and truncated to the day.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", domain.ErrInvalidDate
}

// DueDate returns the task date as a time.Time at midnight local time.
func (t *Task) DueDate() (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, t.Date, time.Local)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return d, nil
}

// HasReminder reports whether reminder bookkeeping fields are populated.
// It says nothing about whether the reminder is still pending; that is
// ReminderScheduler.IsActive's job.
func (t *Task) HasReminder() bool {
	return t.ReminderID != nil && t.ReminderAt != nil
}

// SetReminder records the scheduled reminder on the task.
func (t *Task) SetReminder(id string, at time.Time) {
	t.ReminderID = &id
	t.ReminderAt = &at
}

// ClearReminder removes reminder bookkeeping from the task.
func (t *Task) ClearReminder() {
	t.ReminderID = nil
	t.ReminderAt = nil
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the optional-field pointers.
func (t *Task) Clone() *Task {
	c := *t
	if t.ReminderID != nil {
		id := *t.ReminderID
		c.ReminderID = &id
	}
	if t.ReminderAt != nil {
		at := *t.ReminderAt
		c.ReminderAt = &at
	}
	return &c
}

// CompletedCopy returns the record appended to the completed collection:
// same task, completed flag set, reminder fields cleared. A completed task
// never carries reminder state.
func (t *Task) CompletedCopy() *Task {
	c := t.Clone()
	c.Completed = true
	c.ClearReminder()
	return c
}
