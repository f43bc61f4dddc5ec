package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"taskkeep/domain"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Canonical date passes through",
			input:    "2024-03-05",
			expected: "2024-03-05",
		},
		{
			name:     "RFC3339 timestamp truncates to day",
			input:    "2024-03-05T14:30:00Z",
			expected: "2024-03-05",
		},
		{
			name:     "Timestamp without timezone truncates to day",
			input:    "2024-03-05T14:30:00",
			expected: "2024-03-05",
		},
		{
			name:     "Surrounding whitespace is trimmed",
			input:    "  2024-03-05  ",
			expected: "2024-03-05",
		},
		{
			name:    "Locale formatted date is rejected",
			input:   "03/05/2024",
			wantErr: true,
		},
		{
			name:    "Empty string is rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidDate) {
					t.Errorf("NormalizeDate(%q) error = %v, expected ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeDate(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReminderFieldsSetAndClearedTogether(t *testing.T) {
	task := NewTask("Water the plants", "2024-06-01")

	if task.HasReminder() {
		t.Error("new task should have no reminder")
	}
	if task.ReminderID != nil || task.ReminderAt != nil {
		t.Error("new task reminder fields should both be nil")
	}

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	task.SetReminder("rem-1", at)

	if !task.HasReminder() {
		t.Error("task should have a reminder after SetReminder")
	}
	if task.ReminderID == nil || task.ReminderAt == nil {
		t.Fatal("reminder fields should both be set")
	}
	if *task.ReminderID != "rem-1" || !task.ReminderAt.Equal(at) {
		t.Errorf("reminder fields = (%v, %v), expected (rem-1, %v)", *task.ReminderID, *task.ReminderAt, at)
	}

	task.ClearReminder()
	if task.ReminderID != nil || task.ReminderAt != nil {
		t.Error("reminder fields should both be nil after ClearReminder")
	}
}

func TestCompletedCopy(t *testing.T) {
	task := NewTask("Ship the release", "2024-06-01")
	task.SetReminder("rem-1", time.Now().Add(time.Hour))

	done := task.CompletedCopy()

	if !done.Completed {
		t.Error("completed copy should be marked completed")
	}
	if done.HasReminder() {
		t.Error("completed copy must not carry reminder state")
	}
	if done.ID != task.ID || done.Title != task.Title || done.Date != task.Date {
		t.Error("completed copy should preserve id, title and date")
	}
	if task.Completed {
		t.Error("original task should be untouched")
	}
	if !task.HasReminder() {
		t.Error("original task reminder should be untouched")
	}
}

func TestCloneIndependence(t *testing.T) {
	task := NewTask("Original", "2024-06-01")
	task.SetReminder("rem-1", time.Now().Add(time.Hour))

	c := task.Clone()
	c.Title = "Changed"
	c.ClearReminder()

	if task.Title != "Original" {
		t.Error("mutating the clone changed the original title")
	}
	if !task.HasReminder() {
		t.Error("mutating the clone cleared the original reminder")
	}
}

func TestJSONRoundTripOptionalFields(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	withReminder := NewTask("With reminder", "2024-06-01")
	withReminder.SetReminder("rem-9", at)
	withoutReminder := NewTask("Without reminder", "2024-06-02")

	original := []*Task{withReminder, withoutReminder}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []*Task
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("decoded %d tasks, expected 2", len(decoded))
	}
	if !decoded[0].HasReminder() {
		t.Error("task with reminder lost its reminder fields")
	}
	if decoded[1].ReminderID != nil || decoded[1].ReminderAt != nil {
		t.Error("absent reminder fields should deserialize as nil")
	}
	if *decoded[0].ReminderID != "rem-9" || !decoded[0].ReminderAt.Equal(at) {
		t.Error("reminder fields did not round-trip")
	}
}

func TestLegacyRecordWithoutReminderFields(t *testing.T) {
	// Records persisted before reminders existed have no reminder keys
	raw := `[{"id":"t1","title":"Old record","completed":false,"date":"2023-01-15"}]`

	var decoded []*Task
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded[0].HasReminder() {
		t.Error("missing optional fields must deserialize as absent")
	}
}
