package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CustomTime wraps time.Time to accept the datetime formats clients send
// for reminder times. Formats without a timezone are parsed as local
// wall-clock time, since reminders fire against the device clock.
type CustomTime struct {
	time.Time
}

// UnmarshalJSON parses a JSON string into CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	s := strings.Trim(string(b), "\"")
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			ct.Time = t
			return nil
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ct.Time = t
			return nil
		}
	}

	return fmt.Errorf("cannot parse time %q, expected RFC3339 or YYYY-MM-DDTHH:MM", s)
}

// MarshalJSON converts CustomTime to an RFC3339 JSON string.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ct.Time.Format(time.RFC3339))
}
