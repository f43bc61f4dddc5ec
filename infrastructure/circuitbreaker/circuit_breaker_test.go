package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func TestOpensAfterMaxFailures(t *testing.T) {
	cb := New(3, time.Minute)
	url := "http://example.com/hook"
	failing := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if cb.IsOpen(url) {
			t.Fatalf("circuit open after %d failures, threshold is 3", i)
		}
		if err := cb.Execute(url, failing); err == nil {
			t.Fatal("Execute should propagate the failure")
		}
	}

	if !cb.IsOpen(url) {
		t.Error("circuit should be open after reaching the failure threshold")
	}
	if got := cb.StateFor(url); got != StateOpen {
		t.Errorf("state = %s, expected open", got)
	}

	err := cb.Execute(url, func() error { return nil })
	if err == nil {
		t.Error("open circuit must reject calls without running fn")
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(3, time.Minute)
	url := "http://example.com/hook"

	cb.Execute(url, func() error { return errors.New("boom") })
	cb.Execute(url, func() error { return errors.New("boom") })
	if err := cb.Execute(url, func() error { return nil }); err != nil {
		t.Fatalf("Execute success = %v", err)
	}

	// Two more failures stay under the threshold again
	cb.Execute(url, func() error { return errors.New("boom") })
	cb.Execute(url, func() error { return errors.New("boom") })
	if cb.IsOpen(url) {
		t.Error("success should have reset the consecutive failure count")
	}
}

func TestHalfOpenAfterResetTimeout(t *testing.T) {
	cb := New(1, 20*time.Millisecond)
	url := "http://example.com/hook"

	cb.Execute(url, func() error { return errors.New("boom") })
	if !cb.IsOpen(url) {
		t.Fatal("circuit should be open")
	}

	time.Sleep(30 * time.Millisecond)

	if cb.IsOpen(url) {
		t.Fatal("circuit should allow a probe after the reset timeout")
	}
	if got := cb.StateFor(url); got != StateHalfOpen {
		t.Errorf("state = %s, expected half-open", got)
	}

	if err := cb.Execute(url, func() error { return nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if got := cb.StateFor(url); got != StateClosed {
		t.Errorf("state after successful probe = %s, expected closed", got)
	}
}

func TestFailuresAreKeyedByURL(t *testing.T) {
	cb := New(1, time.Minute)

	cb.Execute("http://a.example.com", func() error { return errors.New("boom") })

	if cb.IsOpen("http://b.example.com") {
		t.Error("failures on one URL must not open the circuit for another")
	}
	if !cb.IsOpen("http://a.example.com") {
		t.Error("failing URL should be open")
	}
}

func TestUnknownURLIsClosed(t *testing.T) {
	cb := New(5, time.Minute)
	if got := cb.StateFor("http://fresh.example.com"); got != StateClosed {
		t.Errorf("state = %s, expected closed", got)
	}
}
