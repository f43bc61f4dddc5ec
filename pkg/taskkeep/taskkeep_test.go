package taskkeep

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"taskkeep/infrastructure/kv"
)

// TestNewWithInvalidOptions tests that New() returns errors for invalid options
func TestNewWithInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "Nil kv store",
			opts: []Option{WithKV(nil)},
		},
		{
			name: "Empty storage keys",
			opts: []Option{WithStorageKeys("", "@completed-tasks")},
		},
		{
			name: "Nil notifier",
			opts: []Option{WithNotifier(nil)},
		},
		{
			name: "Non-positive poll interval",
			opts: []Option{WithPollInterval(0)},
		},
		{
			name: "Empty webhook URL",
			opts: []Option{WithWebhook("", "secret")},
		},
		{
			name: "Nil logger",
			opts: []Option{WithLogger(nil)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); err == nil {
				t.Errorf("New() expected an error for %s", tt.name)
			}
		})
	}
}

// TestNewDefaults tests that New() works without any options
func TestNewDefaults(t *testing.T) {
	app, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if app.ownNotifier == nil {
		t.Error("app should own a local notifier by default")
	}
	if app.webhook != nil {
		t.Error("webhook should be disabled by default")
	}
}

// TestStartIsNotReentrant tests double-start protection
func TestStartIsNotReentrant(t *testing.T) {
	app, err := New(WithPollInterval(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	ctx := context.Background()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer app.Shutdown(ctx)

	if err := app.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}
}

// TestTaskLifecycleEndToEnd drives the embedded API through the full
// add / edit / remind / complete / history flow.
func TestTaskLifecycleEndToEnd(t *testing.T) {
	app, err := New(
		WithPollInterval(10*time.Millisecond),
		WithLogger(zap.NewNop()),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer app.Shutdown(ctx)

	groceries, err := app.AddTask(ctx, "Buy groceries", "2024-06-01")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	dentist, err := app.AddTask(ctx, "Dentist", "2024-06-01")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if len(app.ActiveTasks()) != 2 {
		t.Fatalf("active = %d, expected 2", len(app.ActiveTasks()))
	}

	if _, err := app.EditTask(ctx, dentist.ID, "Dentist appointment", "2024-06-03"); err != nil {
		t.Fatalf("EditTask failed: %v", err)
	}

	delivered := make(chan string, 1)
	app.OnReminderDelivered(func(taskID string) {
		delivered <- taskID
	})

	withReminder, err := app.ScheduleReminder(ctx, groceries.ID, time.Now().Add(30*time.Millisecond))
	if err != nil {
		t.Fatalf("ScheduleReminder failed: %v", err)
	}
	if !app.ReminderActive(withReminder) {
		t.Error("freshly scheduled reminder should be active")
	}

	select {
	case taskID := <-delivered:
		if taskID != groceries.ID {
			t.Errorf("delivered task = %q, expected %q", taskID, groceries.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}

	if _, err := app.CompleteTask(ctx, groceries.ID); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if _, err := app.CompleteTask(ctx, dentist.ID); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if len(app.ActiveTasks()) != 0 {
		t.Errorf("active = %d after completing both, expected 0", len(app.ActiveTasks()))
	}

	onFirst, err := app.CompletedOn("2024-06-01")
	if err != nil {
		t.Fatalf("CompletedOn failed: %v", err)
	}
	if len(onFirst) != 1 || onFirst[0].ID != groceries.ID {
		t.Errorf("CompletedOn(2024-06-01) = %d tasks, expected the groceries task", len(onFirst))
	}

	summary := app.History(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if summary.Tiles.TotalCompleted != 2 {
		t.Errorf("total completed = %d, expected 2", summary.Tiles.TotalCompleted)
	}
	if _, ok := summary.Marks["2024-06-01"]; !ok {
		t.Error("calendar marks missing 2024-06-01")
	}
	if _, ok := summary.Marks["2024-06-03"]; !ok {
		t.Error("calendar marks missing 2024-06-03")
	}
}

// TestStatePersistsAcrossAppInstances tests the kv-backed round trip
func TestStatePersistsAcrossAppInstances(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()

	first, err := New(
		WithKV(mem),
		WithStorageKeys("host:tasks", "host:done"),
		WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	created, err := first.AddTask(ctx, "Persisted", "2024-06-01")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if _, err := first.CompleteTask(ctx, created.ID); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if err := first.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	second, err := New(
		WithKV(mem),
		WithStorageKeys("host:tasks", "host:done"),
		WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer second.Shutdown(ctx)

	completed := second.CompletedTasks()
	if len(completed) != 1 || completed[0].ID != created.ID {
		t.Errorf("reloaded completed = %d tasks, expected the persisted one", len(completed))
	}
}
