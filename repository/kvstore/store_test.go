package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskkeep/domain/entity"
	"taskkeep/infrastructure/kv"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(kv.NewMemory(), DefaultKeys(), nil)
	ctx := context.Background()

	first := entity.NewTask("Buy groceries", "2024-06-01")
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	first.SetReminder("rem-1", at)
	second := entity.NewTask("Walk the dog", "2024-06-02")

	if err := store.Save(ctx, CollectionActive, []*entity.Task{first, second}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, CollectionActive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d tasks, expected 2", len(loaded))
	}
	if loaded[0].ID != first.ID || loaded[0].Title != first.Title || loaded[0].Date != first.Date {
		t.Errorf("loaded task = %+v, expected %+v", loaded[0], first)
	}
	if loaded[0].ReminderID == nil || *loaded[0].ReminderID != "rem-1" {
		t.Error("reminder id should survive the round trip")
	}
	if loaded[0].ReminderAt == nil || !loaded[0].ReminderAt.Equal(at) {
		t.Error("reminder time should survive the round trip")
	}
	if loaded[1].ReminderID != nil || loaded[1].ReminderAt != nil {
		t.Error("absent reminder fields should stay absent")
	}
}

func TestLoadMissingKeyYieldsEmptyCollection(t *testing.T) {
	store := New(kv.NewMemory(), DefaultKeys(), nil)

	tasks, err := store.Load(context.Background(), CollectionActive)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("tasks = %v, expected empty non-nil slice", tasks)
	}
}

func TestLoadCorruptDataFailsSoft(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	if err := mem.Set(ctx, "@tasks", "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	store := New(mem, DefaultKeys(), nil)

	tasks, err := store.Load(ctx, CollectionActive)
	if err != nil {
		t.Fatalf("corrupt data must not surface as an error, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("loaded %d tasks from corrupt data, expected 0", len(tasks))
	}
}

type failingKV struct {
	getErr error
	setErr error
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingKV) Set(context.Context, string, string) error {
	return f.setErr
}

func TestLoadReadErrorFailsSoft(t *testing.T) {
	store := New(&failingKV{getErr: errors.New("disk gone")}, DefaultKeys(), nil)

	tasks, err := store.Load(context.Background(), CollectionActive)
	if err != nil {
		t.Fatalf("read error must not surface, got %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("loaded %d tasks, expected 0", len(tasks))
	}
}

func TestSaveWriteErrorSurfaces(t *testing.T) {
	store := New(&failingKV{setErr: errors.New("disk full")}, DefaultKeys(), nil)

	err := store.Save(context.Background(), CollectionActive, []*entity.Task{})
	if err == nil {
		t.Fatal("write failure must surface to the caller")
	}
}

func TestCollectionsUseSeparateKeys(t *testing.T) {
	mem := kv.NewMemory()
	keys := Keys{Active: "app:active", Completed: "app:done"}
	store := New(mem, keys, nil)
	ctx := context.Background()

	active := entity.NewTask("active one", "2024-06-01")
	done := entity.NewTask("done one", "2024-06-02")
	done.Completed = true

	if err := store.Save(ctx, CollectionActive, []*entity.Task{active}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, CollectionCompleted, []*entity.Task{done}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotActive, _ := store.Load(ctx, CollectionActive)
	gotDone, _ := store.Load(ctx, CollectionCompleted)
	if len(gotActive) != 1 || gotActive[0].ID != active.ID {
		t.Error("active collection read back the wrong tasks")
	}
	if len(gotDone) != 1 || gotDone[0].ID != done.ID {
		t.Error("completed collection read back the wrong tasks")
	}

	if _, ok, _ := mem.Get(ctx, "app:active"); !ok {
		t.Error("active collection not stored under its injected key")
	}
	if _, ok, _ := mem.Get(ctx, "app:done"); !ok {
		t.Error("completed collection not stored under its injected key")
	}
}
