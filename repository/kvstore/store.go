// Package kvstore persists the two task collections as whole JSON arrays
// in a key-value store, one key per collection.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"taskkeep/domain/entity"
	"taskkeep/infrastructure/kv"
)

// Collection identifies one of the two persisted task collections.
type Collection string

const (
	CollectionActive    Collection = "active"
	CollectionCompleted Collection = "completed"
)

// Keys holds the storage keys for the two collections. Injected rather
// than read from package-level constants so embedders can namespace them.
type Keys struct {
	Active    string
	Completed string
}

// DefaultKeys returns the storage keys used by the standalone server.
func DefaultKeys() Keys {
	return Keys{
		Active:    "@tasks",
		Completed: "@completed-tasks",
	}
}

// TaskStore owns the persistence round-trip for the active and completed
// collections. Loads fail soft: a read or parse error surfaces as a warning
// and an empty collection, never as an error to the caller.
type TaskStore struct {
	kv     kv.Store
	keys   Keys
	logger *zap.Logger
}

// New creates a task store over the given key-value capability.
func New(store kv.Store, keys Keys, logger *zap.Logger) *TaskStore {
	if keys.Active == "" || keys.Completed == "" {
		keys = DefaultKeys()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskStore{kv: store, keys: keys, logger: logger}
}

// Load reads a collection. Missing or unreadable data yields an empty
// collection; unknown optional fields deserialize as absent.
func (s *TaskStore) Load(ctx context.Context, c Collection) ([]*entity.Task, error) {
	raw, ok, err := s.kv.Get(ctx, s.key(c))
	if err != nil {
		s.logger.Warn("Failed to load tasks from storage",
			zap.String("collection", string(c)),
			zap.Error(err))
		return []*entity.Task{}, nil
	}
	if !ok {
		return []*entity.Task{}, nil
	}

	var tasks []*entity.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.logger.Warn("Failed to parse stored tasks",
			zap.String("collection", string(c)),
			zap.Error(err))
		return []*entity.Task{}, nil
	}
	if tasks == nil {
		tasks = []*entity.Task{}
	}
	return tasks, nil
}

// Save serializes and persists the full collection. A write failure is
// logged and returned; callers keep their optimistic in-memory state.
func (s *TaskStore) Save(ctx context.Context, c Collection, tasks []*entity.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to serialize %s collection: %w", c, err)
	}
	if err := s.kv.Set(ctx, s.key(c), string(data)); err != nil {
		s.logger.Warn("Failed to save tasks to storage",
			zap.String("collection", string(c)),
			zap.Int("count", len(tasks)),
			zap.Error(err))
		return fmt.Errorf("failed to save %s collection: %w", c, err)
	}
	return nil
}

func (s *TaskStore) key(c Collection) string {
	if c == CollectionCompleted {
		return s.keys.Completed
	}
	return s.keys.Active
}
