// Package task implements the task lifecycle: the rules moving a task
// between active, completed and deleted states, and the reminder protocol
// coordinated with the notification capability.
package task

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskkeep/domain"
	"taskkeep/domain/entity"
	"taskkeep/infrastructure/notify"
	"taskkeep/repository/kvstore"
)

// Store is the persistence contract the lifecycle service depends on.
type Store interface {
	Load(ctx context.Context, c kvstore.Collection) ([]*entity.Task, error)
	Save(ctx context.Context, c kvstore.Collection, tasks []*entity.Task) error
}

// Service orchestrates task lifecycle operations. All operations are
// serialized by a single mutex, so two operations never interleave: each
// mutator snapshots a collection, replaces it wholesale and then persists,
// which keeps readers on either the pre- or post-mutation state.
type Service struct {
	mu        sync.Mutex
	store     Store
	reminders *ReminderScheduler
	logger    *zap.Logger

	active    []*entity.Task
	completed []*entity.Task

	handlers []func(taskID string)
}

// NewService creates the lifecycle service. If notifier is non-nil the
// service subscribes to delivered events and reconciles its collections
// whenever a reminder fires.
func NewService(store Store, reminders *ReminderScheduler, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:     store,
		reminders: reminders,
		logger:    logger,
		active:    []*entity.Task{},
		completed: []*entity.Task{},
	}
	if notifier != nil {
		notifier.OnDelivered(s.handleDelivered)
	}
	return s
}

// Load reads both collections from storage into memory.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) error {
	active, err := s.store.Load(ctx, kvstore.CollectionActive)
	if err != nil {
		return err
	}
	completed, err := s.store.Load(ctx, kvstore.CollectionCompleted)
	if err != nil {
		return err
	}
	s.active = active
	s.completed = completed
	return nil
}

// ActiveTasks returns a snapshot of the active collection.
func (s *Service) ActiveTasks() []*entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.active)
}

// CompletedTasks returns a snapshot of the completed collection.
func (s *Service) CompletedTasks() []*entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.completed)
}

// ReminderActive reports whether the task's reminder is still pending.
func (s *Service) ReminderActive(t *entity.Task) bool {
	return s.reminders.IsActive(t)
}

// Add creates a new active task with no reminder.
func (s *Service) Add(ctx context.Context, title, date string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	normalized, err := entity.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := entity.NewTask(title, normalized)
	s.active = append(cloneAll(s.active), t)
	s.persistActive(ctx)

	s.logger.Info("Task added",
		zap.String("task_id", t.ID),
		zap.String("date", t.Date))
	return t.Clone(), nil
}

// Edit updates a task's title and date. When the date changes while a
// reminder is still pending, the old reminder is cancelled and a new one is
// created at the same time-of-day on the new date; a reminder that already
// fired is cleared instead of rescheduled. If rescheduling fails the
// title/date edit still applies and the task reverts to no-reminder state,
// never referencing the cancelled id.
func (s *Service) Edit(ctx context.Context, id, title, date string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	normalized, err := entity.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, current := s.findActiveLocked(id)
	if current == nil {
		return nil, domain.ErrNotFound
	}

	updated := current.Clone()
	dateChanged := updated.Date != normalized
	updated.Title = title
	updated.Date = normalized

	if dateChanged && updated.HasReminder() && !s.reminders.IsActive(updated) {
		// Already fired; clear the stale bookkeeping rather than
		// resurrecting the reminder on the new date
		updated.ClearReminder()
	} else if dateChanged && updated.HasReminder() {
		oldID := *updated.ReminderID
		oldAt := *updated.ReminderAt
		if err := s.reminders.Cancel(ctx, oldID); err != nil {
			s.logger.Warn("Failed to cancel reminder during edit",
				zap.String("task_id", id),
				zap.Error(err))
		}

		due, derr := updated.DueDate()
		if derr != nil {
			updated.ClearReminder()
		} else {
			// Keep the original time-of-day on the new date
			newAt := time.Date(due.Year(), due.Month(), due.Day(),
				oldAt.Hour(), oldAt.Minute(), oldAt.Second(), oldAt.Nanosecond(), oldAt.Location())
			newID, serr := s.reminders.Schedule(ctx, updated, newAt)
			if serr != nil {
				s.logger.Warn("Failed to reschedule reminder, clearing it",
					zap.String("task_id", id),
					zap.Error(serr))
				updated.ClearReminder()
			} else {
				updated.SetReminder(newID, newAt)
			}
		}
	}

	s.replaceActiveLocked(idx, updated)
	s.persistActive(ctx)
	return updated.Clone(), nil
}

// ScheduleReminder schedules a reminder for the task at the given time and
// records the reminder id and timestamp on the task. Scheduling over an
// existing reminder cancels the old trigger, so it cannot keep pending under
// an id no task references. On failure the task is left unchanged, previous
// reminder included.
func (s *Service) ScheduleReminder(ctx context.Context, id string, at time.Time) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, current := s.findActiveLocked(id)
	if current == nil {
		return nil, domain.ErrNotFound
	}

	reminderID, err := s.reminders.Schedule(ctx, current, at)
	if err != nil {
		return nil, err
	}

	if current.ReminderID != nil {
		if cerr := s.reminders.Cancel(ctx, *current.ReminderID); cerr != nil {
			s.logger.Warn("Failed to cancel replaced reminder",
				zap.String("task_id", id),
				zap.Error(cerr))
		}
	}

	updated := current.Clone()
	updated.SetReminder(reminderID, at)
	s.replaceActiveLocked(idx, updated)
	s.persistActive(ctx)
	return updated.Clone(), nil
}

// CancelReminder cancels the task's reminder and clears its bookkeeping.
// Clearing stale fields on a task whose reminder already fired is valid, so
// the task is persisted regardless.
func (s *Service) CancelReminder(ctx context.Context, id string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, current := s.findActiveLocked(id)
	if current == nil {
		return nil, domain.ErrNotFound
	}

	if current.ReminderID != nil {
		if err := s.reminders.Cancel(ctx, *current.ReminderID); err != nil {
			s.logger.Warn("Failed to cancel reminder",
				zap.String("task_id", id),
				zap.Error(err))
		}
	}

	updated := current.Clone()
	updated.ClearReminder()
	s.replaceActiveLocked(idx, updated)
	s.persistActive(ctx)
	return updated.Clone(), nil
}

// Complete moves the task from the active to the completed collection,
// cancelling any reminder first. A completed task never carries a live
// reminder. Both collections are updated before either save completes.
func (s *Service) Complete(ctx context.Context, id string) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, current := s.findActiveLocked(id)
	if current == nil {
		return nil, domain.ErrNotFound
	}

	if current.ReminderID != nil {
		if err := s.reminders.Cancel(ctx, *current.ReminderID); err != nil {
			s.logger.Warn("Failed to cancel reminder on completion",
				zap.String("task_id", id),
				zap.Error(err))
		}
	}

	done := current.CompletedCopy()
	s.removeActiveLocked(idx)
	s.completed = append(cloneAll(s.completed), done)

	s.persistActive(ctx)
	s.persistCompleted(ctx)

	s.logger.Info("Task completed",
		zap.String("task_id", id),
		zap.String("date", done.Date))
	return done.Clone(), nil
}

// Delete removes the task from the active collection, cancelling any
// reminder first. Removal is immediate and unrecoverable.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, current := s.findActiveLocked(id)
	if current == nil {
		return domain.ErrNotFound
	}

	if current.ReminderID != nil {
		if err := s.reminders.Cancel(ctx, *current.ReminderID); err != nil {
			s.logger.Warn("Failed to cancel reminder on delete",
				zap.String("task_id", id),
				zap.Error(err))
		}
	}

	s.removeActiveLocked(idx)
	s.persistActive(ctx)

	s.logger.Info("Task deleted", zap.String("task_id", id))
	return nil
}

// OnReminderDelivered registers a handler invoked with the task id whenever
// a reminder fires, after the collections have been reconciled.
func (s *Service) OnReminderDelivered(fn func(taskID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// handleDelivered reloads both collections so a task whose reminder just
// fired no longer shows as scheduled, then fans the event out. The fired
// reminder's fields stay on the record until a later cancel, complete or
// delete clears them; IsActive suppresses them in the meantime.
func (s *Service) handleDelivered(d notify.Delivery) {
	ctx := context.Background()

	s.mu.Lock()
	if err := s.reloadLocked(ctx); err != nil {
		s.logger.Warn("Failed to reload tasks after reminder delivery", zap.Error(err))
	}
	handlers := make([]func(string), len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	s.logger.Info("Reminder delivered",
		zap.String("task_id", d.Payload.Data.TaskID),
		zap.String("reminder_id", d.ReminderID))

	for _, fn := range handlers {
		fn(d.Payload.Data.TaskID)
	}
}

// persistActive saves the active collection. Failures are logged; the
// in-memory state the caller already sees is not rolled back.
func (s *Service) persistActive(ctx context.Context) {
	if err := s.store.Save(ctx, kvstore.CollectionActive, s.active); err != nil {
		s.logger.Error("Failed to persist active tasks", zap.Error(err))
	}
}

func (s *Service) persistCompleted(ctx context.Context) {
	if err := s.store.Save(ctx, kvstore.CollectionCompleted, s.completed); err != nil {
		s.logger.Error("Failed to persist completed tasks", zap.Error(err))
	}
}

func (s *Service) findActiveLocked(id string) (int, *entity.Task) {
	for i, t := range s.active {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (s *Service) replaceActiveLocked(idx int, t *entity.Task) {
	next := cloneAll(s.active)
	next[idx] = t
	s.active = next
}

func (s *Service) removeActiveLocked(idx int) {
	next := make([]*entity.Task, 0, len(s.active)-1)
	for i, t := range s.active {
		if i != idx {
			next = append(next, t)
		}
	}
	s.active = next
}

func cloneAll(tasks []*entity.Task) []*entity.Task {
	out := make([]*entity.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
