package taskkeep

import (
	"context"
	"time"

	"taskkeep/domain/entity"
	"taskkeep/history"
)

// AddTask creates a new active task with no reminder.
func (a *App) AddTask(ctx context.Context, title, date string) (*entity.Task, error) {
	return a.svc.Add(ctx, title, date)
}

// EditTask updates a task's title and date, rescheduling its reminder if
// the date changed while one was active.
func (a *App) EditTask(ctx context.Context, id, title, date string) (*entity.Task, error) {
	return a.svc.Edit(ctx, id, title, date)
}

// CompleteTask moves a task to the completed collection.
func (a *App) CompleteTask(ctx context.Context, id string) (*entity.Task, error) {
	return a.svc.Complete(ctx, id)
}

// DeleteTask removes a task permanently.
func (a *App) DeleteTask(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, id)
}

// ScheduleReminder schedules a reminder for the task at the given time.
func (a *App) ScheduleReminder(ctx context.Context, id string, at time.Time) (*entity.Task, error) {
	return a.svc.ScheduleReminder(ctx, id, at)
}

// CancelReminder cancels the task's reminder and clears its bookkeeping.
func (a *App) CancelReminder(ctx context.Context, id string) (*entity.Task, error) {
	return a.svc.CancelReminder(ctx, id)
}

// ActiveTasks returns a snapshot of the active collection.
func (a *App) ActiveTasks() []*entity.Task {
	return a.svc.ActiveTasks()
}

// CompletedTasks returns a snapshot of the completed collection.
func (a *App) CompletedTasks() []*entity.Task {
	return a.svc.CompletedTasks()
}

// CompletedOn returns the tasks completed on the given canonical date.
func (a *App) CompletedOn(date string) ([]*entity.Task, error) {
	normalized, err := entity.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return history.TasksOn(a.svc.CompletedTasks(), normalized), nil
}

// History computes the derived month summary over the completed tasks.
func (a *App) History(month time.Time) *history.Summary {
	return history.Summarize(a.svc.CompletedTasks(), month)
}

// ReminderActive reports whether the task's reminder is still pending.
func (a *App) ReminderActive(t *entity.Task) bool {
	return a.svc.ReminderActive(t)
}

// OnReminderDelivered registers a handler invoked with the task id when a
// reminder fires, after the collections have been reconciled.
func (a *App) OnReminderDelivered(fn func(taskID string)) {
	a.svc.OnReminderDelivered(fn)
}
