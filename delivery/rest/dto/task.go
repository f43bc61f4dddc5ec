package dto

import (
	"strings"
	"time"

	"taskkeep/domain"
	"taskkeep/domain/entity"
	"taskkeep/history"
)

// CreateTaskRequest represents a request to create a new task
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
	Date  string `json:"date" binding:"required"`
}

// Validate rejects empty titles before the operation is attempted.
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.ErrEmptyTitle
	}
	return nil
}

// UpdateTaskRequest represents a request to edit a task's title and date
type UpdateTaskRequest struct {
	Title string `json:"title" binding:"required"`
	Date  string `json:"date" binding:"required"`
}

// Validate rejects empty titles before the operation is attempted.
func (r *UpdateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.ErrEmptyTitle
	}
	return nil
}

// ScheduleReminderRequest carries the reminder time for a task
type ScheduleReminderRequest struct {
	RemindAt CustomTime `json:"remindAt" binding:"required"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Date           string     `json:"date"`
	Completed      bool       `json:"completed"`
	ReminderID     *string    `json:"reminderId,omitempty"`
	ReminderDate   *time.Time `json:"reminderDate,omitempty"`
	ReminderActive bool       `json:"reminderActive"`
}

// FromTask converts a task entity into its API representation.
func FromTask(t *entity.Task, reminderActive bool) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Date:           t.Date,
		Completed:      t.Completed,
		ReminderID:     t.ReminderID,
		ReminderDate:   t.ReminderAt,
		ReminderActive: reminderActive,
	}
}

// TaskListResponse wraps a task collection
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// HistoryResponse is the derived month summary plus the day grid
type HistoryResponse struct {
	Month        string                  `json:"month"`
	Marks        map[string]history.Mark `json:"calendarMarks"`
	WeeklySeries []int                   `json:"weeklySeries"`
	Tiles        history.Tiles           `json:"summaryTiles"`
	Grid         []history.DayCell       `json:"grid"`
}
