package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskkeep/delivery/rest/dto"
	"taskkeep/delivery/rest/response"
	"taskkeep/domain/entity"
	"taskkeep/history"
	tasksvc "taskkeep/task"
)

// Handler handles HTTP requests
type Handler struct {
	svc    *tasksvc.Service
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *tasksvc.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// CreateTask handles POST /api/v1/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, 400, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	t, err := h.svc.Add(c.Request.Context(), req.Title, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromTask(t, false))
}

// ListTasks handles GET /api/v1/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	tasks := h.svc.ActiveTasks()
	response.Success(c, h.listResponse(tasks))
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, 400, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	t, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.Title, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromTask(t, h.svc.ReminderActive(t)))
}

// CompleteTask handles POST /api/v1/tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	t, err := h.svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromTask(t, false))
}

// DeleteTask handles DELETE /api/v1/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ScheduleReminder handles POST /api/v1/tasks/:id/reminder
func (h *Handler) ScheduleReminder(c *gin.Context) {
	var req dto.ScheduleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMessage(c, 400, "invalid_request", err.Error())
		return
	}

	t, err := h.svc.ScheduleReminder(c.Request.Context(), c.Param("id"), req.RemindAt.Time)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromTask(t, h.svc.ReminderActive(t)))
}

// CancelReminder handles DELETE /api/v1/tasks/:id/reminder
func (h *Handler) CancelReminder(c *gin.Context) {
	t, err := h.svc.CancelReminder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromTask(t, false))
}

// ListCompleted handles GET /api/v1/completed, optionally filtered by the
// date query parameter (yyyy-MM-dd).
func (h *Handler) ListCompleted(c *gin.Context) {
	tasks := h.svc.CompletedTasks()

	if date := c.Query("date"); date != "" {
		normalized, err := entity.NormalizeDate(date)
		if err != nil {
			response.Error(c, err)
			return
		}
		tasks = history.TasksOn(tasks, normalized)
	}
	response.Success(c, h.listResponse(tasks))
}

// GetHistory handles GET /api/v1/history?month=yyyy-MM, defaulting to the
// current month.
func (h *Handler) GetHistory(c *gin.Context) {
	month := time.Now()
	if m := c.Query("month"); m != "" {
		parsed, err := time.Parse("2006-01", m)
		if err != nil {
			response.ErrorWithMessage(c, 400, "invalid_month", "month must be formatted as yyyy-MM")
			return
		}
		month = parsed
	}

	completed := h.svc.CompletedTasks()
	summary := history.Summarize(completed, month)

	response.Success(c, dto.HistoryResponse{
		Month:        summary.Month,
		Marks:        summary.Marks,
		WeeklySeries: summary.WeeklySeries,
		Tiles:        summary.Tiles,
		Grid:         history.Grid(completed, month),
	})
}

func (h *Handler) listResponse(tasks []*entity.Task) dto.TaskListResponse {
	out := dto.TaskListResponse{Tasks: make([]dto.TaskResponse, 0, len(tasks)), Total: len(tasks)}
	for _, t := range tasks {
		active := false
		if !t.Completed {
			active = h.svc.ReminderActive(t)
		}
		out.Tasks = append(out.Tasks, dto.FromTask(t, active))
	}
	return out
}
