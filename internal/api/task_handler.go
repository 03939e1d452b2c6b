package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// TaskHandler handles task-related HTTP requests.
// Every route requires an authenticated user.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken)
		return
	}

	var req CreateTaskRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.Hex()),
		slog.String("user_id", userID.Hex()))
	shared.RespondWithJSON(w, r, http.StatusCreated, DataResponse{Success: true, Data: task})
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tasks.ListTasks)
}

// ListAssignedTasks handles GET /api/tasks/assigned
func (h *TaskHandler) ListAssignedTasks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.tasks.ListAssignedTasks)
}

type listFunc func(ctx context.Context, actor domain.ID, params service.ListParams) (*service.TaskPage, error)

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken)
		return
	}

	page, err := fn(r.Context(), userID, listParams(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Success:    true,
		Count:      page.Pagination.Total,
		Pagination: page.Pagination,
		Data:       page.Tasks,
	})
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: task})
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: task})
}

// UpdateStatus handles PUT /api/tasks/{id}/status
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req StatusRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), userID, taskID, req.Status)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: task})
}

// UpdatePriority handles PUT /api/tasks/{id}/priority
func (h *TaskHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req PriorityRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdatePriority(r.Context(), userID, taskID, req.Priority)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: task})
}

// AssignTask handles PUT /api/tasks/{id}/assign
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req AssignRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	task, err := h.tasks.AssignTask(r.Context(), userID, taskID, req.UserID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: task})
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task deleted",
		slog.String("task_id", taskID.Hex()),
		slog.String("user_id", userID.Hex()))
	shared.RespondWithJSON(w, r, http.StatusOK, emptyData())
}
