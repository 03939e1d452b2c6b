package api

import (
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assignedTo"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assignedTo"`
}

// StatusRequest is the body of PUT /api/tasks/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// PriorityRequest is the body of PUT /api/tasks/{id}/priority.
type PriorityRequest struct {
	Priority string `json:"priority"`
}

// AssignRequest is the body of PUT /api/tasks/{id}/assign.
type AssignRequest struct {
	UserID string `json:"userId"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token"`
	User    domain.UserProfile `json:"user"`
}

// DataResponse wraps a single payload.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// UserListResponse is returned by GET /api/users.
type UserListResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Data    []domain.UserProfile `json:"data"`
}

// TaskListResponse is returned by the task listings. Count is the filtered total.
type TaskListResponse struct {
	Success    bool               `json:"success"`
	Count      int64              `json:"count"`
	Pagination store.Pagination   `json:"pagination"`
	Data       []service.TaskView `json:"data"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func emptyData() DataResponse {
	return DataResponse{Success: true, Data: struct{}{}}
}

func (r UpdateTaskRequest) toUpdate() service.TaskUpdate {
	return service.TaskUpdate{
		TaskPatch: domain.TaskPatch{
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate,
			Status:      r.Status,
			Priority:    r.Priority,
		},
		AssignedTo: r.AssignedTo,
	}
}

func (r CreateTaskRequest) toInput() service.NewTaskInput {
	return service.NewTaskInput{
		TaskFields: domain.TaskFields{
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate,
			Status:      r.Status,
			Priority:    r.Priority,
		},
		AssignedTo: r.AssignedTo,
	}
}
