package domain

import (
	"strings"
	"time"
)

// Status is the workflow state of a task. Any status may move to any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	statusMessage   = "Status must be pending, in-progress, or completed"
	priorityMessage = "Priority must be low, medium, or high"
	dueDateRequired = "Please add a due date"
	dueDateInvalid  = "Please add a valid due date"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParseStatus converts s into a Status, rejecting anything outside the enumeration.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", NewValidationError("status", statusMessage, ErrValidation)
	}
	return status, nil
}

// ParsePriority converts s into a Priority, rejecting anything outside the enumeration.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.Valid() {
		return "", NewValidationError("priority", priorityMessage, ErrValidation)
	}
	return priority, nil
}

// ParseDueDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("dueDate", dueDateRequired, ErrValidation)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewValidationError("dueDate", dueDateInvalid, ErrValidation)
}

// Task is a unit of work owned by one user and optionally assigned to another.
type Task struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"       validate:"required,max=100"`
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Owner       ID        `json:"owner"`
	Assignee    ID        `json:"assignedTo"` // NilID when unassigned
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskFields carries raw client input for a new task. Empty Status and
// Priority fall back to pending and medium.
type TaskFields struct {
	Title       string
	Description string
	DueDate     string
	Status      string
	Priority    string
}

// NewTask validates fields and builds a task owned by owner.
// Violations are reported in field order: title, description, dueDate, status, priority.
func NewTask(owner ID, fields TaskFields) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          NewID(),
		Title:       strings.TrimSpace(fields.Title),
		Description: strings.TrimSpace(fields.Description),
		Status:      StatusPending,
		Priority:    PriorityMedium,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := validateStruct(task); err != nil {
		return nil, err
	}

	dueDate, err := ParseDueDate(fields.DueDate)
	if err != nil {
		return nil, err
	}
	task.DueDate = dueDate

	if fields.Status != "" {
		if task.Status, err = ParseStatus(fields.Status); err != nil {
			return nil, err
		}
	}
	if fields.Priority != "" {
		if task.Priority, err = ParsePriority(fields.Priority); err != nil {
			return nil, err
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks a Task that is about to be persisted.
func (t *Task) Validate() error {
	if t.ID.IsZero() {
		return NewValidationError("id", "task ID cannot be empty", ErrInvalidID)
	}
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return NewValidationError("dueDate", dueDateRequired, ErrValidation)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", statusMessage, ErrValidation)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", priorityMessage, ErrValidation)
	}
	if t.Owner.IsZero() {
		return NewValidationError("owner", "task owner cannot be empty", ErrValidation)
	}
	return nil
}

// TaskPatch holds the general-purpose fields of a partial update. Nil means unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *string
	Priority    *string
}

// Apply validates the patch with the creation rules and writes it onto t.
// t is left untouched when any field is invalid.
func (t *Task) Apply(p TaskPatch) error {
	next := *t

	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if err := validateStruct(&next); err != nil {
		return err
	}

	var err error
	if p.DueDate != nil {
		if next.DueDate, err = ParseDueDate(*p.DueDate); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if next.Status, err = ParseStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if next.Priority, err = ParsePriority(*p.Priority); err != nil {
			return err
		}
	}

	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}

// IsOwner reports whether id owns the task.
func (t *Task) IsOwner(id ID) bool {
	return !id.IsZero() && t.Owner == id
}

// IsAssignee reports whether id is the task's assignee.
func (t *Task) IsAssignee(id ID) bool {
	return !id.IsZero() && t.Assignee == id
}
