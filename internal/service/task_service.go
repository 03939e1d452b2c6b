package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// TaskView is a task with its owner and assignee expanded to public profiles.
// AssignedTo is nil when the task is unassigned.
type TaskView struct {
	ID          domain.ID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     time.Time           `json:"dueDate"`
	Status      domain.Status       `json:"status"`
	Priority    domain.Priority     `json:"priority"`
	Owner       *domain.UserProfile `json:"owner"`
	AssignedTo  *domain.UserProfile `json:"assignedTo"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewTaskInput is the client input for CreateTask. AssignedTo is an optional user id.
type NewTaskInput struct {
	domain.TaskFields
	AssignedTo string
}

// TaskUpdate is a partial update. Nil fields are left unchanged; an empty
// AssignedTo clears the assignee.
type TaskUpdate struct {
	domain.TaskPatch
	AssignedTo *string
}

// ListParams holds the raw listing parameters. Zero Page or Limit fall back to defaults.
type ListParams struct {
	Page     int
	Limit    int
	Status   string
	Priority string
}

// TaskPage is one page of a listing with its position in the full result set.
type TaskPage struct {
	Tasks      []TaskView
	Pagination store.Pagination
}

// TaskService provides task operations on behalf of an authenticated actor.
type TaskService interface {
	CreateTask(ctx context.Context, actor domain.ID, input NewTaskInput) (*TaskView, error)
	ListTasks(ctx context.Context, actor domain.ID, params ListParams) (*TaskPage, error)
	ListAssignedTasks(ctx context.Context, actor domain.ID, params ListParams) (*TaskPage, error)
	GetTask(ctx context.Context, actor, id domain.ID) (*TaskView, error)
	UpdateTask(ctx context.Context, actor, id domain.ID, update TaskUpdate) (*TaskView, error)
	UpdateStatus(ctx context.Context, actor, id domain.ID, status string) (*TaskView, error)
	UpdatePriority(ctx context.Context, actor, id domain.ID, priority string) (*TaskView, error)
	AssignTask(ctx context.Context, actor, id domain.ID, userID string) (*TaskView, error)
	DeleteTask(ctx context.Context, actor, id domain.ID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) *TaskServiceImpl {
	if tasks == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("task service stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:  tasks,
		users:  users,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask stores a task owned by actor, optionally assigned to an existing user.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor domain.ID, input NewTaskInput) (*TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(actor, input.TaskFields)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.AssignedTo) != "" {
		assignee, err := s.lookupUser(ctx, input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.Assignee = assignee
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewServiceError("task", "create", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.Hex()),
		slog.String("owner_id", actor.Hex()))
	return s.view(ctx, task)
}

// ListTasks lists tasks the actor owns or is assigned.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor domain.ID, params ListParams) (*TaskPage, error) {
	return s.list(ctx, actor, store.ScopeInvolved, params)
}

// ListAssignedTasks lists only tasks assigned to the actor.
func (s *TaskServiceImpl) ListAssignedTasks(ctx context.Context, actor domain.ID, params ListParams) (*TaskPage, error) {
	return s.list(ctx, actor, store.ScopeAssigned, params)
}

func (s *TaskServiceImpl) list(ctx context.Context, actor domain.ID, scope store.Scope, params ListParams) (*TaskPage, error) {
	q := store.NewTaskQuery(actor, scope, store.TaskFilter{
		Status:   domain.Status(params.Status),
		Priority: domain.Priority(params.Priority),
	}, store.Page{Number: params.Page, Size: params.Limit})

	var (
		total int64
		tasks []*domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.tasks.Count(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.Find(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("scope", scope.String()))
		return nil, NewServiceError("task", "list", "failed to query tasks", err)
	}

	views, err := s.expand(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return &TaskPage{Tasks: views, Pagination: store.Paginate(total, q.Page)}, nil
}

// GetTask returns a task the actor owns or is assigned.
func (s *TaskServiceImpl) GetTask(ctx context.Context, actor, id domain.ID) (*TaskView, error) {
	task, err := s.authorized(ctx, actor, id, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, task)
}

// UpdateTask applies a partial update. Changing the priority or the assignee
// through this path is reserved to the owner, as with the dedicated operations.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, actor, id domain.ID, update TaskUpdate) (*TaskView, error) {
	task, err := s.authorized(ctx, actor, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}

	next := *task
	if err := next.Apply(update.TaskPatch); err != nil {
		return nil, err
	}

	if update.AssignedTo != nil {
		next.Assignee = domain.NilID
		if strings.TrimSpace(*update.AssignedTo) != "" {
			if next.Assignee, err = s.lookupUser(ctx, *update.AssignedTo); err != nil {
				return nil, err
			}
		}
	}

	privileged := next.Priority != task.Priority || next.Assignee != task.Assignee
	if privileged && !domain.Can(actor, task, domain.ActionAssign) {
		return nil, &domain.AuthorizationError{Action: domain.ActionUpdate}
	}

	return s.save(ctx, &next, "update")
}

// UpdateStatus sets the status. Owner or assignee.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, actor, id domain.ID, status string) (*TaskView, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	task, err := s.authorized(ctx, actor, id, domain.ActionUpdateStatus)
	if err != nil {
		return nil, err
	}
	task.Status = parsed
	task.UpdatedAt = time.Now().UTC()
	return s.save(ctx, task, "update_status")
}

// UpdatePriority sets the priority. Owner only.
func (s *TaskServiceImpl) UpdatePriority(ctx context.Context, actor, id domain.ID, priority string) (*TaskView, error) {
	parsed, err := domain.ParsePriority(priority)
	if err != nil {
		return nil, err
	}

	task, err := s.authorized(ctx, actor, id, domain.ActionUpdatePriority)
	if err != nil {
		return nil, err
	}
	task.Priority = parsed
	task.UpdatedAt = time.Now().UTC()
	return s.save(ctx, task, "update_priority")
}

// AssignTask sets the assignee. The target user is resolved first; owner only.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, actor, id domain.ID, userID string) (*TaskView, error) {
	assignee, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	task, err := s.authorized(ctx, actor, id, domain.ActionAssign)
	if err != nil {
		return nil, err
	}
	task.Assignee = assignee
	task.UpdatedAt = time.Now().UTC()
	return s.save(ctx, task, "assign")
}

// DeleteTask removes a task. Owner or assignee.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor, id domain.ID) error {
	if _, err := s.authorized(ctx, actor, id, domain.ActionDelete); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return NewServiceError("task", "delete", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", id.Hex()),
		slog.String("actor_id", actor.Hex()))
	return nil
}

// authorized loads a task and checks that actor may perform action on it.
func (s *TaskServiceImpl) authorized(ctx context.Context, actor, id domain.ID, action domain.Action) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, NewServiceError("task", string(action), "failed to load task", err)
	}

	if err := domain.Authorize(actor, task, action); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task access denied",
			slog.String("task_id", id.Hex()),
			slog.String("actor_id", actor.Hex()),
			slog.String("action", string(action)))
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) save(ctx context.Context, task *domain.Task, op string) (*TaskView, error) {
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.Hex()),
			slog.String("op", op))
		return nil, NewServiceError("task", op, "failed to save task", err)
	}
	return s.view(ctx, task)
}

// lookupUser resolves a client-supplied user id. Malformed and unknown ids
// are both reported as store.ErrUserNotFound.
func (s *TaskServiceImpl) lookupUser(ctx context.Context, raw string) (domain.ID, error) {
	id, err := domain.ParseID(strings.TrimSpace(raw))
	if err != nil {
		return domain.NilID, store.ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domain.NilID, err
		}
		return domain.NilID, NewServiceError("task", "lookup_user", "failed to load user", err)
	}
	return user.ID, nil
}

func (s *TaskServiceImpl) view(ctx context.Context, task *domain.Task) (*TaskView, error) {
	views, err := s.expand(ctx, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expand resolves owners and assignees with one batched lookup.
func (s *TaskServiceImpl) expand(ctx context.Context, tasks []*domain.Task) ([]TaskView, error) {
	seen := make(map[domain.ID]struct{}, len(tasks)*2)
	ids := make([]domain.ID, 0, len(tasks)*2)
	for _, t := range tasks {
		for _, id := range []domain.ID{t.Owner, t.Assignee} {
			if id.IsZero() {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, NewServiceError("task", "expand", "failed to load users", err)
	}

	profile := func(id domain.ID) *domain.UserProfile {
		u, ok := users[id]
		if id.IsZero() || !ok {
			return nil
		}
		p := u.Profile()
		return &p
	}

	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			Status:      t.Status,
			Priority:    t.Priority,
			Owner:       profile(t.Owner),
			AssignedTo:  profile(t.Assignee),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
	}
	return views, nil
}
