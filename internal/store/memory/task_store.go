package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// TaskStore keeps tasks in a map guarded by a RWMutex.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.ID]domain.Task
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore returns an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[domain.ID]domain.Task)}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	s.tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id domain.ID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	// owner and creation time are immutable
	next := *task
	next.Owner = current.Owner
	next.CreatedAt = current.CreatedAt
	s.tasks[task.ID] = next
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Find implements store.TaskStore.Find
func (s *TaskStore) Find(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	matched := s.matching(q)

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.Hex() > matched[j].ID.Hex()
	})

	page := store.NewPage(q.Page.Number, q.Page.Size)
	offset := page.Offset()
	if offset < 0 || offset >= len(matched) {
		return []*domain.Task{}, nil
	}
	end := offset + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context, q store.TaskQuery) (int64, error) {
	return int64(len(s.matching(q))), nil
}

func (s *TaskStore) matching(q store.TaskQuery) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if q.Matches(&t) {
			t := t
			matched = append(matched, &t)
		}
	}
	return matched
}
