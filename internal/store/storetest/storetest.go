// Package storetest holds behavioural tests shared by every store.UserStore
// and store.TaskStore implementation.
package storetest

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns empty stores backed by the same database.
type Factory func(t *testing.T) (store.UserStore, store.TaskStore)

// base is truncated to milliseconds so every backend round-trips it exactly.
var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "secret1")
	require.NoError(t, err)
	u.HashedPassword = "$2a$04$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234"
	u.CreatedAt = base
	return u
}

func newTask(t *testing.T, owner domain.ID, title string, offset time.Duration) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, domain.TaskFields{
		Title:       title,
		Description: "desc",
		DueDate:     "2030-01-01",
	})
	require.NoError(t, err)
	task.CreatedAt = base.Add(offset)
	task.UpdatedAt = task.CreatedAt
	return task
}

// RunUserStoreTests exercises the UserStore contract.
func RunUserStoreTests(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		users, _ := newStores(t)
		u := newUser(t, "Ada", "Ada@Example.com")
		require.NoError(t, users.Create(ctx, u))

		byID, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byID.ID)
		assert.Equal(t, "Ada", byID.Name)
		assert.Equal(t, "ada@example.com", byID.Email)
		assert.Equal(t, u.HashedPassword, byID.HashedPassword)
		assert.True(t, u.CreatedAt.Equal(byID.CreatedAt))

		byEmail, err := users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users, _ := newStores(t)
		require.NoError(t, users.Create(ctx, newUser(t, "Ada", "ada@example.com")))

		err := users.Create(ctx, newUser(t, "Imposter", "ada@example.com"))
		assert.True(t, errors.Is(err, store.ErrEmailExists), "got %v", err)
	})

	t.Run("not found", func(t *testing.T) {
		users, _ := newStores(t)

		_, err := users.GetByID(ctx, domain.NewID())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("get by ids and list", func(t *testing.T) {
		users, _ := newStores(t)
		bob := newUser(t, "Bob", "bob@example.com")
		ada := newUser(t, "Ada", "ada@example.com")
		require.NoError(t, users.Create(ctx, bob))
		require.NoError(t, users.Create(ctx, ada))

		found, err := users.GetByIDs(ctx, []domain.ID{bob.ID, domain.NewID()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Bob", found[bob.ID].Name)

		empty, err := users.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)

		all, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Ada", all[0].Name)
		assert.Equal(t, "Bob", all[1].Name)
	})
}

// RunTaskStoreTests exercises the TaskStore contract.
func RunTaskStoreTests(t *testing.T, newStores Factory) {
	ctx := context.Background()

	t.Run("crud", func(t *testing.T) {
		users, tasks := newStores(t)
		owner := newUser(t, "Ada", "ada@example.com")
		other := newUser(t, "Bob", "bob@example.com")
		require.NoError(t, users.Create(ctx, owner))
		require.NoError(t, users.Create(ctx, other))

		task := newTask(t, owner.ID, "Write report", 0)
		require.NoError(t, tasks.Create(ctx, task))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.Equal(t, domain.PriorityMedium, got.Priority)
		assert.Equal(t, owner.ID, got.Owner)
		assert.True(t, got.Assignee.IsZero())
		assert.True(t, task.DueDate.Equal(got.DueDate))

		got.Title = "Write final report"
		got.Status = domain.StatusCompleted
		got.Assignee = other.ID
		got.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, tasks.Update(ctx, got))

		updated, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write final report", updated.Title)
		assert.Equal(t, domain.StatusCompleted, updated.Status)
		assert.Equal(t, other.ID, updated.Assignee)
		assert.True(t, base.Add(time.Hour).Equal(updated.UpdatedAt))
		assert.True(t, task.CreatedAt.Equal(updated.CreatedAt))

		updated.Assignee = domain.NilID
		require.NoError(t, tasks.Update(ctx, updated))
		cleared, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, cleared.Assignee.IsZero())

		require.NoError(t, tasks.Delete(ctx, task.ID))
		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, task.ID), store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Update(ctx, task), store.ErrTaskNotFound)
	})

	t.Run("find and count", func(t *testing.T) {
		users, tasks := newStores(t)
		ada := newUser(t, "Ada", "ada@example.com")
		bob := newUser(t, "Bob", "bob@example.com")
		require.NoError(t, users.Create(ctx, ada))
		require.NoError(t, users.Create(ctx, bob))

		// ada owns four tasks; bob owns two, one of them assigned to ada.
		var adaTasks []*domain.Task
		for i, title := range []string{"a1", "a2", "a3", "a4"} {
			task := newTask(t, ada.ID, title, time.Duration(i)*time.Minute)
			if i%2 == 0 {
				task.Priority = domain.PriorityHigh
			}
			require.NoError(t, tasks.Create(ctx, task))
			adaTasks = append(adaTasks, task)
		}
		assigned := newTask(t, bob.ID, "b1", 10*time.Minute)
		assigned.Assignee = ada.ID
		assigned.Status = domain.StatusInProgress
		require.NoError(t, tasks.Create(ctx, assigned))
		require.NoError(t, tasks.Create(ctx, newTask(t, bob.ID, "b2", 11*time.Minute)))

		involved := store.NewTaskQuery(ada.ID, store.ScopeInvolved, store.TaskFilter{}, store.Page{Number: 1, Size: 3})
		total, err := tasks.Count(ctx, involved)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		page, err := tasks.Find(ctx, involved)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, []string{"b1", "a4", "a3"}, titles(page))

		involved.Page = store.Page{Number: 2, Size: 3}
		page, err = tasks.Find(ctx, involved)
		require.NoError(t, err)
		assert.Equal(t, []string{"a2", "a1"}, titles(page))

		involved.Page = store.Page{Number: 3, Size: 3}
		page, err = tasks.Find(ctx, involved)
		require.NoError(t, err)
		assert.Empty(t, page)

		farPast := store.NewTaskQuery(ada.ID, store.ScopeInvolved, store.TaskFilter{},
			store.Page{Number: math.MaxInt, Size: 3})
		page, err = tasks.Find(ctx, farPast)
		require.NoError(t, err)
		assert.Empty(t, page)
		farPast.Page = store.Page{Number: 4611686018427387905, Size: 2}
		page, err = tasks.Find(ctx, farPast)
		require.NoError(t, err)
		assert.Empty(t, page)

		high := store.NewTaskQuery(ada.ID, store.ScopeInvolved,
			store.TaskFilter{Priority: domain.PriorityHigh}, store.Page{})
		page, err = tasks.Find(ctx, high)
		require.NoError(t, err)
		assert.Equal(t, []string{"a3", "a1"}, titles(page))

		onlyAssigned := store.NewTaskQuery(ada.ID, store.ScopeAssigned,
			store.TaskFilter{Status: domain.StatusInProgress}, store.Page{})
		total, err = tasks.Count(ctx, onlyAssigned)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		page, err = tasks.Find(ctx, onlyAssigned)
		require.NoError(t, err)
		assert.Equal(t, []string{"b1"}, titles(page))

		unknown := store.NewTaskQuery(ada.ID, store.ScopeInvolved,
			store.TaskFilter{Status: domain.Status("archived")}, store.Page{})
		total, err = tasks.Count(ctx, unknown)
		require.NoError(t, err)
		assert.Zero(t, total)

		bobView := store.NewTaskQuery(bob.ID, store.ScopeInvolved, store.TaskFilter{}, store.Page{})
		total, err = tasks.Count(ctx, bobView)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
