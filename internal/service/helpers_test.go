package service_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store/memory"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

// fixture wires both services to fresh in-memory stores.
type fixture struct {
	users   *memory.UserStore
	tasks   *memory.TaskStore
	tokens  *auth.MockJWTService
	userSvc *service.UserServiceImpl
	taskSvc *service.TaskServiceImpl
	hasher  *mocks.MockPasswordHasher
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:  memory.NewUserStore(),
		tasks:  memory.NewTaskStore(),
		tokens: auth.NewMockJWTService(domain.NewID()),
		hasher: &mocks.MockPasswordHasher{},
		ctx:    context.Background(),
	}
	f.userSvc = service.NewUserService(f.users, f.hasher, f.tokens, testLogger)
	f.taskSvc = service.NewTaskService(f.tasks, f.users, testLogger)
	return f
}

// user stores an account directly and returns it.
func (f *fixture) user(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "secret1")
	require.NoError(t, err)
	u.HashedPassword = "hashed:secret1"
	require.NoError(t, f.users.Create(f.ctx, u))
	return u
}

// task creates a task through the service.
func (f *fixture) task(t *testing.T, owner domain.ID, title string, assignee *domain.User) *service.TaskView {
	t.Helper()
	in := service.NewTaskInput{TaskFields: domain.TaskFields{
		Title:       title,
		Description: "description of " + title,
		DueDate:     "2030-06-01",
	}}
	if assignee != nil {
		in.AssignedTo = assignee.ID.Hex()
	}
	view, err := f.taskSvc.CreateTask(f.ctx, owner, in)
	require.NoError(t, err)
	return view
}

func strPtr(s string) *string { return &s }
