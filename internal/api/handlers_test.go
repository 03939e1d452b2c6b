package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

type testAPI struct {
	t      *testing.T
	router http.Handler
	users  *memory.UserStore
}

// newTestAPI mounts the handlers behind a stub authenticator that trusts the
// X-Test-User header.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := memory.NewUserStore()
	tasks := memory.NewTaskStore()
	userSvc := service.NewUserService(users, &mocks.MockPasswordHasher{}, auth.NewMockJWTService(domain.NewID()), testLogger)
	taskSvc := service.NewTaskService(tasks, users, testLogger)

	authH := api.NewAuthHandler(userSvc, api.CookieOptions{Lifetime: time.Hour}, testLogger)
	taskH := api.NewTaskHandler(taskSvc, testLogger)

	stubAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := domain.ParseID(r.Header.Get("X-Test-User"))
			if err != nil {
				shared.RespondWithError(w, r, http.StatusUnauthorized, api.MsgNoToken)
				return
			}
			profile, err := userSvc.CurrentUser(r.Context(), id)
			if err != nil {
				api.HandleAPIError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), *profile)))
		})
	}

	r := chi.NewRouter()
	r.Post("/api/users/register", authH.Register)
	r.Post("/api/users/login", authH.Login)
	r.Get("/api/users/logout", authH.Logout)
	r.Group(func(r chi.Router) {
		r.Use(stubAuth)
		r.Get("/api/users/me", authH.Me)
		r.Get("/api/users", authH.ListUsers)
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskH.ListTasks)
			r.Post("/", taskH.CreateTask)
			r.Get("/assigned", taskH.ListAssignedTasks)
			r.Get("/{id}", taskH.GetTask)
			r.Put("/{id}", taskH.UpdateTask)
			r.Delete("/{id}", taskH.DeleteTask)
			r.Put("/{id}/status", taskH.UpdateStatus)
			r.Put("/{id}/priority", taskH.UpdatePriority)
			r.Put("/{id}/assign", taskH.AssignTask)
		})
	})

	return &testAPI{t: t, router: r, users: users}
}

func (a *testAPI) do(method, path, user string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

// register creates an account and returns its id.
func (a *testAPI) register(name, email string) string {
	a.t.Helper()
	rec, body := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return body["user"].(map[string]any)["id"].(string)
}

func (a *testAPI) createTask(user string, body map[string]any) string {
	a.t.Helper()
	rec, resp := a.do(http.MethodPost, "/api/tasks", user, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["data"].(map[string]any)["id"].(string)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec, body := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "mock-jwt-token", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "hashedPassword")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, api.TokenCookieName, cookies[0].Name)
	assert.Equal(t, "mock-jwt-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"duplicate email", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"}, "Email already registered"},
		{"short password", map[string]string{"name": "Bob", "email": "bob@example.com", "password": "123"}, "Password must be at least 6 characters"},
		{"missing name", map[string]string{"email": "bob@example.com", "password": "secret1"}, "Please add a name"},
		{"malformed json", `{"name":`, "Invalid request format"},
	}
	for _, tt := range tests {
		rec, body := a.do(http.MethodPost, "/api/users/register", "", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)
		assert.Equal(t, false, body["success"], tt.name)
		assert.Equal(t, tt.message, body["message"], tt.name)
	}
}

func TestAuthHandler_LoginLogout(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	a.register("Ada", "ada@example.com")

	rec, body := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mock-jwt-token", body["token"])
	assert.Equal(t, "Ada", body["user"].(map[string]any)["name"])

	rec, body = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com", "password": "nope123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", body["message"])

	rec, body = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide an email and password", body["message"])

	rec, body = a.do(http.MethodGet, "/api/users/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "data": map[string]any{}}, body)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthHandler_MeAndList(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	bob := a.register("Bob", "bob@example.com")
	a.register("Ada", "ada@example.com")

	rec, body := a.do(http.MethodGet, "/api/users/me", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": bob, "name": "Bob", "email": "bob@example.com"}, body["data"])

	rec, body = a.do(http.MethodGet, "/api/users", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["count"])
	data := body["data"].([]any)
	assert.Equal(t, "Ada", data[0].(map[string]any)["name"])

	rec, _ = a.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskHandler_CreateAndGet(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	ada := a.register("Ada", "ada@example.com")
	bob := a.register("Bob", "bob@example.com")

	id := a.createTask(ada, map[string]any{
		"title": "Write report", "description": "Quarterly", "dueDate": "2030-03-01",
	})

	rec, body := a.do(http.MethodGet, "/api/tasks/"+id, ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	task := body["data"].(map[string]any)
	assert.Equal(t, "Write report", task["title"])
	assert.Equal(t, "Quarterly", task["description"])
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "medium", task["priority"])
	assert.Equal(t, "2030-03-01T00:00:00Z", task["dueDate"])
	assert.Nil(t, task["assignedTo"])
	assert.Equal(t, "Ada", task["owner"].(map[string]any)["name"])

	rec, body = a.do(http.MethodGet, "/api/tasks/"+id, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to access this task", body["message"])

	rec, body = a.do(http.MethodGet, "/api/tasks/not-an-id", ada, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid task ID format", body["message"])

	rec, body = a.do(http.MethodGet, "/api/tasks/"+domain.NewID().Hex(), ada, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", body["message"])

	rec, body = a.do(http.MethodPost, "/api/tasks", ada, map[string]any{"description": "no title", "dueDate": "2030-01-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please add a title", body["message"])

	rec, body = a.do(http.MethodPost, "/api/tasks", ada, map[string]any{
		"title": "T", "description": "D", "dueDate": "2030-01-01", "assignedTo": domain.NewID().Hex(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestTaskHandler_Mutations(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	ada := a.register("Ada", "ada@example.com")
	bob := a.register("Bob", "bob@example.com")
	carol := a.register("Carol", "carol@example.com")

	id := a.createTask(ada, map[string]any{
		"title": "Ship", "description": "Release", "dueDate": "2030-01-01", "assignedTo": bob,
	})
	path := "/api/tasks/" + id

	rec, body := a.do(http.MethodPut, path+"/status", bob, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status must be pending, in-progress, or completed", body["message"])

	rec, body = a.do(http.MethodPut, path+"/status", bob, map[string]string{"status": "in-progress"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "in-progress", body["data"].(map[string]any)["status"])

	rec, body = a.do(http.MethodPut, path+"/priority", bob, map[string]string{"priority": "high"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to update this task", body["message"])

	rec, body = a.do(http.MethodPut, path+"/priority", ada, map[string]string{"priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "high", body["data"].(map[string]any)["priority"])

	rec, body = a.do(http.MethodPut, path, bob, map[string]any{"title": "Ship v2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ship v2", body["data"].(map[string]any)["title"])

	rec, body = a.do(http.MethodPut, path+"/assign", ada, map[string]string{"userId": domain.NewID().Hex()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])

	rec, body = a.do(http.MethodPut, path+"/assign", ada, map[string]string{"userId": carol})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, carol, body["data"].(map[string]any)["assignedTo"].(map[string]any)["id"])

	rec, body = a.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to delete this task", body["message"])

	rec, body = a.do(http.MethodDelete, path, carol, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{}, body["data"])

	rec, _ = a.do(http.MethodPut, "/api/tasks/xyz/status", ada, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	ada := a.register("Ada", "ada@example.com")
	bob := a.register("Bob", "bob@example.com")

	for i := 0; i < 6; i++ {
		a.createTask(ada, map[string]any{"title": "mine", "description": "d", "dueDate": "2030-01-01", "priority": "low"})
	}
	a.createTask(bob, map[string]any{"title": "for ada", "description": "d", "dueDate": "2030-01-01", "assignedTo": ada})

	rec, body := a.do(http.MethodGet, "/api/tasks?page=2&limit=3", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.0, body["count"])
	assert.Len(t, body["data"], 3)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, 7.0, pagination["total"])
	assert.Equal(t, 3.0, pagination["totalPages"])
	assert.Equal(t, map[string]any{"page": 3.0, "limit": 3.0}, pagination["next"])
	assert.Equal(t, map[string]any{"page": 1.0, "limit": 3.0}, pagination["prev"])

	rec, body = a.do(http.MethodGet, "/api/tasks?page=4611686018427387905&limit=2", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.0, body["count"])
	assert.Equal(t, []any{}, body["data"])
	pagination = body["pagination"].(map[string]any)
	assert.Equal(t, 4.0, pagination["totalPages"])
	assert.NotContains(t, pagination, "next")
	assert.Contains(t, pagination, "prev")

	rec, body = a.do(http.MethodGet, "/api/tasks?priority=low&limit=abc", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6.0, body["count"])
	assert.Len(t, body["data"], 5)

	rec, body = a.do(http.MethodGet, "/api/tasks/assigned", ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["count"])
	assert.NotContains(t, body["pagination"], "next")
	assert.NotContains(t, body["pagination"], "prev")

	rec, body = a.do(http.MethodGet, "/api/tasks/assigned", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, body["count"])
	assert.Equal(t, []any{}, body["data"])
}

func TestTaskHandler_MissingUser(t *testing.T) {
	t.Parallel()

	h := api.NewTaskHandler(service.NewTaskService(memory.NewTaskStore(), memory.NewUserStore(), testLogger), testLogger)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil).WithContext(context.Background())
	h.ListTasks(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
