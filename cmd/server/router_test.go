package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api"
	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientURL = "http://localhost:3000"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			LogLevel:    "error",
			Environment: "test",
			ClientURL:   clientURL,
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory, Name: "taskflow"},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-characters",
			TokenLifetimeMinutes: 60,
			BCryptCost:           4,
		},
		RateLimit: config.RateLimitConfig{Requests: 100, WindowSeconds: 60},
	}
}

func newTestApp(t *testing.T) *application {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { app.cleanup(context.Background()) })
	return app
}

type client struct {
	t      *testing.T
	server *httptest.Server
}

func (c *client) do(method, path, token string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var decoded map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func (c *client) register(name, email string) (token, id string) {
	c.t.Helper()
	resp, body := c.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, body)
	return body["token"].(string), body["user"].(map[string]any)["id"].(string)
}

func newClient(t *testing.T, app *application) *client {
	t.Helper()
	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(server.Close)
	return &client{t: t, server: server}
}

func TestRouter_Liveness(t *testing.T) {
	t.Parallel()
	c := newClient(t, newTestApp(t))

	resp, err := c.server.Client().Get(c.server.URL + "/")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "API is running...", string(raw))

	resp, body := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running", body["message"])
	_, err = time.Parse("2006-01-02T15:04:05.000Z", body["timestamp"].(string))
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestRouter_TaskScenario(t *testing.T) {
	t.Parallel()
	c := newClient(t, newTestApp(t))

	adaToken, _ := c.register("Ada", "ada@example.com")
	bobToken, bobID := c.register("Bob", "bob@example.com")
	eveToken, _ := c.register("Eve", "eve@example.com")

	resp, body := c.do(http.MethodGet, "/api/users/me", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, bobID, body["data"].(map[string]any)["id"])

	resp, body = c.do(http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, no token", body["message"])

	resp, body = c.do(http.MethodGet, "/api/tasks", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized, token failed", body["message"])

	resp, body = c.do(http.MethodPost, "/api/tasks", adaToken, map[string]string{
		"title": "Plan sprint", "description": "Pick stories", "dueDate": "2030-02-01", "assignedTo": bobID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	task := body["data"].(map[string]any)
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "medium", task["priority"])
	taskPath := "/api/tasks/" + task["id"].(string)

	resp, body = c.do(http.MethodGet, taskPath, eveToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized to access this task", body["message"])

	resp, body = c.do(http.MethodPut, taskPath+"/status", bobToken, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Status must be pending, in-progress, or completed", body["message"])

	resp, body = c.do(http.MethodGet, taskPath, bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", body["data"].(map[string]any)["status"])

	resp, body = c.do(http.MethodGet, "/api/tasks/assigned", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["count"])

	resp, body = c.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", body["message"])

	resp, body = c.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/users", body["token"].(string), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CookieAuth(t *testing.T) {
	t.Parallel()
	c := newClient(t, newTestApp(t))

	token, _ := c.register("Ada", "ada@example.com")

	req, err := http.NewRequest(http.MethodGet, c.server.URL+"/api/users/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: api.TokenCookieName, Value: token})
	resp, err := c.server.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()
	c := newClient(t, newTestApp(t))

	req, err := http.NewRequest(http.MethodOptions, c.server.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", clientURL)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := c.server.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, clientURL, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	c := newClient(t, newTestApp(t))

	c.do(http.MethodGet, "/health", "", nil)

	resp, err := c.server.Client().Get(c.server.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `taskflow_api_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

// countingCounter is an in-process ratelimit.Counter.
type countingCounter struct {
	mu   sync.Mutex
	hits map[string]int64
}

func (c *countingCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[key]++
	return c.hits[key], window, nil
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.limiter = ratelimit.NewLimiter(&countingCounter{hits: map[string]int64{}}, 2, time.Minute, app.logger)
	c := newClient(t, app)

	creds := map[string]string{"email": "nobody@example.com", "password": "secret1"}
	for i := 0; i < 2; i++ {
		resp, _ := c.do(http.MethodPost, "/api/users/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := c.do(http.MethodPost, "/api/users/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, api.MsgTooManyRequest, body["message"])
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Other routes are not throttled.
	resp, _ = c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
