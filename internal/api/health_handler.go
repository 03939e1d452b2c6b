package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
)

// timestampLayout is ISO 8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Root handles GET / with a plain-text liveness line.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("API is running...")); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to write liveness response", slog.String("error", err.Error()))
	}
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(timestampLayout),
	})
}
