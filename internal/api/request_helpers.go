package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// taskIDParam is the chi URL parameter holding a task id.
const taskIDParam = "id"

// handleUserIDAndTaskID extracts the authenticated user and the task id from
// the path. It writes an error response and returns false if either is missing
// or malformed; a malformed id is rejected before any store call.
func handleUserIDAndTaskID(w http.ResponseWriter, r *http.Request) (domain.ID, domain.ID, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("user ID not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken)
		return domain.NilID, domain.NilID, false
	}

	raw := chi.URLParam(r, taskIDParam)
	taskID, err := domain.ParseID(raw)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Debug("invalid task id", slog.String("value", raw))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidTaskID, err)
		return domain.NilID, domain.NilID, false
	}

	return userID, taskID, true
}

// listParams reads page, limit, status and priority from the query string.
func listParams(r *http.Request) service.ListParams {
	q := r.URL.Query()
	return service.ListParams{
		Page:     shared.QueryInt(r, "page", store.DefaultPage),
		Limit:    shared.QueryInt(r, "limit", store.DefaultPageSize),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
}

// decodeOrReject decodes the JSON body into v and writes a 400 on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return false
	}
	return true
}
