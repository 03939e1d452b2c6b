package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service"
)

// TokenCookieName is the cookie carrying the access token.
const TokenCookieName = "token"

// CookieOptions controls the auth cookie.
type CookieOptions struct {
	Secure   bool
	Lifetime time.Duration
}

// AuthHandler handles account-related API requests.
type AuthHandler struct {
	users  service.UserService
	cookie CookieOptions
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		cookie: cookie,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	res, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{Success: true, Token: res.Token, User: res.User})
}

// Login handles POST /api/users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeOrReject(w, r, &req) {
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if status := MapErrorToStatusCode(err); status == http.StatusUnauthorized {
			shared.RespondWithErrorAndLog(w, r, status, PublicMessage(err), err, shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{Success: true, Token: res.Token, User: res.User})
}

// Logout handles GET /api/users/logout. Tokens are not revoked server side;
// the cookie is expired and the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	shared.RespondWithJSON(w, r, http.StatusOK, emptyData())
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.User(r.Context())
	if !ok {
		id, found := shared.UserID(r.Context())
		if !found {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNoToken)
			return
		}
		profile, err := h.users.CurrentUser(r.Context(), id)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		user = *profile
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Success: true, Data: user})
}

// ListUsers handles GET /api/users.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed users", slog.Int("count", len(users)))
	shared.RespondWithJSON(w, r, http.StatusOK, UserListResponse{Success: true, Count: len(users), Data: users})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
