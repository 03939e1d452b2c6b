package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

const (
	tokenCookie    = "token"
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
)

// UserResolver loads the profile behind a validated token.
type UserResolver interface {
	CurrentUser(ctx context.Context, id domain.ID) (*domain.UserProfile, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the token from the Authorization header, or from
// the token cookie when no header is sent, and stores the user in the
// request context. The user must still exist.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())

		token := extractToken(r)
		if token == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msgNoToken, auth.ErrMissingToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msgTokenFailed, err)
			return
		}

		user, err := m.users.CurrentUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				log.Debug("token for unknown user", slog.String("user_id", claims.UserID.Hex()))
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msgTokenFailed, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.WithUser(r.Context(), *user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken prefers "Authorization: Bearer <token>" over the cookie.
func extractToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := r.Cookie(tokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
