package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the authenticated user's ID
	UserIDContextKey ContextKey = "userID"

	// UserContextKey is the context key for the authenticated user's profile
	UserContextKey ContextKey = "user"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user domain.UserProfile) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, user.ID)
	return context.WithValue(ctx, UserContextKey, user)
}

// UserID returns the authenticated user's ID, if any.
func UserID(ctx context.Context) (domain.ID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(domain.ID)
	if !ok || id.IsZero() {
		return domain.NilID, false
	}
	return id, true
}

// User returns the authenticated user's profile, if any.
func User(ctx context.Context) (domain.UserProfile, bool) {
	user, ok := ctx.Value(UserContextKey).(domain.UserProfile)
	return user, ok
}
