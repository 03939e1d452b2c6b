package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskflow-api/internal/api/shared"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/redact"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// Client-facing messages that do not come from an error value.
const (
	MsgInvalidRequest = "Invalid request format"
	MsgInvalidTaskID  = "Invalid task ID format"
	MsgNoToken        = "Not authorized, no token"
	MsgTokenFailed    = "Not authorized, token failed"
	MsgTooManyRequest = "Too many requests, please try again later"
	MsgUnexpected     = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Ownership failures are 401, and duplicate emails are 400.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError
	var authzErr *domain.AuthorizationError

	switch {
	case err == nil:
		return http.StatusOK

	// Bad request errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Authentication and authorization errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.As(err, &authzErr),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message sent to the client for err.
// Internal errors expose their redacted message.
func PublicMessage(err error) string {
	var validationErr *domain.ValidationError
	var authzErr *domain.AuthorizationError

	switch {
	case err == nil:
		return MsgUnexpected
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authzErr):
		return authzErr.Error()
	case errors.Is(err, service.ErrMissingCredentials):
		return service.ErrMissingCredentials.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return service.ErrInvalidCredentials.Error()
	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID
	case errors.Is(err, auth.ErrMissingToken):
		return MsgNoToken
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return MsgTokenFailed
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"
	default:
		return redact.Error(err)
	}
}

// HandleAPIError writes the error envelope for err with the mapped status.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), PublicMessage(err), err)
}
