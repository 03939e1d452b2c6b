// Package api holds the HTTP handlers for accounts and tasks. Handlers decode
// requests, call the services with the authenticated user taken from the
// request context, and render the {success, ...} JSON envelopes. Error
// mapping to status codes and client messages lives in errors.go.
package api
