// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the record
// stores (defined in internal/store) to fulfill application features.
//
// UserService covers registration, login and profile lookups. TaskService
// covers task CRUD, the owner/assignee access rules and filtered, paginated
// listings. Both receive their stores through constructor injection and
// never depend on a specific storage backend.
//
// Services return domain and store sentinel errors for expected conditions
// and wrap unexpected failures in ServiceError; the API layer maps them to
// HTTP status codes.
package service
