// Package store defines the persistence interfaces for users and tasks,
// the errors every backend reports, and the backend-neutral task query
// descriptor with its pagination arithmetic. Implementations live in
// internal/platform/postgres, internal/platform/mongodb and internal/store/memory.
package store
