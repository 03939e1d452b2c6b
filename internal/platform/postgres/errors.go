package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// SQLSTATE codes for the constraints declared in the migrations.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// usersEmailIndex is the unique index behind store.ErrEmailExists.
const usersEmailIndex = "idx_users_email"

// MapError translates driver errors into store errors. The driver error stays
// in the chain for logging.
//
//   - no rows                 -> store.ErrNotFound
//   - unique on users.email   -> store.ErrEmailExists
//   - any other unique        -> store.ErrDuplicate
//   - foreign key, check, not null -> store.ErrInvalidEntity
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		if pgErr.ConstraintName == usersEmailIndex {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case foreignKeyViolationCode:
		// owner_id and assignee_id both reference users
		return fmt.Errorf("%w: referenced user does not exist (%s): %v",
			store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case checkViolationCode:
		return fmt.Errorf("%w: value out of range (%s): %v",
			store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: %s is required: %v",
			store.ErrInvalidEntity, pgErr.ColumnName, err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CheckRowsAffected returns the entity's not-found error when an UPDATE or
// DELETE touched no rows.
func CheckRowsAffected(result sql.Result, entity string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	switch entity {
	case "user":
		return store.ErrUserNotFound
	case "task":
		return store.ErrTaskNotFound
	default:
		return store.ErrNotFound
	}
}
