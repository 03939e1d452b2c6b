package store

import (
	"context"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user must carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDs retrieves every user whose ID is in ids, keyed by ID.
	// Unknown IDs are simply absent from the result.
	GetByIDs(ctx context.Context, ids []domain.ID) (map[domain.ID]*domain.User, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]*domain.User, error)
}
