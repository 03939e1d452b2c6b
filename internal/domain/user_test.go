package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Ada Lovelace ", "  Ada@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestNewUser_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantMsg  string
	}{
		{"missing name", "", "a@b.com", "secret1", "Please add a name"},
		{"long name", strings.Repeat("x", 51), "a@b.com", "secret1", "Name cannot be more than 50 characters"},
		{"missing email", "Ada", "", "secret1", "Please add an email"},
		{"bad email", "Ada", "not-an-email", "secret1", "Please add a valid email"},
		{"missing password", "Ada", "a@b.com", "", "Please add a password"},
		{"short password", "Ada", "a@b.com", "12345", "Password must be at least 6 characters"},
		{"long password", "Ada", "a@b.com", strings.Repeat("p", 73), "Password cannot be more than 72 characters"},
		{"name checked before email", "", "bad", "1", "Please add a name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.userName, tt.email, tt.password)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantMsg, vErr.Message)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, user.Validate(), ErrEmptyHashedPassword)

	user.HashedPassword = "$2a$10$hash"
	assert.NoError(t, user.Validate())

	noID := *user
	noID.ID = NilID
	assert.ErrorIs(t, noID.Validate(), ErrInvalidID)
}

func TestUser_Profile(t *testing.T) {
	t.Parallel()

	user := &User{ID: NewID(), Name: "Ada", Email: "ada@example.com", HashedPassword: "hash"}
	profile := user.Profile()
	assert.Equal(t, UserProfile{ID: user.ID, Name: "Ada", Email: "ada@example.com"}, profile)
}
