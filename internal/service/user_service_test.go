package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/mocks"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/phrazzld/taskflow-api/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates account and issues token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res, err := f.userSvc.Register(f.ctx, "  Ada Lovelace ", "ADA@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "mock-jwt-token", res.Token)
		assert.Equal(t, "Ada Lovelace", res.User.Name)
		assert.Equal(t, "ada@example.com", res.User.Email)
		assert.False(t, res.User.ID.IsZero())

		stored, err := f.users.GetByEmail(f.ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "hashed:secret1", stored.HashedPassword)
	})

	t.Run("rejects taken email before hashing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.user(t, "Ada", "ada@example.com")

		_, err := f.userSvc.Register(f.ctx, "Imposter", "Ada@example.com", "secret1")
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.Zero(t, f.hasher.HashCallCount)
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			userName string
			email    string
			password string
			field    string
		}{
			{"missing name", "", "a@example.com", "secret1", "name"},
			{"bad email", "Ada", "not-an-email", "secret1", "email"},
			{"short password", "Ada", "a@example.com", "12345", "password"},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				f := newFixture(t)

				_, err := f.userSvc.Register(f.ctx, tt.userName, tt.email, tt.password)
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
				assert.Equal(t, tt.field, vErr.Field)
				assert.ErrorIs(t, err, domain.ErrValidation)
			})
		}
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		t.Parallel()
		users := new(mocks.UserStore)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, store.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(mocks.ErrMockFailure)
		svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, auth.NewMockJWTService(domain.NewID()), testLogger)

		_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
		var sErr *service.ServiceError
		require.True(t, errors.As(err, &sErr))
		assert.Equal(t, "register", sErr.Operation)
		assert.ErrorIs(t, err, mocks.ErrMockFailure)
		users.AssertExpectations(t)
	})

	t.Run("token failure is wrapped", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.tokens.TokenError = errors.New("signing failed")

		_, err := f.userSvc.Register(f.ctx, "Ada", "ada@example.com", "secret1")
		var sErr *service.ServiceError
		require.True(t, errors.As(err, &sErr))
		assert.Contains(t, err.Error(), "failed to generate token")
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ada := f.user(t, "Ada", "ada@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "ada@example.com", "secret1", nil},
		{"email is case insensitive", " ADA@example.com ", "secret1", nil},
		{"wrong password", "ada@example.com", "wrong-password", service.ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "secret1", service.ErrInvalidCredentials},
		{"missing email", "", "secret1", service.ErrMissingCredentials},
		{"missing password", "ada@example.com", "", service.ErrMissingCredentials},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := f.userSvc.Login(f.ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ada.ID, res.User.ID)
			assert.Equal(t, "mock-jwt-token", res.Token)
		})
	}
}

func TestUserService_LoginLookupFailure(t *testing.T) {
	t.Parallel()

	users := new(mocks.UserStore)
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, mocks.ErrMockFailure)
	svc := service.NewUserService(users, &mocks.MockPasswordHasher{}, auth.NewMockJWTService(domain.NewID()), testLogger)

	_, err := svc.Login(context.Background(), "ada@example.com", "secret1")
	assert.ErrorIs(t, err, mocks.ErrMockFailure)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUserService_CurrentUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ada := f.user(t, "Ada", "ada@example.com")

	profile, err := f.userSvc.CurrentUser(f.ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{ID: ada.ID, Name: "Ada", Email: "ada@example.com"}, *profile)

	_, err = f.userSvc.CurrentUser(f.ctx, domain.NewID())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.user(t, "Charlie", "charlie@example.com")
	f.user(t, "Ada", "ada@example.com")
	f.user(t, "Bob", "bob@example.com")

	profiles, err := f.userSvc.ListUsers(f.ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "Ada", profiles[0].Name)
	assert.Equal(t, "Bob", profiles[1].Name)
	assert.Equal(t, "Charlie", profiles[2].Name)
}

func TestUserService_WithBcryptAndJWT(t *testing.T) {
	t.Parallel()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "a-very-long-secret-used-only-in-tests-0123",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	svc := service.NewUserService(memory.NewUserStore(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, testLogger)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	loggedIn, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.User, loggedIn.User)

	claims, err := tokens.ValidateToken(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	_, err = svc.Login(ctx, "ada@example.com", "secret2")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
