package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/store"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  domain.UserProfile
}

// UserService provides account operations.
type UserService interface {
	// Register creates an account and issues a token for it.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// CurrentUser resolves an authenticated identity to its public profile.
	CurrentUser(ctx context.Context, id domain.ID) (*domain.UserProfile, error)

	// ListUsers returns every public profile ordered by name.
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.JWTService
	logger *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) *UserServiceImpl {
	if users == nil || hasher == nil || tokens == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("user service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Register validates the input, stores the account with a bcrypt hash and
// issues a token. An existing email yields store.ErrEmailExists.
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		log.Debug("registration rejected", slog.String("error", err.Error()))
		return nil, err
	}

	// Checked before hashing so duplicates are cheap to reject. The unique
	// index still catches concurrent registrations.
	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		log.Debug("attempted to register existing email")
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		log.Error("failed to check email availability", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to check email", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.HashedPassword = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, err
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.Hex()))
	return s.issue(ctx, user, "register")
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "login", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("stored password hash is unusable",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.Hex()))
		}
		return nil, ErrInvalidCredentials
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.Hex()))
	return s.issue(ctx, user, "login")
}

func (s *UserServiceImpl) issue(ctx context.Context, user *domain.User, op string) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError("user", op, "failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}

// CurrentUser returns the profile for id. A token for a user that no longer
// exists is treated as an invalid token.
func (s *UserServiceImpl) CurrentUser(ctx context.Context, id domain.ID) (*domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, NewServiceError("user", "current_user", "failed to load user", err)
	}
	profile := user.Profile()
	return &profile, nil
}

// ListUsers returns every public profile ordered by name.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "list", "failed to list users", err)
	}

	profiles := make([]domain.UserProfile, len(users))
	for i, u := range users {
		profiles[i] = u.Profile()
	}
	return profiles, nil
}
