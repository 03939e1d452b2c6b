package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyHashedPassword is returned when a user is persisted without a password hash.
var ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")

// User represents a registered account.
type User struct {
	ID             ID        `json:"id"`
	Name           string    `json:"name"  validate:"required,max=50"`
	Email          string    `json:"email" validate:"required,email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"createdAt"`
}

// UserProfile is the public view of a user: {id, name, email}.
type UserProfile struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// registration is validated before a User is built so the plaintext password
// never lives on the entity.
type registration struct {
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser validates registration input and returns a User without a password hash.
// The caller hashes password and sets HashedPassword before storing the user.
func NewUser(name, email, password string) (*User, error) {
	reg := registration{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: password,
	}
	if err := validateStruct(reg); err != nil {
		return nil, err
	}
	// bcrypt only considers the first 72 bytes
	if len([]byte(password)) > 72 {
		return nil, NewValidationError("password", messages["Password.max"], ErrValidation)
	}

	return &User{
		ID:        NewID(),
		Name:      reg.Name,
		Email:     reg.Email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate checks a User that is about to be persisted.
func (u *User) Validate() error {
	if u.ID.IsZero() {
		return NewValidationError("id", "user ID cannot be empty", ErrInvalidID)
	}
	if err := validateStruct(u); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// Profile returns the public view of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{ID: u.ID, Name: u.Name, Email: u.Email}
}
