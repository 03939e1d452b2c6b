package mocks

import (
	"errors"

	"github.com/phrazzld/taskflow-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// Hash prefixes the password with "hashed:"; Compare accepts the matching pair.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCallCount tracks how many times Hash was called
	HashCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return auth.ErrPasswordMismatch
}

// ErrMockFailure is a generic failure for simulating backend errors.
var ErrMockFailure = errors.New("mock backend failure")
