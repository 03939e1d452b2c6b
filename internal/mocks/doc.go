// Package mocks provides shared mock implementations for testing.
//
// The store mocks use testify/mock so tests can set expectations per call
// and simulate backend failures that the in-memory store never produces:
//
//	users := new(mocks.UserStore)
//	users.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, store.ErrUserNotFound)
//
// MockPasswordHasher uses function fields instead, so it stays cheap to
// build in table tests.
package mocks
