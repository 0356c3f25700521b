package mocks

import (
	"errors"

	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by the default Compare on mismatch.
var ErrPasswordMismatch = errors.New("password mismatch")

// mockHashPrefix marks hashes produced by the default Hash.
const mockHashPrefix = "hashed:"

// MockPasswordVerifier implements auth.PasswordVerifier and
// auth.PasswordHasher for testing. The default Hash prefixes the password
// and the default Compare checks that prefix, so registration and login
// round-trip without bcrypt's cost.
type MockPasswordVerifier struct {
	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// HashFn allows for custom hashing logic in tests
	HashFn func(password string) (string, error)

	// CompareCalledWith stores the arguments of the last Compare call
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordHasher   = (*MockPasswordVerifier)(nil)
)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword == mockHashPrefix+password {
		return nil
	}
	return ErrPasswordMismatch
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return HashFor(password), nil
}

// HashFor returns the hash the default Hash produces.
func HashFor(password string) string {
	return mockHashPrefix + password
}
