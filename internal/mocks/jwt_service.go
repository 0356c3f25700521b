package mocks

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
)

// mockTokenPrefix marks tokens issued by the default GenerateToken.
const mockTokenPrefix = "mock-token"

// MockJWTService implements auth.JWTService for testing.
//
// Without function overrides it issues readable tokens of the form
// "mock-token:<role>:<id>" and validates exactly those, so handler tests
// can authenticate without signing keys.
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, id uuid.UUID, role domain.Role) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Err, when set, is returned by the default GenerateToken.
	Err error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// TokenFor returns the token the default GenerateToken issues.
func TokenFor(id uuid.UUID, role domain.Role) string {
	return mockTokenPrefix + ":" + string(role) + ":" + id.String()
}

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, id uuid.UUID, role domain.Role) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, id, role)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return TokenFor(id, role), nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	parts := strings.Split(tokenString, ":")
	if len(parts) != 3 || parts[0] != mockTokenPrefix {
		return nil, auth.ErrInvalidToken
	}
	role, err := domain.ParseRole(parts[1])
	if err != nil {
		return nil, auth.ErrInvalidRoleClaim
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{ID: id, Role: role}, nil
}
