package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// JWTService defines operations for managing JWT bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token naming the identity and its role.
	GenerateToken(ctx context.Context, id uuid.UUID, role domain.Role) (string, error)

	// ValidateToken checks the signature, expiry and claims of tokenString.
	// Every failure maps to one of the package's sentinel errors.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// ID is the identity the token was issued for.
	ID uuid.UUID
	// Role selects the store the identity lives in.
	Role domain.Role

	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}
