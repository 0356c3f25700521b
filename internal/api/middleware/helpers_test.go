package middleware

import (
	"context"

	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

func withIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return shared.WithIdentity(ctx, identity)
}
