package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/redact"
	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

const (
	msgNotAuthorized = "Not authorized to access this route"
	msgUserNotFound  = "User not found"
)

// IdentityResolver loads the identity named by a token subject and role.
type IdentityResolver interface {
	Resolve(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Identity, error)
}

// AuthMiddleware authenticates bearer tokens and gates routes by role.
type AuthMiddleware struct {
	tokens     auth.JWTService
	identities IdentityResolver
	logger     *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. If logger is nil, a default
// logger will be used.
func NewAuthMiddleware(tokens auth.JWTService, identities IdentityResolver, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens:     tokens,
		identities: identities,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the bearer token, resolves its subject in the store
// selected by the token role and puts the identity in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgNotAuthorized)
			return
		}

		claims, err := m.tokens.ValidateToken(r.Context(), token)
		if err != nil {
			log.Debug("token rejected", slog.String("reason", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgNotAuthorized)
			return
		}

		identity, err := m.identities.Resolve(r.Context(), claims.ID, claims.Role)
		if err != nil {
			if store.IsNotFoundError(err) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, msgUserNotFound)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		ctx = logger.WithLogger(ctx, log.With(
			slog.String("user_id", claims.ID.String()),
			slog.String("role", string(claims.Role))))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests whose role is not one of
// roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, msgNotAuthorized)
				return
			}
			for _, role := range roles {
				if identity.Role() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			shared.RespondWithError(w, r, http.StatusForbidden,
				fmt.Sprintf("Role %s is not authorized to access this route", identity.Role()))
		})
	}
}

// GetIdentity returns the identity put in the context by Authenticate.
func GetIdentity(r *http.Request) (domain.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
