package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
)

// decodeAndValidate decodes the JSON body into v and validates it.
func decodeAndValidate(r *http.Request, v any) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return shared.ValidateRequest(v)
}

// decodeOptional decodes the JSON body into v when one is present. An empty
// body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return shared.ValidateRequest(v)
}

// getPathUUID parses a UUID path parameter. A value that is not a UUID
// cannot name an entity, so it is reported as notFound.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// currentIdentity returns the identity resolved by the auth middleware.
func currentIdentity(r *http.Request) (domain.Identity, error) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		return nil, auth.ErrMissingToken
	}
	return identity, nil
}

// currentClient returns the authenticated client.
func currentClient(r *http.Request) (*domain.Client, error) {
	identity, err := currentIdentity(r)
	if err != nil {
		return nil, err
	}
	client, ok := identity.(*domain.Client)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return client, nil
}

// currentProvider returns the authenticated provider.
func currentProvider(r *http.Request) (*domain.Provider, error) {
	identity, err := currentIdentity(r)
	if err != nil {
		return nil, err
	}
	provider, ok := identity.(*domain.Provider)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return provider, nil
}
