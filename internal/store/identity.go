package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// ClientMutation edits a loaded client in place. Returning an error aborts
// the surrounding update without writing anything.
type ClientMutation func(c *domain.Client) error

// ClientStore persists client identities.
type ClientStore interface {
	// Create saves a new client.
	// Returns ErrEmailExists if another client already uses the email.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID returns ErrClientNotFound if the client does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// GetByEmail looks the client up by normalized email.
	// Returns ErrClientNotFound if no client uses the email.
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)

	// Update loads the client under a row lock, applies mutate and writes the
	// result back in the same transaction. Returns ErrClientNotFound if the
	// client does not exist, or the error returned by mutate.
	Update(ctx context.Context, id uuid.UUID, mutate ClientMutation) (*domain.Client, error)
}

// ProviderMutation edits a loaded provider in place. Returning an error
// aborts the surrounding update without writing anything.
type ProviderMutation func(p *domain.Provider) error

// ProviderFilter narrows a catalog search. Zero values match everything.
type ProviderFilter struct {
	// ServiceType must already be translated through the service vocabulary.
	// It matches the provider's service types or any of its service details.
	ServiceType domain.ServiceType
	// ServiceArea matches by membership in the provider's service areas.
	ServiceArea string
}

// ProviderStore persists provider identities. Implementations recompute the
// derived hourly rate on every write.
type ProviderStore interface {
	// Create saves a new provider.
	// Returns ErrEmailExists if another provider already uses the email.
	Create(ctx context.Context, provider *domain.Provider) error

	// GetByID returns ErrProviderNotFound if the provider does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error)

	// GetByEmail looks the provider up by normalized email.
	// Returns ErrProviderNotFound if no provider uses the email.
	GetByEmail(ctx context.Context, email string) (*domain.Provider, error)

	// Update loads the provider under a row lock, applies mutate and writes
	// the normalized result back in the same transaction.
	Update(ctx context.Context, id uuid.UUID, mutate ProviderMutation) (*domain.Provider, error)

	// ListAll returns every provider ordered by stored rating, then by
	// creation time, both descending.
	ListAll(ctx context.Context) ([]*domain.Provider, error)

	// Search returns the providers matching filter, each with the average
	// rating and review count computed from the review store. The result
	// is unordered; ranking is the caller's concern.
	Search(ctx context.Context, filter ProviderFilter) ([]domain.ProviderListing, error)
}
