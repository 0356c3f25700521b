package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// ReviewStore persists reviews, at most one per (provider, client) pair.
type ReviewStore interface {
	// Upsert inserts review, or overwrites the rating and comment of the
	// existing review for the same pair in one statement. The creation time
	// of an existing review is kept. On return review holds the stored
	// record and created reports whether a new row was inserted.
	// Returns ErrInvalidEntity if the provider or client does not exist.
	Upsert(ctx context.Context, review *domain.Review) (created bool, err error)

	// ListByProvider returns the provider's reviews, newest first, joined
	// with their authors.
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ReviewWithReviewer, error)

	// ProviderIDsByClient returns the distinct providers the client has
	// reviewed.
	ProviderIDsByClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
}
