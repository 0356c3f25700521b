package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// JobStore persists job requests. Every provider-facing read and write is
// scoped by the owning provider in a single statement, so a job owned by
// someone else is indistinguishable from one that does not exist.
type JobStore interface {
	// Create saves a new job request.
	// Returns ErrInvalidEntity if the client or provider does not exist.
	Create(ctx context.Context, job *domain.JobRequest) error

	// ListByProvider returns the provider's jobs, newest first, each with
	// the client's contact details (addresses omitted).
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error)

	// GetForProvider returns one job with the client's contact details and
	// addresses. Returns ErrJobNotFound if the job does not exist or is
	// owned by another provider.
	GetForProvider(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobWithClient, error)

	// Transition applies t to the job and returns the updated record.
	// Returns ErrJobNotFound if the job does not exist or is owned by
	// another provider. The prior status is not checked.
	Transition(ctx context.Context, providerID, jobID uuid.UUID, t domain.JobTransition) (*domain.JobRequest, error)
}
