package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// JobService is the provider-facing job ledger. Every operation is scoped
// to the calling provider: a job owned by someone else reads as missing.
type JobService interface {
	// ListJobs returns the provider's jobs, newest first.
	ListJobs(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error)

	// GetJob returns one of the provider's jobs with the client's addresses.
	GetJob(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobWithClient, error)

	// AcceptJob marks the job accepted.
	AcceptJob(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobRequest, error)

	// DeclineJob marks the job declined. An empty reason records
	// domain.DefaultDeclineReason.
	DeclineJob(ctx context.Context, providerID, jobID uuid.UUID, reason string) (*domain.JobRequest, error)

	// CompleteJob marks the job completed now with the given notes.
	CompleteJob(ctx context.Context, providerID, jobID uuid.UUID, notes string) (*domain.JobRequest, error)
}

type jobServiceImpl struct {
	jobs   store.JobStore
	now    func() time.Time
	logger *slog.Logger
}

// NewJobService creates a JobService.
func NewJobService(jobs store.JobStore, logger *slog.Logger) (JobService, error) {
	if jobs == nil {
		return nil, dependencyError("job", "jobs")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &jobServiceImpl{
		jobs:   jobs,
		now:    time.Now,
		logger: logger.With(slog.String("component", "job_service")),
	}, nil
}

// ListJobs implements JobService.
func (s *jobServiceImpl) ListJobs(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error) {
	jobs, err := s.jobs.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("job", "list_jobs", "failed to list jobs", err)
	}
	return jobs, nil
}

// GetJob implements JobService.
func (s *jobServiceImpl) GetJob(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobWithClient, error) {
	job, err := s.jobs.GetForProvider(ctx, providerID, jobID)
	if err != nil {
		return nil, NewServiceError("job", "get_job", "failed to get job", err)
	}
	return job, nil
}

// AcceptJob implements JobService.
func (s *jobServiceImpl) AcceptJob(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobRequest, error) {
	return s.transition(ctx, "accept_job", providerID, jobID, domain.AcceptTransition())
}

// DeclineJob implements JobService.
func (s *jobServiceImpl) DeclineJob(
	ctx context.Context,
	providerID, jobID uuid.UUID,
	reason string,
) (*domain.JobRequest, error) {
	return s.transition(ctx, "decline_job", providerID, jobID, domain.DeclineTransition(reason))
}

// CompleteJob implements JobService.
func (s *jobServiceImpl) CompleteJob(
	ctx context.Context,
	providerID, jobID uuid.UUID,
	notes string,
) (*domain.JobRequest, error) {
	return s.transition(ctx, "complete_job", providerID, jobID, domain.CompleteTransition(notes, s.now()))
}

func (s *jobServiceImpl) transition(
	ctx context.Context,
	operation string,
	providerID, jobID uuid.UUID,
	t domain.JobTransition,
) (*domain.JobRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	job, err := s.jobs.Transition(ctx, providerID, jobID, t)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("job transition on missing or foreign job",
				slog.String("job_id", jobID.String()),
				slog.String("operation", operation))
		}
		return nil, NewServiceError("job", operation, "failed to update job", err)
	}

	log.Info("job status changed",
		slog.String("job_id", job.ID.String()),
		slog.String("status", string(job.Status)))
	return job, nil
}
