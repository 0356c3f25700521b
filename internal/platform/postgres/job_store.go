package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

const jobColumns = `j.id, j.client_id, j.provider_id, j.service_type, j.property_type, j.status,
	j.scheduled_date, j.address, j.description, j.price, j.decline_reason, j.completion_notes,
	j.completed_at, j.created_at`

const jobClientColumns = `c.id, c.first_name, c.last_name, c.email, c.phone`

// PostgresJobStore implements the store.JobStore interface
// using a PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the JobStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements store.JobStore interface
var _ store.JobStore = (*PostgresJobStore)(nil)

// Create implements store.JobStore.Create.
// Returns store.ErrInvalidEntity if the client or provider doesn't exist.
func (s *PostgresJobStore) Create(ctx context.Context, job *domain.JobRequest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	price := sql.NullFloat64{}
	if job.Price != nil {
		price = sql.NullFloat64{Float64: *job.Price, Valid: true}
	}
	completedAt := sql.NullTime{}
	if job.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *job.CompletedAt, Valid: true}
	}

	query := `
		INSERT INTO job_requests (id, client_id, provider_id, service_type, property_type, status,
			scheduled_date, address, description, price, decline_reason, completion_notes,
			completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`
	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.ClientID,
		job.ProviderID,
		job.ServiceType,
		job.PropertyType,
		job.Status,
		job.ScheduledDate,
		job.Address,
		job.Description,
		price,
		job.DeclineReason,
		job.CompletionNotes,
		completedAt,
		job.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during job creation",
				slog.String("job_id", job.ID.String()),
				slog.String("client_id", job.ClientID.String()),
				slog.String("provider_id", job.ProviderID.String()))
		} else {
			log.Error("failed to create job",
				slog.String("error", err.Error()),
				slog.String("job_id", job.ID.String()))
		}
		return fmt.Errorf("failed to create job: %w", MapError(err))
	}

	log.Info("job created successfully",
		slog.String("job_id", job.ID.String()),
		slog.String("provider_id", job.ProviderID.String()))
	return nil
}

// ListByProvider implements store.JobStore.ListByProvider.
func (s *PostgresJobStore) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + jobColumns + `, ` + jobClientColumns + `
		FROM job_requests j
		LEFT JOIN clients c ON c.id = j.client_id
		WHERE j.provider_id = $1
		ORDER BY j.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, providerID)
	if err != nil {
		log.Error("failed to list jobs",
			slog.String("error", err.Error()),
			slog.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("failed to list jobs: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]domain.JobWithClient, 0)
	for rows.Next() {
		job, err := scanJobWithClient(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetForProvider implements store.JobStore.GetForProvider. Ownership is part
// of the WHERE clause, so a foreign job reads exactly like a missing one.
func (s *PostgresJobStore) GetForProvider(
	ctx context.Context,
	providerID, jobID uuid.UUID,
) (*domain.JobWithClient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + jobColumns + `, ` + jobClientColumns + `, c.addresses
		FROM job_requests j
		LEFT JOIN clients c ON c.id = j.client_id
		WHERE j.id = $1 AND j.provider_id = $2
	`
	job, err := scanJobWithClient(s.db.QueryRowContext(ctx, query, jobID, providerID), true)
	if err != nil {
		err = MapNotFound(err, store.ErrJobNotFound)
		if store.IsNotFoundError(err) {
			log.Debug("job not found for provider",
				slog.String("job_id", jobID.String()),
				slog.String("provider_id", providerID.String()))
			return nil, err
		}
		log.Error("failed to get job",
			slog.String("error", err.Error()),
			slog.String("job_id", jobID.String()))
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Transition implements store.JobStore.Transition as a single scoped
// UPDATE ... RETURNING. The previous status is not consulted.
func (s *PostgresJobStore) Transition(
	ctx context.Context,
	providerID, jobID uuid.UUID,
	t domain.JobTransition,
) (*domain.JobRequest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	declineReason := sql.NullString{}
	if t.DeclineReason != nil {
		declineReason = sql.NullString{String: *t.DeclineReason, Valid: true}
	}
	completionNotes := sql.NullString{}
	if t.CompletionNotes != nil {
		completionNotes = sql.NullString{String: *t.CompletionNotes, Valid: true}
	}
	completedAt := sql.NullTime{}
	if t.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *t.CompletedAt, Valid: true}
	}

	query := `
		UPDATE job_requests AS j
		SET status = $1,
			decline_reason = COALESCE($2, j.decline_reason),
			completion_notes = COALESCE($3, j.completion_notes),
			completed_at = COALESCE($4, j.completed_at),
			updated_at = NOW()
		WHERE j.id = $5 AND j.provider_id = $6
		RETURNING ` + jobColumns
	job, err := scanJob(s.db.QueryRowContext(ctx, query,
		t.Status,
		declineReason,
		completionNotes,
		completedAt,
		jobID,
		providerID,
	))
	if err != nil {
		err = MapNotFound(err, store.ErrJobNotFound)
		if store.IsNotFoundError(err) {
			log.Debug("job not found for transition",
				slog.String("job_id", jobID.String()),
				slog.String("provider_id", providerID.String()))
			return nil, err
		}
		log.Error("failed to transition job",
			slog.String("error", err.Error()),
			slog.String("job_id", jobID.String()),
			slog.String("status", string(t.Status)))
		return nil, fmt.Errorf("failed to transition job: %w", err)
	}

	log.Info("job transitioned",
		slog.String("job_id", jobID.String()),
		slog.String("status", string(job.Status)))
	return job, nil
}

func jobDest(j *domain.JobRequest, price *sql.NullFloat64, completedAt *sql.NullTime) []any {
	return []any{
		&j.ID,
		&j.ClientID,
		&j.ProviderID,
		&j.ServiceType,
		&j.PropertyType,
		&j.Status,
		&j.ScheduledDate,
		&j.Address,
		&j.Description,
		price,
		&j.DeclineReason,
		&j.CompletionNotes,
		completedAt,
		&j.CreatedAt,
	}
}

func finishJob(j *domain.JobRequest, price sql.NullFloat64, completedAt sql.NullTime) {
	if price.Valid {
		v := price.Float64
		j.Price = &v
	}
	if completedAt.Valid {
		at := completedAt.Time
		j.CompletedAt = &at
	}
}

func scanJob(row rowScanner) (*domain.JobRequest, error) {
	var (
		j           domain.JobRequest
		price       sql.NullFloat64
		completedAt sql.NullTime
	)
	if err := row.Scan(jobDest(&j, &price, &completedAt)...); err != nil {
		return nil, err
	}
	finishJob(&j, price, completedAt)
	return &j, nil
}

func scanJobWithClient(row rowScanner, withAddresses bool) (*domain.JobWithClient, error) {
	var (
		out         domain.JobWithClient
		price       sql.NullFloat64
		completedAt sql.NullTime
		clientID    uuid.NullUUID
		first, last sql.NullString
		email       sql.NullString
		phone       sql.NullString
		addresses   []byte
	)
	dest := append(jobDest(&out.JobRequest, &price, &completedAt),
		&clientID, &first, &last, &email, &phone)
	if withAddresses {
		dest = append(dest, &addresses)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	finishJob(&out.JobRequest, price, completedAt)

	if clientID.Valid {
		out.Client = &domain.ClientContact{
			ID:        clientID.UUID,
			FirstName: first.String,
			LastName:  last.String,
			Email:     email.String,
			Phone:     phone.String,
		}
		if withAddresses {
			if err := fromJSONB(addresses, &out.Client.Addresses); err != nil {
				return nil, err
			}
		}
	}
	return &out, nil
}
