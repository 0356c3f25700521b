package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// Upsert implements store.ReviewStore.Upsert with one INSERT ... ON CONFLICT
// statement keyed by the (provider_id, client_id) unique constraint. xmax is
// zero only for a freshly inserted row, which tells the two outcomes apart.
func (s *PostgresReviewStore) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateRating(review.Rating); err != nil {
		return false, err
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reviews (id, provider_id, client_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT ON CONSTRAINT reviews_provider_client_key DO UPDATE
		SET rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at
		RETURNING id, provider_id, client_id, rating, comment, created_at, (xmax = 0) AS inserted
	`
	var created bool
	err := s.db.QueryRowContext(ctx, query,
		review.ID,
		review.ProviderID,
		review.ClientID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(
		&review.ID,
		&review.ProviderID,
		&review.ClientID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&created,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review upsert",
				slog.String("provider_id", review.ProviderID.String()),
				slog.String("client_id", review.ClientID.String()))
		} else {
			log.Error("failed to upsert review",
				slog.String("error", err.Error()),
				slog.String("provider_id", review.ProviderID.String()))
		}
		return false, fmt.Errorf("failed to upsert review: %w", MapError(err))
	}

	log.Info("review stored",
		slog.String("review_id", review.ID.String()),
		slog.String("provider_id", review.ProviderID.String()),
		slog.Bool("created", created))
	return created, nil
}

// ListByProvider implements store.ReviewStore.ListByProvider.
func (s *PostgresReviewStore) ListByProvider(
	ctx context.Context,
	providerID uuid.UUID,
) ([]domain.ReviewWithReviewer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT r.id, r.provider_id, r.client_id, r.rating, r.comment, r.created_at,
			c.first_name, c.last_name, c.profile_image
		FROM reviews r
		JOIN clients c ON c.id = r.client_id
		WHERE r.provider_id = $1
		ORDER BY r.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, providerID)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("error", err.Error()),
			slog.String("provider_id", providerID.String()))
		return nil, fmt.Errorf("failed to list reviews: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]domain.ReviewWithReviewer, 0)
	for rows.Next() {
		var (
			rw          domain.ReviewWithReviewer
			first, last string
		)
		if err := rows.Scan(
			&rw.ID,
			&rw.ProviderID,
			&rw.ClientID,
			&rw.Rating,
			&rw.Comment,
			&rw.CreatedAt,
			&first,
			&last,
			&rw.Reviewer.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		rw.Reviewer.ID = rw.ClientID
		rw.Reviewer.Name = strings.TrimSpace(first + " " + last)
		reviews = append(reviews, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}

// ProviderIDsByClient implements store.ReviewStore.ProviderIDsByClient.
func (s *PostgresReviewStore) ProviderIDsByClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT provider_id FROM reviews WHERE client_id = $1`, clientID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list reviewed providers",
			slog.String("error", err.Error()),
			slog.String("client_id", clientID.String()))
		return nil, fmt.Errorf("failed to list reviewed providers: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan provider id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider ids: %w", err)
	}
	return ids, nil
}
