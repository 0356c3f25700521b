package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

const providerColumns = `p.id, p.first_name, p.last_name, p.email, p.phone, p.password_hash, p.language,
	p.service_types, p.service_details, p.service_areas, p.hourly_rate, p.availability, p.rating,
	p.legacy_reviews, p.profile_image, p.bio, p.experience, p.certifications, p.last_active, p.created_at`

// PostgresProviderStore implements the store.ProviderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProviderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProviderStore creates a new PostgreSQL implementation of the ProviderStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProviderStore(db store.DBTX, logger *slog.Logger) *PostgresProviderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProviderStore{
		db:     db,
		logger: logger.With(slog.String("component", "provider_store")),
	}
}

// Ensure PostgresProviderStore implements store.ProviderStore interface
var _ store.ProviderStore = (*PostgresProviderStore)(nil)

// providerJSON holds the jsonb-encoded list columns of a provider.
type providerJSON struct {
	serviceTypes   string
	serviceDetails string
	serviceAreas   string
	availability   string
	legacyReviews  string
	certifications string
}

func encodeProviderJSON(p *domain.Provider) (providerJSON, error) {
	var (
		enc providerJSON
		err error
	)
	if enc.serviceTypes, err = toJSONB(p.ServiceTypes); err != nil {
		return enc, err
	}
	if enc.serviceDetails, err = toJSONB(p.ServiceDetails); err != nil {
		return enc, err
	}
	if enc.serviceAreas, err = toJSONB(p.ServiceAreas); err != nil {
		return enc, err
	}
	if enc.availability, err = toJSONB(p.Availability); err != nil {
		return enc, err
	}
	if enc.legacyReviews, err = toJSONB(p.LegacyReviews); err != nil {
		return enc, err
	}
	if enc.certifications, err = toJSONB(p.Certifications); err != nil {
		return enc, err
	}
	return enc, nil
}

// Create implements store.ProviderStore.Create. The hourly rate is derived
// from the service details before the row is written.
func (s *PostgresProviderStore) Create(ctx context.Context, provider *domain.Provider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	provider.Email = domain.NormalizeEmail(provider.Email)
	provider.Normalize()
	if err := provider.Validate(); err != nil {
		log.Warn("provider validation failed during create",
			slog.String("error", err.Error()),
			slog.String("provider_id", provider.ID.String()))
		return err
	}

	enc, err := encodeProviderJSON(provider)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO providers (id, first_name, last_name, email, phone, password_hash, language,
			service_types, service_details, service_areas, hourly_rate, availability, rating,
			legacy_reviews, profile_image, bio, experience, certifications, last_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $20)
	`
	_, err = s.db.ExecContext(ctx, query,
		provider.ID,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.Phone,
		provider.PasswordHash,
		provider.Language,
		enc.serviceTypes,
		enc.serviceDetails,
		enc.serviceAreas,
		provider.HourlyRate,
		enc.availability,
		provider.Rating,
		enc.legacyReviews,
		provider.ProfileImage,
		provider.Bio,
		provider.Experience,
		enc.certifications,
		provider.LastActive,
		provider.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempted to create provider with existing email",
				slog.String("provider_id", provider.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create provider",
			slog.String("error", err.Error()),
			slog.String("provider_id", provider.ID.String()))
		return fmt.Errorf("failed to create provider: %w", MapError(err))
	}

	log.Info("provider created successfully",
		slog.String("provider_id", provider.ID.String()),
		slog.Float64("hourly_rate", provider.HourlyRate))
	return nil
}

// GetByID implements store.ProviderStore.GetByID.
func (s *PostgresProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers p WHERE p.id = $1`
	return s.getOne(ctx, s.db, query, id)
}

// GetByEmail implements store.ProviderStore.GetByEmail.
func (s *PostgresProviderStore) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers p WHERE p.email = $1`
	return s.getOne(ctx, s.db, query, domain.NormalizeEmail(email))
}

// Update implements store.ProviderStore.Update. The row is locked with
// SELECT ... FOR UPDATE so that concurrent profile edits cannot overwrite
// each other, and the hourly rate is recomputed before the write.
func (s *PostgresProviderStore) Update(
	ctx context.Context,
	id uuid.UUID,
	mutate store.ProviderMutation,
) (*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Provider
	err := store.InTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `SELECT ` + providerColumns + ` FROM providers p WHERE p.id = $1 FOR UPDATE`
		provider, err := s.getOne(ctx, tx, query, id)
		if err != nil {
			return err
		}

		if err := mutate(provider); err != nil {
			return err
		}
		provider.ID = id
		provider.LastActive = time.Now().UTC()
		provider.Normalize()
		if err := provider.Validate(); err != nil {
			return err
		}

		enc, err := encodeProviderJSON(provider)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE providers
			SET first_name = $1, last_name = $2, phone = $3, language = $4,
				service_types = $5, service_details = $6, service_areas = $7, hourly_rate = $8,
				availability = $9, profile_image = $10, bio = $11, experience = $12,
				certifications = $13, last_active = $14, updated_at = $14
			WHERE id = $15
		`,
			provider.FirstName,
			provider.LastName,
			provider.Phone,
			provider.Language,
			enc.serviceTypes,
			enc.serviceDetails,
			enc.serviceAreas,
			provider.HourlyRate,
			enc.availability,
			provider.ProfileImage,
			provider.Bio,
			provider.Experience,
			enc.certifications,
			provider.LastActive,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update provider: %w", MapError(err))
		}
		if err := CheckRowsAffected(result, store.ErrProviderNotFound); err != nil {
			return err
		}

		updated = provider
		return nil
	})
	if err != nil {
		log.Debug("provider update aborted",
			slog.String("provider_id", id.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("provider updated successfully",
		slog.String("provider_id", id.String()),
		slog.Float64("hourly_rate", updated.HourlyRate))
	return updated, nil
}

// ListAll implements store.ProviderStore.ListAll.
func (s *PostgresProviderStore) ListAll(ctx context.Context) ([]*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + providerColumns + ` FROM providers p ORDER BY p.rating DESC, p.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list providers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list providers: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	providers := make([]*domain.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate providers: %w", err)
	}
	return providers, nil
}

// Search implements store.ProviderStore.Search. Filtering and the rating
// aggregate happen in a single query.
func (s *PostgresProviderStore) Search(
	ctx context.Context,
	filter store.ProviderFilter,
) ([]domain.ProviderListing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + providerColumns + `,
			COALESCE(AVG(r.rating), 0)::float8 AS average_rating,
			COUNT(r.id) AS review_count
		FROM providers p
		LEFT JOIN reviews r ON r.provider_id = p.id
		WHERE ($1::text = ''
				OR p.service_types @> jsonb_build_array($1::text)
				OR p.service_details @> jsonb_build_array(jsonb_build_object('type', $1::text)))
			AND ($2::text = '' OR p.service_areas @> jsonb_build_array($2::text))
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, string(filter.ServiceType), filter.ServiceArea)
	if err != nil {
		log.Error("failed to search providers",
			slog.String("error", err.Error()),
			slog.String("service_type", string(filter.ServiceType)),
			slog.String("service_area", filter.ServiceArea))
		return nil, fmt.Errorf("failed to search providers: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	listings := make([]domain.ProviderListing, 0)
	for rows.Next() {
		var (
			average float64
			count   int
		)
		p, err := scanProvider(rows, &average, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider listing: %w", err)
		}
		listings = append(listings, domain.ProviderListing{
			Provider:      p,
			AverageRating: average,
			ReviewCount:   count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider listings: %w", err)
	}

	log.Debug("provider search completed", slog.Int("result_count", len(listings)))
	return listings, nil
}

func (s *PostgresProviderStore) getOne(
	ctx context.Context,
	db store.DBTX,
	query string,
	arg any,
) (*domain.Provider, error) {
	provider, err := scanProvider(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		err = MapNotFound(err, store.ErrProviderNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load provider",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to load provider: %w", err)
		}
		return nil, err
	}
	return provider, nil
}

// scanProvider reads providerColumns followed by any extra destinations.
func scanProvider(row rowScanner, extra ...any) (*domain.Provider, error) {
	var (
		p                                           domain.Provider
		language                                    string
		serviceTypes, serviceDetails, serviceAreas  []byte
		availability, legacyReviews, certifications []byte
	)
	dest := []any{
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.PasswordHash,
		&language,
		&serviceTypes,
		&serviceDetails,
		&serviceAreas,
		&p.HourlyRate,
		&availability,
		&p.Rating,
		&legacyReviews,
		&p.ProfileImage,
		&p.Bio,
		&p.Experience,
		&certifications,
		&p.LastActive,
		&p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.Language = domain.Language(language)
	if err := fromJSONB(serviceTypes, &p.ServiceTypes); err != nil {
		return nil, err
	}
	if err := fromJSONB(serviceDetails, &p.ServiceDetails); err != nil {
		return nil, err
	}
	if err := fromJSONB(serviceAreas, &p.ServiceAreas); err != nil {
		return nil, err
	}
	if err := fromJSONB(availability, &p.Availability); err != nil {
		return nil, err
	}
	if err := fromJSONB(legacyReviews, &p.LegacyReviews); err != nil {
		return nil, err
	}
	if err := fromJSONB(certifications, &p.Certifications); err != nil {
		return nil, err
	}
	return &p, nil
}
