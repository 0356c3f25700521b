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

const clientColumns = `id, first_name, last_name, email, phone, password_hash, language,
	addresses, profile_image, created_at`

// PostgresClientStore implements the store.ClientStore interface
// using a PostgreSQL database as the storage backend.
type PostgresClientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClientStore creates a new PostgreSQL implementation of the ClientStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresClientStore(db store.DBTX, logger *slog.Logger) *PostgresClientStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresClientStore{
		db:     db,
		logger: logger.With(slog.String("component", "client_store")),
	}
}

// Ensure PostgresClientStore implements store.ClientStore interface
var _ store.ClientStore = (*PostgresClientStore)(nil)

// Create implements store.ClientStore.Create.
func (s *PostgresClientStore) Create(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	client.Email = domain.NormalizeEmail(client.Email)
	if err := client.Validate(); err != nil {
		log.Warn("client validation failed during create",
			slog.String("error", err.Error()),
			slog.String("client_id", client.ID.String()))
		return err
	}

	addresses, err := toJSONB(client.Addresses)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, password_hash, language,
			addresses, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.PasswordHash,
		client.Language,
		addresses,
		client.ProfileImage,
		client.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempted to create client with existing email",
				slog.String("client_id", client.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create client",
			slog.String("error", err.Error()),
			slog.String("client_id", client.ID.String()))
		return fmt.Errorf("failed to create client: %w", MapError(err))
	}

	log.Info("client created successfully", slog.String("client_id", client.ID.String()))
	return nil
}

// GetByID implements store.ClientStore.GetByID.
func (s *PostgresClientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return s.getOne(ctx, s.db, query, id)
}

// GetByEmail implements store.ClientStore.GetByEmail.
func (s *PostgresClientStore) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return s.getOne(ctx, s.db, query, domain.NormalizeEmail(email))
}

// Update implements store.ClientStore.Update. The row stays locked from the
// read until the write commits, so concurrent updates serialize.
func (s *PostgresClientStore) Update(
	ctx context.Context,
	id uuid.UUID,
	mutate store.ClientMutation,
) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Client
	err := store.InTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 FOR UPDATE`
		client, err := s.getOne(ctx, tx, query, id)
		if err != nil {
			return err
		}

		if err := mutate(client); err != nil {
			return err
		}
		client.ID = id
		if err := client.Validate(); err != nil {
			return err
		}

		addresses, err := toJSONB(client.Addresses)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE clients
			SET first_name = $1, last_name = $2, phone = $3, language = $4,
				addresses = $5, profile_image = $6, updated_at = $7
			WHERE id = $8
		`,
			client.FirstName,
			client.LastName,
			client.Phone,
			client.Language,
			addresses,
			client.ProfileImage,
			time.Now().UTC(),
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update client: %w", MapError(err))
		}
		if err := CheckRowsAffected(result, store.ErrClientNotFound); err != nil {
			return err
		}

		updated = client
		return nil
	})
	if err != nil {
		log.Debug("client update aborted",
			slog.String("client_id", id.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("client updated successfully", slog.String("client_id", id.String()))
	return updated, nil
}

func (s *PostgresClientStore) getOne(
	ctx context.Context,
	db store.DBTX,
	query string,
	arg any,
) (*domain.Client, error) {
	client, err := scanClient(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		err = MapNotFound(err, store.ErrClientNotFound)
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load client",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		return nil, err
	}
	return client, nil
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		c         domain.Client
		language  string
		addresses []byte
	)
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.PasswordHash,
		&language,
		&addresses,
		&c.ProfileImage,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Language = domain.Language(language)
	if err := fromJSONB(addresses, &c.Addresses); err != nil {
		return nil, err
	}
	return &c, nil
}
