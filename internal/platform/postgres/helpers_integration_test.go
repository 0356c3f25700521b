//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

const testPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

func createTestClient(t *testing.T, tx *sql.Tx, firstName string) *domain.Client {
	t.Helper()
	client, err := domain.NewClient(firstName, "Levi", uniqueEmail("client"), "0501234567", testPasswordHash,
		domain.LanguageEnglish, []domain.Address{{Street: "1 Herzl St", City: "Haifa", ZipCode: "31000", IsDefault: true}})
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresClientStore(tx, nil).Create(context.Background(), client))
	return client
}

func createTestProvider(t *testing.T, tx *sql.Tx, types []domain.ServiceType, areas []string) *domain.Provider {
	t.Helper()
	provider, err := domain.NewProvider("Dana", "Cohen", uniqueEmail("provider"), "0527654321", testPasswordHash,
		domain.LanguageHebrew, types, areas, 80, nil)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresProviderStore(tx, nil).Create(context.Background(), provider))
	return provider
}

func createTestJob(t *testing.T, tx *sql.Tx, clientID, providerID uuid.UUID, createdAt time.Time) *domain.JobRequest {
	t.Helper()
	job, err := domain.NewJobRequest(clientID, providerID, domain.ServiceHome, domain.PropertyApartment,
		time.Now().Add(48*time.Hour), "1 Herzl St, Haifa", "two bedrooms")
	require.NoError(t, err)
	job.CreatedAt = createdAt.UTC()
	require.NoError(t, postgres.NewPostgresJobStore(tx, nil).Create(context.Background(), job))
	return job
}
