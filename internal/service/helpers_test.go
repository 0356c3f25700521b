package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

// fixture wires the in-memory stores the way the server wires Postgres.
type fixture struct {
	clients   *mocks.MockClientStore
	providers *mocks.MockProviderStore
	jobs      *mocks.MockJobStore
	reviews   *mocks.MockReviewStore
	emitter   *mocks.RecordingEmitter
}

func newFixture() *fixture {
	clients := mocks.NewMockClientStore()
	reviews := mocks.NewMockReviewStore(clients)
	return &fixture{
		clients:   clients,
		providers: mocks.NewMockProviderStore(reviews),
		jobs:      mocks.NewMockJobStore(clients),
		reviews:   reviews,
		emitter:   &mocks.RecordingEmitter{},
	}
}

func (f *fixture) addClient(t *testing.T, first, email string) *domain.Client {
	t.Helper()
	c, err := domain.NewClient(first, "Levi", email, "0501234567", mocks.HashFor("secret123"), "",
		[]domain.Address{{Street: "1 Herzl St", City: "Haifa", ZipCode: "31000", IsDefault: true}})
	require.NoError(t, err)
	f.clients.Put(c)
	return c
}

func (f *fixture) addProvider(t *testing.T, email string, types []domain.ServiceType, areas []string) *domain.Provider {
	t.Helper()
	p, err := domain.NewProvider("Dana", "Cohen", email, "0527654321", mocks.HashFor("secret123"), "",
		types, areas, 80, nil)
	require.NoError(t, err)
	f.providers.Put(p)
	return p
}

func (f *fixture) addJob(t *testing.T, client *domain.Client, provider *domain.Provider, createdAt time.Time) *domain.JobRequest {
	t.Helper()
	job, err := domain.NewJobRequest(client.ID, provider.ID, domain.ServiceHome, domain.PropertyHouse,
		time.Now().Add(24*time.Hour), "1 Herzl St, Haifa", "")
	require.NoError(t, err)
	job.CreatedAt = createdAt
	require.NoError(t, f.jobs.Create(context.Background(), job))
	return job
}
