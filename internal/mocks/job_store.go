package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// MockJobStore implements store.JobStore in memory. Client contacts are
// resolved through Clients when it is set.
type MockJobStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, job *domain.JobRequest) error
	ListByProviderFn func(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error)
	GetForProviderFn func(ctx context.Context, providerID, jobID uuid.UUID) (*domain.JobWithClient, error)
	TransitionFn     func(ctx context.Context, providerID, jobID uuid.UUID, t domain.JobTransition) (*domain.JobRequest, error)

	// Clients resolves the embedded client contact.
	Clients *MockClientStore

	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.JobRequest
}

var _ store.JobStore = (*MockJobStore)(nil)

// NewMockJobStore creates an empty store resolving contacts through
// clients, which may be nil.
func NewMockJobStore(clients *MockClientStore) *MockJobStore {
	return &MockJobStore{Clients: clients, jobs: make(map[uuid.UUID]*domain.JobRequest)}
}

// Create implements store.JobStore.
func (m *MockJobStore) Create(ctx context.Context, job *domain.JobRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, job)
	}
	if err := job.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = cloneJob(job)
	return nil
}

// ListByProvider implements store.JobStore, newest first.
func (m *MockJobStore) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.JobWithClient, error) {
	if m.ListByProviderFn != nil {
		return m.ListByProviderFn(ctx, providerID)
	}
	m.mu.Lock()
	owned := make([]*domain.JobRequest, 0)
	for _, j := range m.jobs {
		if j.ProviderID == providerID {
			owned = append(owned, cloneJob(j))
		}
	}
	m.mu.Unlock()

	sort.SliceStable(owned, func(i, k int) bool {
		return owned[i].CreatedAt.After(owned[k].CreatedAt)
	})

	out := make([]domain.JobWithClient, 0, len(owned))
	for _, j := range owned {
		out = append(out, domain.JobWithClient{JobRequest: *j, Client: m.contact(ctx, j.ClientID, false)})
	}
	return out, nil
}

// GetForProvider implements store.JobStore. A foreign job is reported as
// missing.
func (m *MockJobStore) GetForProvider(
	ctx context.Context,
	providerID, jobID uuid.UUID,
) (*domain.JobWithClient, error) {
	if m.GetForProviderFn != nil {
		return m.GetForProviderFn(ctx, providerID, jobID)
	}
	m.mu.Lock()
	j, ok := m.jobs[jobID]
	if ok {
		j = cloneJob(j)
	}
	m.mu.Unlock()
	if !ok || j.ProviderID != providerID {
		return nil, store.ErrJobNotFound
	}
	return &domain.JobWithClient{JobRequest: *j, Client: m.contact(ctx, j.ClientID, true)}, nil
}

// Transition implements store.JobStore without a prior-status check.
func (m *MockJobStore) Transition(
	ctx context.Context,
	providerID, jobID uuid.UUID,
	t domain.JobTransition,
) (*domain.JobRequest, error) {
	if m.TransitionFn != nil {
		return m.TransitionFn(ctx, providerID, jobID, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok || j.ProviderID != providerID {
		return nil, store.ErrJobNotFound
	}
	t.Apply(j)
	return cloneJob(j), nil
}

func (m *MockJobStore) contact(ctx context.Context, clientID uuid.UUID, withAddresses bool) *domain.ClientContact {
	if m.Clients == nil {
		return nil
	}
	c, err := m.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil
	}
	contact := &domain.ClientContact{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
	}
	if withAddresses {
		contact.Addresses = c.Addresses
	}
	return contact
}
