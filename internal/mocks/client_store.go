package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// MockClientStore implements store.ClientStore in memory.
type MockClientStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, client *domain.Client) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Client, error)
	UpdateFn     func(ctx context.Context, id uuid.UUID, mutate store.ClientMutation) (*domain.Client, error)

	// CreateError, when set, is returned by the default Create.
	CreateError error

	mu      sync.Mutex
	clients map[uuid.UUID]*domain.Client
}

var _ store.ClientStore = (*MockClientStore)(nil)

// NewMockClientStore creates an empty store.
func NewMockClientStore() *MockClientStore {
	return &MockClientStore{clients: make(map[uuid.UUID]*domain.Client)}
}

// Create implements store.ClientStore.
func (m *MockClientStore) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, client)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if err := client.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	client.Email = domain.NormalizeEmail(client.Email)
	for _, existing := range m.clients {
		if existing.Email == client.Email {
			return store.ErrEmailExists
		}
	}
	m.clients[client.ID] = cloneClient(client)
	return nil
}

// GetByID implements store.ClientStore.
func (m *MockClientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, store.ErrClientNotFound
	}
	return cloneClient(c), nil
}

// GetByEmail implements store.ClientStore.
func (m *MockClientStore) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, c := range m.clients {
		if c.Email == email {
			return cloneClient(c), nil
		}
	}
	return nil, store.ErrClientNotFound
}

// Update implements store.ClientStore. The lock is held across mutate, so
// concurrent updates are serialized like the row lock does in Postgres.
func (m *MockClientStore) Update(
	ctx context.Context,
	id uuid.UUID,
	mutate store.ClientMutation,
) (*domain.Client, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, mutate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.clients[id]
	if !ok {
		return nil, store.ErrClientNotFound
	}
	updated := cloneClient(existing)
	if err := mutate(updated); err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	m.clients[id] = cloneClient(updated)
	return updated, nil
}

// Put stores client as-is, bypassing validation. Used to seed tests.
func (m *MockClientStore) Put(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = cloneClient(client)
}
