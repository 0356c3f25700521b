package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// MockProviderStore implements store.ProviderStore in memory. Search
// aggregates ratings from Reviews when it is set.
type MockProviderStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, provider *domain.Provider) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Provider, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Provider, error)
	UpdateFn     func(ctx context.Context, id uuid.UUID, mutate store.ProviderMutation) (*domain.Provider, error)
	ListAllFn    func(ctx context.Context) ([]*domain.Provider, error)
	SearchFn     func(ctx context.Context, filter store.ProviderFilter) ([]domain.ProviderListing, error)

	// Reviews backs the rating aggregate of Search.
	Reviews *MockReviewStore

	// UpdateCalls counts calls to the default Update.
	UpdateCalls int

	mu        sync.Mutex
	providers map[uuid.UUID]*domain.Provider
}

var _ store.ProviderStore = (*MockProviderStore)(nil)

// NewMockProviderStore creates an empty store aggregating from reviews,
// which may be nil.
func NewMockProviderStore(reviews *MockReviewStore) *MockProviderStore {
	return &MockProviderStore{
		Reviews:   reviews,
		providers: make(map[uuid.UUID]*domain.Provider),
	}
}

// Create implements store.ProviderStore.
func (m *MockProviderStore) Create(ctx context.Context, provider *domain.Provider) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, provider)
	}
	provider.Email = domain.NormalizeEmail(provider.Email)
	provider.Normalize()
	if err := provider.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.providers {
		if existing.Email == provider.Email {
			return store.ErrEmailExists
		}
	}
	m.providers[provider.ID] = cloneProvider(provider)
	return nil
}

// GetByID implements store.ProviderStore.
func (m *MockProviderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, store.ErrProviderNotFound
	}
	return cloneProvider(p), nil
}

// GetByEmail implements store.ProviderStore.
func (m *MockProviderStore) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, p := range m.providers {
		if p.Email == email {
			return cloneProvider(p), nil
		}
	}
	return nil, store.ErrProviderNotFound
}

// Update implements store.ProviderStore. The hourly rate is recomputed
// after mutate, as the Postgres store does.
func (m *MockProviderStore) Update(
	ctx context.Context,
	id uuid.UUID,
	mutate store.ProviderMutation,
) (*domain.Provider, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, mutate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	existing, ok := m.providers[id]
	if !ok {
		return nil, store.ErrProviderNotFound
	}
	updated := cloneProvider(existing)
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	updated.LastActive = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	m.providers[id] = cloneProvider(updated)
	return updated, nil
}

// ListAll implements store.ProviderStore: stored rating desc, then newest
// first.
func (m *MockProviderStore) ListAll(ctx context.Context) ([]*domain.Provider, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	m.mu.Lock()
	all := make([]*domain.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		all = append(all, cloneProvider(p))
	}
	m.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// Search implements store.ProviderStore.
func (m *MockProviderStore) Search(ctx context.Context, filter store.ProviderFilter) ([]domain.ProviderListing, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, filter)
	}
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.ProviderListing, 0, len(all))
	for _, p := range all {
		if filter.ServiceType != "" && !p.Offers(filter.ServiceType) {
			continue
		}
		if filter.ServiceArea != "" && !p.Serves(filter.ServiceArea) {
			continue
		}
		listing := domain.ProviderListing{Provider: p}
		if m.Reviews != nil {
			reviews := m.Reviews.forProvider(p.ID)
			listing.AverageRating = domain.AverageRating(reviews)
			listing.ReviewCount = len(reviews)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Put stores provider as-is, bypassing normalization and validation. Used to
// seed tests.
func (m *MockProviderStore) Put(provider *domain.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.ID] = cloneProvider(provider)
}
