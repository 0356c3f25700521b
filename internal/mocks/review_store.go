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

// MockReviewStore implements store.ReviewStore in memory. Reviewer names
// are resolved through Clients when it is set.
type MockReviewStore struct {
	// Function fields for customizable behavior
	UpsertFn              func(ctx context.Context, review *domain.Review) (bool, error)
	ListByProviderFn      func(ctx context.Context, providerID uuid.UUID) ([]domain.ReviewWithReviewer, error)
	ProviderIDsByClientFn func(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)

	// Clients resolves reviewer projections.
	Clients *MockClientStore

	mu      sync.Mutex
	reviews []domain.Review
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

// NewMockReviewStore creates an empty store resolving reviewers through
// clients, which may be nil.
func NewMockReviewStore(clients *MockClientStore) *MockReviewStore {
	return &MockReviewStore{Clients: clients}
}

// Upsert implements store.ReviewStore keyed by (provider, client).
func (m *MockReviewStore) Upsert(ctx context.Context, review *domain.Review) (bool, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, review)
	}
	if err := domain.ValidateRating(review.Rating); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		r := &m.reviews[i]
		if r.ProviderID == review.ProviderID && r.ClientID == review.ClientID {
			r.Rating = review.Rating
			r.Comment = review.Comment
			review.ID = r.ID
			review.CreatedAt = r.CreatedAt
			return false, nil
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	m.reviews = append(m.reviews, *review)
	return true, nil
}

// ListByProvider implements store.ReviewStore, newest first.
func (m *MockReviewStore) ListByProvider(
	ctx context.Context,
	providerID uuid.UUID,
) ([]domain.ReviewWithReviewer, error) {
	if m.ListByProviderFn != nil {
		return m.ListByProviderFn(ctx, providerID)
	}

	reviews := m.forProvider(providerID)
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	out := make([]domain.ReviewWithReviewer, 0, len(reviews))
	for _, r := range reviews {
		rw := domain.ReviewWithReviewer{Review: r, Reviewer: domain.Reviewer{ID: r.ClientID}}
		if m.Clients != nil {
			if c, err := m.Clients.GetByID(ctx, r.ClientID); err == nil {
				rw.Reviewer.Name = c.FullName()
				rw.Reviewer.ProfileImage = c.ProfileImage
			}
		}
		out = append(out, rw)
	}
	return out, nil
}

// ProviderIDsByClient implements store.ReviewStore.
func (m *MockReviewStore) ProviderIDsByClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	if m.ProviderIDsByClientFn != nil {
		return m.ProviderIDsByClientFn(ctx, clientID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, r := range m.reviews {
		if r.ClientID == clientID && !seen[r.ProviderID] {
			seen[r.ProviderID] = true
			ids = append(ids, r.ProviderID)
		}
	}
	return ids, nil
}

// Count returns the number of stored reviews.
func (m *MockReviewStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

func (m *MockReviewStore) forProvider(providerID uuid.UUID) []domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Review, 0)
	for _, r := range m.reviews {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	return out
}
