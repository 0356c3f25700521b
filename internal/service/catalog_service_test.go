package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/mocks"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(t *testing.T, f *fixture, providerID uuid.UUID, ratings ...int) {
	t.Helper()
	for _, r := range ratings {
		client := f.addClient(t, "Rater", uuid.NewString()+"@example.com")
		review, err := domain.NewReview(providerID, client.ID, r, "")
		require.NoError(t, err)
		_, err = f.reviews.Upsert(context.Background(), review)
		require.NoError(t, err)
	}
}

func TestCatalogService_ListProviders(t *testing.T) {
	f := newFixture()
	low := f.addProvider(t, "low@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	high := f.addProvider(t, "high@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Tel Aviv", "Haifa"})
	high.Rating = 4.8
	f.providers.Put(high)

	svc, err := service.NewCatalogService(f.providers, f.reviews, nil, nil)
	require.NoError(t, err)

	list, err := svc.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, high.ID, list[0].ID)
	assert.Equal(t, low.ID, list[1].ID)
	assert.Equal(t, []string{"Tel Aviv", "Haifa"}, list[0].ServiceCities)
}

func TestCatalogService_SearchProviders(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	home := f.addProvider(t, "home@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	office := f.addProvider(t, "office@example.com", []domain.ServiceType{domain.ServiceBuilding}, []string{"Haifa"})
	office.ServiceDetails = []domain.ServiceDetail{{Type: domain.ServiceOffice, HourlyRate: 70}}
	f.providers.Put(office)
	far := f.addProvider(t, "far@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Eilat"})

	rate(t, f, home.ID, 5, 3, 4)
	rate(t, f, office.ID, 5)
	rate(t, f, far.ID, 2)

	svc, err := service.NewCatalogService(f.providers, f.reviews, nil, nil)
	require.NoError(t, err)

	t.Run("sorted by average rating", func(t *testing.T) {
		res, err := svc.SearchProviders(ctx, service.SearchQuery{})
		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, office.ID, res[0].ID)
		assert.Equal(t, home.ID, res[1].ID)
		assert.InDelta(t, 4.0, res[1].AverageRating, 1e-9)
		assert.Equal(t, 3, res[1].ReviewCount)
		assert.Equal(t, far.ID, res[2].ID)
	})

	t.Run("legacy service type matches details", func(t *testing.T) {
		res, err := svc.SearchProviders(ctx, service.SearchQuery{ServiceType: "bureau"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, office.ID, res[0].ID)
	})

	t.Run("service area", func(t *testing.T) {
		res, err := svc.SearchProviders(ctx, service.SearchQuery{ServiceArea: "Eilat"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, far.ID, res[0].ID)
	})

	t.Run("min rating boundary is inclusive", func(t *testing.T) {
		four := 4.0
		res, err := svc.SearchProviders(ctx, service.SearchQuery{MinRating: &four})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, home.ID, res[1].ID)
	})

	t.Run("unknown service type matches nothing", func(t *testing.T) {
		res, err := svc.SearchProviders(ctx, service.SearchQuery{ServiceType: "window"})
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestCatalogService_ProviderDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	provider := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	rate(t, f, provider.ID, 5, 3, 4)

	cache := mocks.NewMemoryViewCache[service.ProviderDetails]()
	svc, err := service.NewCatalogService(f.providers, f.reviews, cache, nil)
	require.NoError(t, err)

	details, err := svc.ProviderDetails(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, provider.ID, details.ID)
	assert.InDelta(t, 4.0, details.AverageRating, 1e-9)
	assert.Equal(t, 3, details.ReviewCount)
	require.Len(t, details.Reviews, 3)
	assert.Equal(t, "Rater Levi", details.Reviews[0].Reviewer.Name)
	assert.True(t, cache.Has(service.ProviderDetailsKey(provider.ID)))

	f.reviews.ListByProviderFn = func(ctx context.Context, id uuid.UUID) ([]domain.ReviewWithReviewer, error) {
		t.Fatal("cached details must not hit the review store")
		return nil, nil
	}
	cached, err := svc.ProviderDetails(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.ReviewCount)
	assert.Equal(t, 1, cache.Hits)

	_, err = svc.ProviderDetails(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrProviderNotFound)
}

func TestCatalogCacheInvalidator(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	provider := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	client := f.addClient(t, "Noa", "noa@example.com")

	cache := mocks.NewMemoryViewCache[service.ProviderDetails]()
	invalidator, err := service.NewCatalogCacheInvalidator(cache, f.reviews, nil)
	require.NoError(t, err)
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.Subscribe(invalidator)

	catalog, err := service.NewCatalogService(f.providers, f.reviews, cache, nil)
	require.NoError(t, err)
	reviews, err := service.NewReviewService(f.providers, f.reviews, emitter, nil)
	require.NoError(t, err)

	before, err := catalog.ProviderDetails(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, before.ReviewCount)

	_, _, err = reviews.SubmitReview(ctx, provider.ID, client.ID, 5, "great")
	require.NoError(t, err)
	assert.False(t, cache.Has(service.ProviderDetailsKey(provider.ID)))

	after, err := catalog.ProviderDetails(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.ReviewCount)

	require.NoError(t, invalidator.HandleEvent(ctx, &events.DomainEvent{Type: "something.else"}))
	assert.True(t, cache.Has(service.ProviderDetailsKey(provider.ID)), "unrelated events are ignored")

	require.NoError(t, events.Emit(ctx, emitter, events.ProviderUpdated, events.ProviderUpdatedPayload{ProviderID: provider.ID}))
	assert.False(t, cache.Has(service.ProviderDetailsKey(provider.ID)))
}

func TestCatalogCacheInvalidator_ClientRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	reviewed := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	other := f.addProvider(t, "maya@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	client := f.addClient(t, "Noa", "noa@example.com")

	cache := mocks.NewMemoryViewCache[service.ProviderDetails]()
	invalidator, err := service.NewCatalogCacheInvalidator(cache, f.reviews, nil)
	require.NoError(t, err)
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.Subscribe(invalidator)

	catalog, err := service.NewCatalogService(f.providers, f.reviews, cache, nil)
	require.NoError(t, err)
	reviews, err := service.NewReviewService(f.providers, f.reviews, emitter, nil)
	require.NoError(t, err)
	clients, err := service.NewClientService(f.clients, emitter, nil)
	require.NoError(t, err)

	_, _, err = reviews.SubmitReview(ctx, reviewed.ID, client.ID, 4, "tidy")
	require.NoError(t, err)

	before, err := catalog.ProviderDetails(ctx, reviewed.ID)
	require.NoError(t, err)
	require.Len(t, before.Reviews, 1)
	assert.Equal(t, "Noa Levi", before.Reviews[0].Reviewer.Name)
	_, err = catalog.ProviderDetails(ctx, other.ID)
	require.NoError(t, err)

	renamed := "Renamed"
	_, err = clients.UpdateProfile(ctx, client.ID, service.ClientPatch{FirstName: &renamed})
	require.NoError(t, err)
	assert.False(t, cache.Has(service.ProviderDetailsKey(reviewed.ID)))
	assert.True(t, cache.Has(service.ProviderDetailsKey(other.ID)), "providers the client never reviewed keep their view")

	after, err := catalog.ProviderDetails(ctx, reviewed.ID)
	require.NoError(t, err)
	require.Len(t, after.Reviews, 1)
	assert.Equal(t, "Renamed Levi", after.Reviews[0].Reviewer.Name)
}

func TestCatalogCacheInvalidator_ClientLookupFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.reviews.ProviderIDsByClientFn = func(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
		return nil, errors.New("connection reset")
	}

	invalidator, err := service.NewCatalogCacheInvalidator(mocks.NewMemoryViewCache[service.ProviderDetails](), f.reviews, nil)
	require.NoError(t, err)

	event, err := events.NewDomainEvent(events.ClientUpdated, events.ClientUpdatedPayload{ClientID: uuid.New()})
	require.NoError(t, err)
	assert.Error(t, invalidator.HandleEvent(ctx, event))

	_, err = service.NewCatalogCacheInvalidator(mocks.NewMemoryViewCache[service.ProviderDetails](), nil, nil)
	assert.Error(t, err)
}
