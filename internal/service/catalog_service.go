package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// ProviderSummary is an entry of the full provider list. ServiceCities
// mirrors ServiceAreas for clients that read the older field name.
type ProviderSummary struct {
	*domain.Provider
	ServiceCities []string `json:"serviceCities"`
}

// ProviderSearchResult is a search hit with its review aggregate.
type ProviderSearchResult struct {
	*domain.Provider
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ProviderDetails is the public detail view of a provider.
type ProviderDetails struct {
	*domain.Provider
	Reviews       []domain.ReviewWithReviewer `json:"reviews"`
	AverageRating float64                     `json:"averageRating"`
	ReviewCount   int                         `json:"reviewCount"`
}

// SearchQuery holds the optional catalog filters. Zero values mean "no
// filter"; MinRating is nil when absent.
type SearchQuery struct {
	ServiceType string
	ServiceArea string
	MinRating   *float64
}

// DetailsCache stores rendered provider detail views.
type DetailsCache interface {
	Get(ctx context.Context, key string) (*ProviderDetails, bool)
	Set(ctx context.Context, key string, value *ProviderDetails)
	Delete(ctx context.Context, key string)
}

// ProviderDetailsKey is the cache key of a provider's detail view.
func ProviderDetailsKey(providerID uuid.UUID) string {
	return "provider:details:" + providerID.String()
}

// CatalogService serves the public provider catalog.
type CatalogService interface {
	// ListProviders returns every provider ordered by stored rating, then
	// newest first.
	ListProviders(ctx context.Context) ([]ProviderSummary, error)

	// SearchProviders filters providers and ranks them by average review
	// rating, highest first.
	SearchProviders(ctx context.Context, q SearchQuery) ([]ProviderSearchResult, error)

	// ProviderDetails returns the provider with all its reviews, newest first.
	ProviderDetails(ctx context.Context, providerID uuid.UUID) (*ProviderDetails, error)
}

type catalogServiceImpl struct {
	providers store.ProviderStore
	reviews   store.ReviewStore
	cache     DetailsCache
	logger    *slog.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil, in which
// case detail views are always read from the stores.
func NewCatalogService(
	providers store.ProviderStore,
	reviews store.ReviewStore,
	cache DetailsCache,
	logger *slog.Logger,
) (CatalogService, error) {
	if providers == nil {
		return nil, dependencyError("catalog", "providers")
	}
	if reviews == nil {
		return nil, dependencyError("catalog", "reviews")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogServiceImpl{
		providers: providers,
		reviews:   reviews,
		cache:     cache,
		logger:    logger.With(slog.String("component", "catalog_service")),
	}, nil
}

// ListProviders implements CatalogService.
func (s *catalogServiceImpl) ListProviders(ctx context.Context) ([]ProviderSummary, error) {
	providers, err := s.providers.ListAll(ctx)
	if err != nil {
		return nil, NewServiceError("catalog", "list_providers", "failed to list providers", err)
	}
	out := make([]ProviderSummary, 0, len(providers))
	for _, p := range providers {
		out = append(out, ProviderSummary{Provider: p, ServiceCities: p.ServiceAreas})
	}
	return out, nil
}

// SearchProviders implements CatalogService.
func (s *catalogServiceImpl) SearchProviders(ctx context.Context, q SearchQuery) ([]ProviderSearchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter := store.ProviderFilter{ServiceArea: q.ServiceArea}
	if q.ServiceType != "" {
		filter.ServiceType = domain.NormalizeServiceType(q.ServiceType)
	}

	listings, err := s.providers.Search(ctx, filter)
	if err != nil {
		return nil, NewServiceError("catalog", "search_providers", "failed to search providers", err)
	}
	ranked := domain.RankListings(listings, q.MinRating)

	log.Debug("provider search",
		slog.String("service_type", string(filter.ServiceType)),
		slog.String("service_area", filter.ServiceArea),
		slog.Int("matched", len(listings)),
		slog.Int("returned", len(ranked)))

	out := make([]ProviderSearchResult, 0, len(ranked))
	for _, l := range ranked {
		out = append(out, ProviderSearchResult{
			Provider:      l.Provider,
			AverageRating: l.AverageRating,
			ReviewCount:   l.ReviewCount,
		})
	}
	return out, nil
}

// ProviderDetails implements CatalogService.
func (s *catalogServiceImpl) ProviderDetails(ctx context.Context, providerID uuid.UUID) (*ProviderDetails, error) {
	key := ProviderDetailsKey(providerID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("catalog", "provider_details", "failed to load provider", err)
	}
	reviews, err := s.reviews.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("catalog", "provider_details", "failed to load reviews", err)
	}

	plain := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		plain = append(plain, r.Review)
	}
	details := &ProviderDetails{
		Provider:      provider,
		Reviews:       reviews,
		AverageRating: domain.AverageRating(plain),
		ReviewCount:   len(reviews),
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, details)
	}
	return details, nil
}
