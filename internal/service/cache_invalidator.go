package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// CatalogCacheInvalidator drops cached provider detail views when a
// provider's profile or reviews change, or when a reviewer renames
// themselves.
type CatalogCacheInvalidator struct {
	cache   DetailsCache
	reviews store.ReviewStore
	logger  *slog.Logger
}

var _ events.EventHandler = (*CatalogCacheInvalidator)(nil)

// NewCatalogCacheInvalidator creates an invalidator for cache. reviews maps
// a client to the providers whose views embed that client.
func NewCatalogCacheInvalidator(
	cache DetailsCache,
	reviews store.ReviewStore,
	logger *slog.Logger,
) (*CatalogCacheInvalidator, error) {
	switch {
	case cache == nil:
		return nil, dependencyError("catalog", "cache")
	case reviews == nil:
		return nil, dependencyError("catalog", "reviews")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogCacheInvalidator{
		cache:   cache,
		reviews: reviews,
		logger:  logger.With(slog.String("component", "catalog_cache_invalidator")),
	}, nil
}

// HandleEvent implements events.EventHandler. Unrelated event types are
// ignored.
func (h *CatalogCacheInvalidator) HandleEvent(ctx context.Context, event *events.DomainEvent) error {
	var providerIDs []uuid.UUID
	switch event.Type {
	case events.ProviderUpdated:
		var payload events.ProviderUpdatedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		providerIDs = []uuid.UUID{payload.ProviderID}
	case events.ReviewSubmitted:
		var payload events.ReviewSubmittedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		providerIDs = []uuid.UUID{payload.ProviderID}
	case events.ClientUpdated:
		var payload events.ClientUpdatedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		ids, err := h.reviews.ProviderIDsByClient(ctx, payload.ClientID)
		if err != nil {
			return fmt.Errorf("failed to find providers reviewed by client: %w", err)
		}
		providerIDs = ids
	default:
		return nil
	}

	log := logger.FromContextOrDefault(ctx, h.logger)
	for _, id := range providerIDs {
		key := ProviderDetailsKey(id)
		h.cache.Delete(ctx, key)
		log.Debug("provider details invalidated",
			slog.String("key", key),
			slog.String("event_type", event.Type))
	}
	return nil
}
