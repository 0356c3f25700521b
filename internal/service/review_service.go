package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// ReviewService records client reviews of providers.
type ReviewService interface {
	// SubmitReview stores the client's review of the provider, replacing any
	// earlier one. created reports whether a new review was inserted.
	SubmitReview(
		ctx context.Context,
		providerID, clientID uuid.UUID,
		rating int,
		comment string,
	) (review *domain.Review, created bool, err error)
}

type reviewServiceImpl struct {
	providers store.ProviderStore
	reviews   store.ReviewStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	providers store.ProviderStore,
	reviews store.ReviewStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ReviewService, error) {
	switch {
	case providers == nil:
		return nil, dependencyError("review", "providers")
	case reviews == nil:
		return nil, dependencyError("review", "reviews")
	case emitter == nil:
		return nil, dependencyError("review", "emitter")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewServiceImpl{
		providers: providers,
		reviews:   reviews,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "review_service")),
	}, nil
}

// SubmitReview implements ReviewService. The provider must exist before the
// rating is checked.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	providerID, clientID uuid.UUID,
	rating int,
	comment string,
) (*domain.Review, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.providers.GetByID(ctx, providerID); err != nil {
		return nil, false, NewServiceError("review", "submit_review", "failed to load provider", err)
	}

	review, err := domain.NewReview(providerID, clientID, rating, comment)
	if err != nil {
		return nil, false, err
	}
	created, err := s.reviews.Upsert(ctx, review)
	if err != nil {
		return nil, false, NewServiceError("review", "submit_review", "failed to store review", err)
	}

	log.Info("review submitted",
		slog.String("review_id", review.ID.String()),
		slog.String("provider_id", providerID.String()),
		slog.Bool("created", created))

	emitLogged(ctx, log, s.emitter, events.ReviewSubmitted, events.ReviewSubmittedPayload{
		ReviewID:   review.ID,
		ProviderID: providerID,
		ClientID:   clientID,
		Rating:     review.Rating,
		Created:    created,
	})
	return review, created, nil
}

// emitLogged publishes an event after a committed write. Handler failures
// are logged; the write already happened and the request still succeeds.
func emitLogged(ctx context.Context, log *slog.Logger, emitter events.EventEmitter, eventType string, payload any) {
	if err := events.Emit(ctx, emitter, eventType, payload); err != nil {
		log.Warn("event handler failed",
			slog.String("event_type", eventType),
			slog.Any("error", err))
	}
}
