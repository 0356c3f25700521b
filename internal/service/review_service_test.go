package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	provider := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	client := f.addClient(t, "Noa", "noa@example.com")

	svc, err := service.NewReviewService(f.providers, f.reviews, f.emitter, nil)
	require.NoError(t, err)

	first, created, err := svc.SubmitReview(ctx, provider.ID, client.ID, 4, "good")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, first.Rating)

	second, created, err := svc.SubmitReview(ctx, provider.ID, client.ID, 2, "changed my mind")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Rating)
	assert.Equal(t, "changed my mind", second.Comment)
	assert.Equal(t, 1, f.reviews.Count())

	require.Equal(t, []string{events.ReviewSubmitted, events.ReviewSubmitted}, f.emitter.Types())
	var payload events.ReviewSubmittedPayload
	require.NoError(t, f.emitter.Events[1].UnmarshalPayload(&payload))
	assert.Equal(t, provider.ID, payload.ProviderID)
	assert.Equal(t, client.ID, payload.ClientID)
	assert.False(t, payload.Created)
}

func TestReviewService_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	provider := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	client := f.addClient(t, "Noa", "noa@example.com")

	svc, err := service.NewReviewService(f.providers, f.reviews, f.emitter, nil)
	require.NoError(t, err)

	t.Run("unknown provider is reported before the rating", func(t *testing.T) {
		_, _, err := svc.SubmitReview(ctx, uuid.New(), client.ID, 9, "")
		assert.ErrorIs(t, err, store.ErrProviderNotFound)
	})

	t.Run("rating out of range", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			_, _, err := svc.SubmitReview(ctx, provider.ID, client.ID, rating, "")
			assert.ErrorIs(t, err, domain.ErrInvalidRating)
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		f.reviews.UpsertFn = func(ctx context.Context, review *domain.Review) (bool, error) {
			return false, errors.New("connection reset")
		}
		defer func() { f.reviews.UpsertFn = nil }()

		_, _, err := svc.SubmitReview(ctx, provider.ID, client.ID, 5, "")
		var svcErr *service.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "submit_review", svcErr.Operation)
	})

	assert.Zero(t, f.reviews.Count())
	assert.Empty(t, f.emitter.Events)
}

func TestReviewService_HandlerFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	provider := f.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	client := f.addClient(t, "Noa", "noa@example.com")
	f.emitter.Err = errors.New("cache unavailable")

	svc, err := service.NewReviewService(f.providers, f.reviews, f.emitter, nil)
	require.NoError(t, err)

	_, created, err := svc.SubmitReview(context.Background(), provider.ID, client.ID, 5, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, f.emitter.Events, 1)
}
