package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// UnknownClientName stands in for a client record that no longer exists.
const UnknownClientName = "Unknown client"

// ProfileJob is the compact job entry of a provider's own profile.
type ProfileJob struct {
	ID          uuid.UUID          `json:"id"`
	Status      domain.JobStatus   `json:"status"`
	ServiceType domain.ServiceType `json:"serviceType"`
	Date        time.Time          `json:"date"`
	ClientName  string             `json:"clientName"`
}

// ProfileReview is the compact review entry of a provider's own profile.
type ProfileReview struct {
	ID         uuid.UUID `json:"id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
	ClientName string    `json:"clientName"`
}

// ProviderProfile is the provider's view of its own account.
type ProviderProfile struct {
	*domain.Provider
	Requests []ProfileJob    `json:"requests"`
	Reviews  []ProfileReview `json:"reviews"`
}

// ProviderPatch lists the profile fields a provider may change. Nil fields
// are left untouched.
type ProviderPatch struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Bio            *string
	ServiceTypes   *[]domain.ServiceType
	ServiceDetails *[]domain.ServiceDetail
	ServiceAreas   *[]string
	HourlyRate     *float64
	Availability   *[]domain.Availability
	Language       *domain.Language
	ProfileImage   *string
	Experience     *int
	Certifications *[]string
}

// Apply writes the set fields onto p.
func (patch ProviderPatch) Apply(p *domain.Provider) {
	if patch.FirstName != nil {
		p.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		p.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		p.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.ServiceTypes != nil {
		p.ServiceTypes = *patch.ServiceTypes
	}
	if patch.ServiceDetails != nil {
		p.ServiceDetails = *patch.ServiceDetails
	}
	if patch.ServiceAreas != nil {
		p.ServiceAreas = *patch.ServiceAreas
	}
	if patch.HourlyRate != nil {
		p.HourlyRate = *patch.HourlyRate
	}
	if patch.Availability != nil {
		p.Availability = *patch.Availability
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = *patch.ProfileImage
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.Certifications != nil {
		p.Certifications = *patch.Certifications
	}
}

// ProviderService holds the operations a provider runs on its own account.
type ProviderService interface {
	// GetProfile returns the provider with its jobs and reviews.
	GetProfile(ctx context.Context, providerID uuid.UUID) (*ProviderProfile, error)

	// UpdateProfile applies patch in a single locked read-modify-write.
	UpdateProfile(ctx context.Context, providerID uuid.UUID, patch ProviderPatch) (*domain.Provider, error)

	// UpdateAvailability replaces the weekly availability. A nil slice is a
	// validation error; an empty one clears it.
	UpdateAvailability(
		ctx context.Context,
		providerID uuid.UUID,
		availability []domain.Availability,
	) ([]domain.Availability, error)
}

type providerServiceImpl struct {
	providers store.ProviderStore
	jobs      store.JobStore
	reviews   store.ReviewStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewProviderService creates a ProviderService.
func NewProviderService(
	providers store.ProviderStore,
	jobs store.JobStore,
	reviews store.ReviewStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ProviderService, error) {
	switch {
	case providers == nil:
		return nil, dependencyError("provider", "providers")
	case jobs == nil:
		return nil, dependencyError("provider", "jobs")
	case reviews == nil:
		return nil, dependencyError("provider", "reviews")
	case emitter == nil:
		return nil, dependencyError("provider", "emitter")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &providerServiceImpl{
		providers: providers,
		jobs:      jobs,
		reviews:   reviews,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "provider_service")),
	}, nil
}

// GetProfile implements ProviderService.
func (s *providerServiceImpl) GetProfile(ctx context.Context, providerID uuid.UUID) (*ProviderProfile, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("provider", "get_profile", "failed to load provider", err)
	}
	jobs, err := s.jobs.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("provider", "get_profile", "failed to load jobs", err)
	}
	reviews, err := s.reviews.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, NewServiceError("provider", "get_profile", "failed to load reviews", err)
	}

	profile := &ProviderProfile{
		Provider: provider,
		Requests: make([]ProfileJob, 0, len(jobs)),
		Reviews:  make([]ProfileReview, 0, len(reviews)),
	}
	for _, j := range jobs {
		name := UnknownClientName
		if j.Client != nil {
			name = strings.TrimSpace(j.Client.FirstName + " " + j.Client.LastName)
		}
		profile.Requests = append(profile.Requests, ProfileJob{
			ID:          j.ID,
			Status:      j.Status,
			ServiceType: j.ServiceType,
			Date:        j.ScheduledDate,
			ClientName:  name,
		})
	}
	for _, r := range reviews {
		name := r.Reviewer.Name
		if name == "" {
			name = UnknownClientName
		}
		profile.Reviews = append(profile.Reviews, ProfileReview{
			ID:         r.ID,
			Rating:     r.Rating,
			Comment:    r.Comment,
			Date:       r.CreatedAt,
			ClientName: name,
		})
	}
	return profile, nil
}

// UpdateProfile implements ProviderService.
func (s *providerServiceImpl) UpdateProfile(
	ctx context.Context,
	providerID uuid.UUID,
	patch ProviderPatch,
) (*domain.Provider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	updated, err := s.providers.Update(ctx, providerID, func(p *domain.Provider) error {
		patch.Apply(p)
		return nil
	})
	if err != nil {
		return nil, NewServiceError("provider", "update_profile", "failed to update provider", err)
	}

	log.Info("provider profile updated", slog.String("provider_id", providerID.String()))
	emitLogged(ctx, log, s.emitter, events.ProviderUpdated, events.ProviderUpdatedPayload{ProviderID: providerID})
	return updated, nil
}

// UpdateAvailability implements ProviderService.
func (s *providerServiceImpl) UpdateAvailability(
	ctx context.Context,
	providerID uuid.UUID,
	availability []domain.Availability,
) ([]domain.Availability, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if availability == nil {
		return nil, domain.NewValidationError("availability", "is required", domain.ErrInvalidAvailability)
	}
	for _, slot := range availability {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}

	updated, err := s.providers.Update(ctx, providerID, func(p *domain.Provider) error {
		p.Availability = availability
		return nil
	})
	if err != nil {
		return nil, NewServiceError("provider", "update_availability", "failed to update availability", err)
	}

	log.Info("provider availability updated",
		slog.String("provider_id", providerID.String()),
		slog.Int("slots", len(updated.Availability)))
	emitLogged(ctx, log, s.emitter, events.ProviderUpdated, events.ProviderUpdatedPayload{ProviderID: providerID})
	return updated.Availability, nil
}
