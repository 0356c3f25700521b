package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// ClientPatch lists the profile fields a client may change. Nil fields are
// left untouched.
type ClientPatch struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Language     *domain.Language
	ProfileImage *string
}

// Apply writes the set fields onto c.
func (patch ClientPatch) Apply(c *domain.Client) {
	if patch.FirstName != nil {
		c.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		c.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Phone != nil {
		c.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Language != nil {
		c.Language = *patch.Language
	}
	if patch.ProfileImage != nil {
		c.ProfileImage = *patch.ProfileImage
	}
}

// touchesReviewerView reports whether the patch changes what reviews show
// about their author.
func (patch ClientPatch) touchesReviewerView() bool {
	return patch.FirstName != nil || patch.LastName != nil || patch.ProfileImage != nil
}

// ClientService holds the operations a client runs on its own account.
type ClientService interface {
	GetProfile(ctx context.Context, clientID uuid.UUID) (*domain.Client, error)

	// UpdateProfile applies patch. A changed name or picture emits
	// ClientUpdated so views embedding the client as a reviewer are dropped.
	UpdateProfile(ctx context.Context, clientID uuid.UUID, patch ClientPatch) (*domain.Client, error)

	// AddAddress appends an address; a default address clears the flag on
	// the others.
	AddAddress(ctx context.Context, clientID uuid.UUID, addr domain.Address) (*domain.Address, error)

	// UpdateAddress replaces the address with the given ID.
	UpdateAddress(ctx context.Context, clientID, addressID uuid.UUID, addr domain.Address) (*domain.Address, error)

	// DeleteAddress removes the address with the given ID.
	DeleteAddress(ctx context.Context, clientID, addressID uuid.UUID) error
}

type clientServiceImpl struct {
	clients store.ClientStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewClientService creates a ClientService.
func NewClientService(
	clients store.ClientStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ClientService, error) {
	switch {
	case clients == nil:
		return nil, dependencyError("client", "clients")
	case emitter == nil:
		return nil, dependencyError("client", "emitter")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &clientServiceImpl{
		clients: clients,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "client_service")),
	}, nil
}

// GetProfile implements ClientService.
func (s *clientServiceImpl) GetProfile(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, NewServiceError("client", "get_profile", "failed to load client", err)
	}
	return client, nil
}

// UpdateProfile implements ClientService.
func (s *clientServiceImpl) UpdateProfile(
	ctx context.Context,
	clientID uuid.UUID,
	patch ClientPatch,
) (*domain.Client, error) {
	updated, err := s.clients.Update(ctx, clientID, func(c *domain.Client) error {
		patch.Apply(c)
		return nil
	})
	if err != nil {
		return nil, NewServiceError("client", "update_profile", "failed to update client", err)
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("client profile updated", slog.String("client_id", clientID.String()))

	if patch.touchesReviewerView() {
		emitLogged(ctx, log, s.emitter, events.ClientUpdated, events.ClientUpdatedPayload{ClientID: clientID})
	}
	return updated, nil
}

// AddAddress implements ClientService.
func (s *clientServiceImpl) AddAddress(
	ctx context.Context,
	clientID uuid.UUID,
	addr domain.Address,
) (*domain.Address, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	addr.ID = uuid.Nil

	var added domain.Address
	_, err := s.clients.Update(ctx, clientID, func(c *domain.Client) error {
		added = c.AddAddress(addr)
		return nil
	})
	if err != nil {
		return nil, NewServiceError("client", "add_address", "failed to add address", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("client address added",
		slog.String("client_id", clientID.String()),
		slog.String("address_id", added.ID.String()))
	return &added, nil
}

// UpdateAddress implements ClientService.
func (s *clientServiceImpl) UpdateAddress(
	ctx context.Context,
	clientID, addressID uuid.UUID,
	addr domain.Address,
) (*domain.Address, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	var replaced domain.Address
	_, err := s.clients.Update(ctx, clientID, func(c *domain.Client) error {
		var ok bool
		if replaced, ok = c.ReplaceAddress(addressID, addr); !ok {
			return store.ErrAddressNotFound
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("client", "update_address", "failed to update address", err)
	}
	return &replaced, nil
}

// DeleteAddress implements ClientService.
func (s *clientServiceImpl) DeleteAddress(ctx context.Context, clientID, addressID uuid.UUID) error {
	_, err := s.clients.Update(ctx, clientID, func(c *domain.Client) error {
		if !c.RemoveAddress(addressID) {
			return store.ErrAddressNotFound
		}
		return nil
	})
	if err != nil {
		return NewServiceError("client", "delete_address", "failed to delete address", err)
	}
	return nil
}
