package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// UserHandler serves a client's own profile and addresses.
type UserHandler struct {
	clients service.ClientService
	logger  *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(clients service.ClientService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		clients: clients,
		logger:  logger.With(slog.String("component", "user_handler")),
	}
}

// GetProfile handles GET /api/users/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	profile, err := h.clients.GetProfile(r.Context(), client.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve profile")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "User profile retrieved", profile)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req UpdateClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	updated, err := h.clients.UpdateProfile(r.Context(), client.ID, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "User profile updated", updated)
}

// AddAddress handles POST /api/users/addresses.
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req AddressRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	addr, err := h.clients.AddAddress(r.Context(), client.ID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add address")
		return
	}
	shared.RespondSuccess(w, r, http.StatusCreated, "Address added", addr)
}

// UpdateAddress handles PUT /api/users/addresses/{id}.
func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	addressID, err := getPathUUID(r, "id", store.ErrAddressNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req AddressRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	addr, err := h.clients.UpdateAddress(r.Context(), client.ID, addressID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update address")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Address updated", addr)
}

// DeleteAddress handles DELETE /api/users/addresses/{id}.
func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	addressID, err := getPathUUID(r, "id", store.ErrAddressNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.clients.DeleteAddress(r.Context(), client.ID, addressID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete address")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Address deleted", nil)
}
