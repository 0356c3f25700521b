package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/service"
)

// ProviderHandler serves the provider list and a provider's own profile.
type ProviderHandler struct {
	providers service.ProviderService
	catalog   service.CatalogService
	logger    *slog.Logger
}

// NewProviderHandler creates a ProviderHandler.
func NewProviderHandler(
	providers service.ProviderService,
	catalog service.CatalogService,
	logger *slog.Logger,
) *ProviderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderHandler{
		providers: providers,
		catalog:   catalog,
		logger:    logger.With(slog.String("component", "provider_handler")),
	}
}

// ListProviders handles GET /api/providers.
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.catalog.ListProviders(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve providers")
		return
	}
	shared.RespondList(w, r, "", providers, len(providers))
}

// GetProfile handles GET /api/providers/profile.
func (h *ProviderHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	provider, err := currentProvider(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	profile, err := h.providers.GetProfile(r.Context(), provider.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve provider profile")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "", profile)
}

// UpdateProfile handles PUT /api/providers/profile.
func (h *ProviderHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	provider, err := currentProvider(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req UpdateProviderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	updated, err := h.providers.UpdateProfile(r.Context(), provider.ID, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update provider profile")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Provider profile updated", updated)
}

// UpdateAvailability handles PUT /api/providers/availability.
func (h *ProviderHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	provider, err := currentProvider(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req UpdateAvailabilityRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	availability, err := h.providers.UpdateAvailability(r.Context(), provider.ID, toAvailability(req.Availability))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update availability")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Availability updated", availability)
}
