package api

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// CatalogHandler serves the public provider catalog and review submission.
type CatalogHandler struct {
	catalog service.CatalogService
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(
	catalog service.CatalogService,
	reviews service.ReviewService,
	logger *slog.Logger,
) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		catalog: catalog,
		reviews: reviews,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// SearchProviders handles GET /api/public/providers.
func (h *CatalogHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	results, err := h.catalog.SearchProviders(r.Context(), q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search providers")
		return
	}
	shared.RespondList(w, r, "", results, len(results))
}

// ProviderDetails handles GET /api/public/providers/{id}.
func (h *CatalogHandler) ProviderDetails(w http.ResponseWriter, r *http.Request) {
	providerID, err := getPathUUID(r, "id", store.ErrProviderNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	details, err := h.catalog.ProviderDetails(r.Context(), providerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve provider")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "", details)
}

// SubmitReview handles POST /api/public/providers/{id}/reviews.
func (h *CatalogHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	client, err := currentClient(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	providerID, err := getPathUUID(r, "id", store.ErrProviderNotFound)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req ReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	review, created, err := h.reviews.SubmitReview(r.Context(), providerID, client.ID, req.Rating, req.Comment)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("review stored",
		slog.String("review_id", review.ID.String()),
		slog.Bool("created", created))
	if created {
		shared.RespondSuccess(w, r, http.StatusCreated, "Review added", review)
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "Review updated", review)
}

// parseSearchQuery reads the optional catalog filters. A minRating that is
// not a finite number is a validation error.
func parseSearchQuery(r *http.Request) (service.SearchQuery, error) {
	values := r.URL.Query()
	q := service.SearchQuery{
		ServiceType: strings.TrimSpace(values.Get("serviceType")),
		ServiceArea: strings.TrimSpace(values.Get("serviceArea")),
	}
	if raw := strings.TrimSpace(values.Get("minRating")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return q, domain.NewValidationError("minRating", "must be a number", nil)
		}
		q.MinRating = &v
	}
	return q, nil
}
