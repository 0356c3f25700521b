package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// PlaceholderBookingID is the id returned for every created booking.
const PlaceholderBookingID = "temp-booking-id"

// BookingHandler answers the booking routes with fixed placeholder payloads.
// Nothing here reads or writes job requests.
type BookingHandler struct{}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler() *BookingHandler {
	return &BookingHandler{}
}

// SearchProviders handles GET /api/bookings/search-providers.
func (h *BookingHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, "Available providers listed", []BookingView{})
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusCreated, "Booking created",
		BookingView{ID: PlaceholderBookingID, Status: domain.JobPending})
}

// Get handles GET /api/bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, "Booking details retrieved",
		BookingView{ID: chi.URLParam(r, "id"), Status: domain.JobPending})
}

// ListForClient handles GET /api/bookings/client.
func (h *BookingHandler) ListForClient(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, "Client bookings retrieved", []BookingView{})
}

// Cancel handles PUT /api/bookings/{id}/cancel.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusOK, "Booking cancelled", nil)
}

// Review handles POST /api/bookings/{id}/review.
func (h *BookingHandler) Review(w http.ResponseWriter, r *http.Request) {
	shared.RespondSuccess(w, r, http.StatusCreated, "Review added", nil)
}
