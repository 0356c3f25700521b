package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/service"
)

// AuthHandler handles registration, login and the current-identity endpoint.
type AuthHandler struct {
	identities service.IdentityService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(identities service.IdentityService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		identities: identities,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// RegisterClient handles POST /api/auth/register/client.
func (h *AuthHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req RegisterClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.identities.RegisterClient(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register client")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("client registered",
		slog.String("user_id", result.Identity.Base().ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, shared.Envelope{
		Success: true,
		Token:   result.Token,
		User:    newAccountView(result.Identity),
	})
}

// RegisterProvider handles POST /api/auth/register/provider.
func (h *AuthHandler) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	var req RegisterProviderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.identities.RegisterProvider(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register provider")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("provider registered",
		slog.String("user_id", result.Identity.Base().ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, shared.Envelope{
		Success:  true,
		Token:    result.Token,
		Provider: newAccountView(result.Identity),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeOptional(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	result, err := h.identities.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to log in")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Token:   result.Token,
		User:    newAccountView(result.Identity),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := currentIdentity(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondSuccess(w, r, http.StatusOK, "", identityView(identity))
}
