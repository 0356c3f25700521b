package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/cleanconnect-api/internal/api"
	apiMiddleware "github.com/phrazzld/cleanconnect-api/internal/api/middleware"
	"github.com/phrazzld/cleanconnect-api/internal/api/shared"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})

	authHandler := api.NewAuthHandler(app.identityService, app.logger)
	providerHandler := api.NewProviderHandler(app.providerService, app.catalogService, app.logger)
	jobHandler := api.NewJobHandler(app.jobService, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalogService, app.reviewService, app.logger)
	userHandler := api.NewUserHandler(app.clientService, app.logger)
	bookingHandler := api.NewBookingHandler()

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.identityService, app.logger)
	onlyClients := apiMiddleware.RequireRole(domain.RoleClient)
	onlyProviders := apiMiddleware.RequireRole(domain.RoleProvider)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register/client", authHandler.RegisterClient)
			r.Post("/register/provider", authHandler.RegisterProvider)
			r.Post("/login", authHandler.Login)
			r.With(authMiddleware.Authenticate).Get("/me", authHandler.Me)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", providerHandler.ListProviders)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate, onlyProviders)
				r.Get("/profile", providerHandler.GetProfile)
				r.Put("/profile", providerHandler.UpdateProfile)
				r.Put("/availability", providerHandler.UpdateAvailability)

				r.Get("/jobs", jobHandler.ListJobs)
				r.Get("/jobs/{id}", jobHandler.GetJob)
				r.Put("/jobs/{id}/accept", jobHandler.AcceptJob)
				r.Put("/jobs/{id}/decline", jobHandler.DeclineJob)
				r.Put("/jobs/{id}/complete", jobHandler.CompleteJob)
			})
		})

		r.Route("/public/providers", func(r chi.Router) {
			r.Get("/", catalogHandler.SearchProviders)
			r.Get("/{id}", catalogHandler.ProviderDetails)
			r.With(authMiddleware.Authenticate, onlyClients).Post("/{id}/reviews", catalogHandler.SubmitReview)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate, onlyClients)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/addresses", userHandler.AddAddress)
			r.Put("/addresses/{id}", userHandler.UpdateAddress)
			r.Delete("/addresses/{id}", userHandler.DeleteAddress)
		})

		// Placeholder booking routes. Static paths are registered alongside
		// /{id}; chi matches them first.
		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.With(onlyClients).Get("/search-providers", bookingHandler.SearchProviders)
			r.With(onlyClients).Get("/client", bookingHandler.ListForClient)
			r.With(onlyClients).Post("/", bookingHandler.Create)
			r.Get("/{id}", bookingHandler.Get)
			r.Put("/{id}/cancel", bookingHandler.Cancel)
			r.With(onlyClients).Post("/{id}/review", bookingHandler.Review)
		})
	})

	r.Get("/health", app.handleHealth)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte("CleanConnect API is running")); err != nil {
			app.logger.Error("Failed to write root response", "error", err)
		}
	})

	return r
}

// handleHealth reports 200 when the database answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
