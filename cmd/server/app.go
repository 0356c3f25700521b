package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cleanconnect-api/internal/config"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/phrazzld/cleanconnect-api/internal/platform/postgres"
	"github.com/phrazzld/cleanconnect-api/internal/platform/redis"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// storeSet groups the persistence dependencies of the services.
type storeSet struct {
	clients   store.ClientStore
	providers store.ProviderStore
	jobs      store.JobStore
	reviews   store.ReviewStore
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	eventEmitter *events.InMemoryEventEmitter
	detailsCache service.DetailsCache

	identityService service.IdentityService
	catalogService  service.CatalogService
	providerService service.ProviderService
	jobService      service.JobService
	reviewService   service.ReviewService
	clientService   service.ClientService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	bcryptVerifier := auth.NewBcryptVerifier(cfg.Auth.BCryptCost)
	app.passwordHasher = bcryptVerifier
	app.passwordVerifier = bcryptVerifier

	if cfg.Redis.Enabled() {
		app.redis, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		app.detailsCache = redis.NewViewCache[service.ProviderDetails](app.redis.Client, cfg.Redis.CacheTTL, logger)
		logger.Info("provider detail cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	}

	stores := storeSet{
		clients:   postgres.NewPostgresClientStore(db, logger),
		providers: postgres.NewPostgresProviderStore(db, logger),
		jobs:      postgres.NewPostgresJobStore(db, logger),
		reviews:   postgres.NewPostgresReviewStore(db, logger),
	}
	if err := app.wireServices(stores); err != nil {
		if app.redis != nil {
			_ = app.redis.Close()
		}
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// wireServices builds the services on top of stores. The JWT service and
// password hashing must already be set; detailsCache may be nil.
func (app *application) wireServices(stores storeSet) error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	if app.detailsCache != nil {
		invalidator, err := service.NewCatalogCacheInvalidator(app.detailsCache, stores.reviews, app.logger)
		if err != nil {
			return fmt.Errorf("failed to create cache invalidator: %w", err)
		}
		app.eventEmitter.Subscribe(invalidator, events.ProviderUpdated, events.ReviewSubmitted, events.ClientUpdated)
	}

	var err error
	app.identityService, err = service.NewIdentityService(
		stores.clients,
		stores.providers,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity service: %w", err)
	}

	app.catalogService, err = service.NewCatalogService(stores.providers, stores.reviews, app.detailsCache, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}

	app.providerService, err = service.NewProviderService(
		stores.providers,
		stores.jobs,
		stores.reviews,
		app.eventEmitter,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create provider service: %w", err)
	}

	app.jobService, err = service.NewJobService(stores.jobs, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create job service: %w", err)
	}

	app.reviewService, err = service.NewReviewService(stores.providers, stores.reviews, app.eventEmitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create review service: %w", err)
	}

	app.clientService, err = service.NewClientService(stores.clients, app.eventEmitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create client service: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
