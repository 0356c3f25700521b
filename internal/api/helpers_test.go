package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/cleanconnect-api/internal/api/middleware"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/mocks"
	"github.com/phrazzld/cleanconnect-api/internal/service"
	"github.com/stretchr/testify/require"
)

// testServer runs the handlers against real services over in-memory stores.
type testServer struct {
	clients   *mocks.MockClientStore
	providers *mocks.MockProviderStore
	jobs      *mocks.MockJobStore
	reviews   *mocks.MockReviewStore
	emitter   *mocks.RecordingEmitter
	router    chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clients := mocks.NewMockClientStore()
	reviews := mocks.NewMockReviewStore(clients)
	ts := &testServer{
		clients:   clients,
		providers: mocks.NewMockProviderStore(reviews),
		jobs:      mocks.NewMockJobStore(clients),
		reviews:   reviews,
		emitter:   &mocks.RecordingEmitter{},
	}

	tokens := &mocks.MockJWTService{}
	passwords := &mocks.MockPasswordVerifier{}

	identities, err := service.NewIdentityService(ts.clients, ts.providers, tokens, passwords, passwords, nil)
	require.NoError(t, err)
	catalog, err := service.NewCatalogService(ts.providers, ts.reviews, nil, nil)
	require.NoError(t, err)
	providerSvc, err := service.NewProviderService(ts.providers, ts.jobs, ts.reviews, ts.emitter, nil)
	require.NoError(t, err)
	jobSvc, err := service.NewJobService(ts.jobs, nil)
	require.NoError(t, err)
	reviewSvc, err := service.NewReviewService(ts.providers, ts.reviews, ts.emitter, nil)
	require.NoError(t, err)
	clientSvc, err := service.NewClientService(ts.clients, ts.emitter, nil)
	require.NoError(t, err)

	authHandler := NewAuthHandler(identities, nil)
	providerHandler := NewProviderHandler(providerSvc, catalog, nil)
	jobHandler := NewJobHandler(jobSvc, nil)
	catalogHandler := NewCatalogHandler(catalog, reviewSvc, nil)
	userHandler := NewUserHandler(clientSvc, nil)
	bookingHandler := NewBookingHandler()
	authMiddleware := middleware.NewAuthMiddleware(tokens, identities, nil)

	onlyClients := middleware.RequireRole(domain.RoleClient)
	onlyProviders := middleware.RequireRole(domain.RoleProvider)

	r := chi.NewRouter()
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
		r.Route("/bookings", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.With(onlyClients).Get("/search-providers", bookingHandler.SearchProviders)
			r.With(onlyClients).Post("/", bookingHandler.Create)
			r.With(onlyClients).Get("/client", bookingHandler.ListForClient)
			r.Get("/{id}", bookingHandler.Get)
			r.Put("/{id}/cancel", bookingHandler.Cancel)
			r.With(onlyClients).Post("/{id}/review", bookingHandler.Review)
		})
	})
	ts.router = r
	return ts
}

func (ts *testServer) addClient(t *testing.T, first, email string) *domain.Client {
	t.Helper()
	c, err := domain.NewClient(first, "Levi", email, "0501234567", mocks.HashFor("secret123"), "",
		[]domain.Address{{Street: "1 Herzl St", City: "Haifa", ZipCode: "31000", IsDefault: true}})
	require.NoError(t, err)
	ts.clients.Put(c)
	return c
}

func (ts *testServer) addProvider(t *testing.T, email string, types []domain.ServiceType, areas []string) *domain.Provider {
	t.Helper()
	p, err := domain.NewProvider("Dana", "Cohen", email, "0527654321", mocks.HashFor("secret123"), "",
		types, areas, 80, nil)
	require.NoError(t, err)
	ts.providers.Put(p)
	return p
}

func (ts *testServer) addJob(t *testing.T, client *domain.Client, provider *domain.Provider) *domain.JobRequest {
	t.Helper()
	job, err := domain.NewJobRequest(client.ID, provider.ID, domain.ServiceHome, domain.PropertyHouse,
		time.Now().Add(24*time.Hour), "1 Herzl St, Haifa", "")
	require.NoError(t, err)
	require.NoError(t, ts.jobs.Create(context.Background(), job))
	return job
}

// do sends a request as identity, which may be nil for anonymous calls.
// body is JSON-encoded unless it is already a string.
func (ts *testServer) do(t *testing.T, method, path string, identity domain.Identity, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if identity != nil {
		req.Header.Set("Authorization", "Bearer "+mocks.TokenFor(identity.Base().ID, identity.Role()))
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response body.
type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Count    *int            `json:"count"`
	Token    string          `json:"token"`
	User     json.RawMessage `json:"user"`
	Provider json.RawMessage `json:"provider"`
	Data     json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// decodeData decodes the data member of the response into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NotEmpty(t, env.Data, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// requireStatus fails with the response body when the status differs.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}
