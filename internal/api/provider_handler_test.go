package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProviders(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	low := ts.addProvider(t, "low@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	high := ts.addProvider(t, "high@example.com", []domain.ServiceType{domain.ServiceOffice}, []string{"Tel Aviv", "Haifa"})
	_, err := ts.providers.Update(context.Background(), high.ID, func(p *domain.Provider) error {
		p.Rating = 4.8
		return nil
	})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/providers", nil, nil)
	requireStatus(t, rec, http.StatusOK)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	var providers []struct {
		ID            uuid.UUID `json:"id"`
		ServiceCities []string  `json:"serviceCities"`
	}
	decodeData(t, rec, &providers)
	require.Len(t, providers, 2)
	assert.Equal(t, high.ID, providers[0].ID)
	assert.Equal(t, []string{"Tel Aviv", "Haifa"}, providers[0].ServiceCities)
	assert.Equal(t, low.ID, providers[1].ID)
	assert.NotContains(t, rec.Body.String(), "hashed:")
}

func TestProviderRoutes_RequireProviderRole(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	client := ts.addClient(t, "Noa", "noa@example.com")

	for _, path := range []string{"/api/providers/profile", "/api/providers/jobs"} {
		rec := ts.do(t, http.MethodGet, path, client, nil)
		requireStatus(t, rec, http.StatusForbidden)
		assert.Equal(t, "Role client is not authorized to access this route", decodeEnvelope(t, rec).Message)

		rec = ts.do(t, http.MethodGet, path, nil, nil)
		requireStatus(t, rec, http.StatusUnauthorized)
	}
}

func TestGetProviderProfile(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	client := ts.addClient(t, "Noa", "noa@example.com")
	provider := ts.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})
	job := ts.addJob(t, client, provider)

	rec := ts.do(t, http.MethodGet, "/api/providers/profile", provider, nil)
	requireStatus(t, rec, http.StatusOK)

	var profile struct {
		ID       uuid.UUID `json:"id"`
		Requests []struct {
			ID         uuid.UUID `json:"id"`
			ClientName string    `json:"clientName"`
		} `json:"requests"`
		Reviews []any `json:"reviews"`
	}
	decodeData(t, rec, &profile)
	assert.Equal(t, provider.ID, profile.ID)
	require.Len(t, profile.Requests, 1)
	assert.Equal(t, job.ID, profile.Requests[0].ID)
	assert.Equal(t, "Noa Levi", profile.Requests[0].ClientName)
	assert.Empty(t, profile.Reviews)
}

func TestUpdateProviderProfile(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	provider := ts.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})

	rec := ts.do(t, http.MethodPut, "/api/providers/profile", provider, map[string]any{
		"bio":          "Ten years of spotless homes",
		"serviceTypes": []string{"maison", "bureau"},
		"serviceAreas": []string{"Haifa", "Akko"},
		"serviceDetails": []map[string]any{
			{"type": "maison", "hourlyRate": 50},
			{"type": "office", "hourlyRate": 70},
		},
	})
	requireStatus(t, rec, http.StatusOK)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Provider profile updated", env.Message)

	var updated struct {
		Bio          string               `json:"bio"`
		ServiceTypes []domain.ServiceType `json:"serviceTypes"`
		ServiceAreas []string             `json:"serviceAreas"`
		HourlyRate   float64              `json:"hourlyRate"`
	}
	decodeData(t, rec, &updated)
	assert.Equal(t, "Ten years of spotless homes", updated.Bio)
	assert.Equal(t, []domain.ServiceType{domain.ServiceHome, domain.ServiceOffice}, updated.ServiceTypes)
	assert.Equal(t, []string{"Haifa", "Akko"}, updated.ServiceAreas)
	assert.InDelta(t, 60.0, updated.HourlyRate, 0.001)
	assert.Equal(t, []string{events.ProviderUpdated}, ts.emitter.Types())
}

func TestUpdateProviderProfile_Invalid(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	provider := ts.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})

	rec := ts.do(t, http.MethodPut, "/api/providers/profile", provider, map[string]any{"language": "de"})

	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Invalid language: invalid value", decodeEnvelope(t, rec).Message)
	assert.Empty(t, ts.emitter.Events)
}

func TestUpdateAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantMessage string
		wantSlots   int
	}{
		{
			name: "valid week",
			body: map[string]any{"availability": []map[string]any{
				{"day": 0, "startTime": "08:00", "endTime": "12:00"},
				{"day": 3, "startTime": "13:00", "endTime": "17:30"},
			}},
			wantStatus:  http.StatusOK,
			wantMessage: "Availability updated",
			wantSlots:   2,
		},
		{
			name:        "empty list clears",
			body:        map[string]any{"availability": []map[string]any{}},
			wantStatus:  http.StatusOK,
			wantMessage: "Availability updated",
		},
		{
			name:        "missing list",
			body:        map[string]any{},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "availability is required",
		},
		{
			name: "end before start",
			body: map[string]any{"availability": []map[string]any{
				{"day": 1, "startTime": "12:00", "endTime": "09:00"},
			}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "endTime must be after startTime",
		},
		{
			name: "day out of range",
			body: map[string]any{"availability": []map[string]any{
				{"day": 7, "startTime": "08:00", "endTime": "09:00"},
			}},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid day: out of range",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			provider := ts.addProvider(t, "dana@example.com", []domain.ServiceType{domain.ServiceHome}, []string{"Haifa"})

			rec := ts.do(t, http.MethodPut, "/api/providers/availability", provider, tc.body)
			requireStatus(t, rec, tc.wantStatus)

			env := decodeEnvelope(t, rec)
			assert.Equal(t, tc.wantMessage, env.Message)
			if tc.wantStatus != http.StatusOK {
				assert.Zero(t, ts.providers.UpdateCalls)
				return
			}
			var slots []domain.Availability
			decodeData(t, rec, &slots)
			assert.Len(t, slots, tc.wantSlots)
		})
	}
}
