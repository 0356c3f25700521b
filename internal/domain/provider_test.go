package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(
		"Dana", "Levi", "Dana@Example.com ", "0501234567", "$2a$10$hash",
		"", []ServiceType{"maison", ServiceOffice}, []string{"Tel Aviv"}, 80, nil,
	)
	require.NoError(t, err)
	return p
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p := validProvider(t)
	assert.Equal(t, "dana@example.com", p.Email)
	assert.Equal(t, DefaultLanguage, p.Language)
	assert.Equal(t, []ServiceType{ServiceHome, ServiceOffice}, p.ServiceTypes)
	assert.Equal(t, 80.0, p.HourlyRate)
	assert.Equal(t, RoleProvider, p.Role())
	assert.Same(t, &p.Account, p.Base())
	assert.NotNil(t, p.Availability)
	assert.NotNil(t, p.Certifications)

	t.Run("rejects empty service types", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider("A", "B", "a@b.co", "1", "h", "", nil, []string{"Haifa"}, 10, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects unknown service type", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider("A", "B", "a@b.co", "1", "h", "", []ServiceType{"garden"}, []string{"Haifa"}, 10, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "garden")
	})

	t.Run("rejects empty service areas", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider("A", "B", "a@b.co", "1", "h", "", []ServiceType{ServiceHome}, nil, 10, nil)
		require.Error(t, err)
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		t.Parallel()
		_, err := NewProvider("A", "B", "a@b.co", "1", "h", "de", []ServiceType{ServiceHome}, []string{"Haifa"}, 10, nil)
		require.Error(t, err)
	})
}

func TestComputeHourlyRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		details []ServiceDetail
		want    float64
		wantOK  bool
	}{
		{name: "no details", details: nil, want: 0, wantOK: false},
		{name: "single detail", details: []ServiceDetail{{Type: ServiceHome, HourlyRate: 55}}, want: 55, wantOK: true},
		{
			name: "mean of details",
			details: []ServiceDetail{
				{Type: ServiceHome, HourlyRate: 50},
				{Type: ServiceOffice, HourlyRate: 70},
			},
			want:   60,
			wantOK: true,
		},
		{
			name: "rounded to two decimals",
			details: []ServiceDetail{
				{Type: ServiceHome, HourlyRate: 10},
				{Type: ServiceOffice, HourlyRate: 10},
				{Type: ServiceBuilding, HourlyRate: 11},
			},
			want:   10.33,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ComputeHourlyRate(tt.details)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestProviderNormalizeRecomputesRate(t *testing.T) {
	t.Parallel()

	p := validProvider(t)
	p.ServiceDetails = []ServiceDetail{
		{Type: "bureau", HourlyRate: 100},
		{Type: ServiceHome, HourlyRate: 45.5},
	}
	p.HourlyRate = 1
	p.Normalize()

	assert.InDelta(t, 72.75, p.HourlyRate, 1e-9)
	assert.Equal(t, ServiceOffice, p.ServiceDetails[0].Type)

	// An emptied rate sheet leaves the last stored rate authoritative.
	p.ServiceDetails = nil
	p.Normalize()
	assert.InDelta(t, 72.75, p.HourlyRate, 1e-9)
	assert.NotNil(t, p.ServiceDetails)
}

func TestNormalizeServiceType(t *testing.T) {
	t.Parallel()

	cases := map[string]ServiceType{
		"home":     ServiceHome,
		"Maison":   ServiceHome,
		"bureau":   ServiceOffice,
		"office":   ServiceOffice,
		"immeuble": ServiceBuilding,
		"autre":    ServiceOther,
		"garden":   ServiceType("garden"),
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeServiceType(in), in)
	}
}

func TestAvailabilityValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		slot    Availability
		wantErr bool
	}{
		{name: "valid", slot: Availability{Day: 1, StartTime: "08:00", EndTime: "12:30"}},
		{name: "sunday", slot: Availability{Day: 0, StartTime: "00:00", EndTime: "23:59"}},
		{name: "day too large", slot: Availability{Day: 7, StartTime: "08:00", EndTime: "12:00"}, wantErr: true},
		{name: "negative day", slot: Availability{Day: -1, StartTime: "08:00", EndTime: "12:00"}, wantErr: true},
		{name: "bad start", slot: Availability{Day: 2, StartTime: "8am", EndTime: "12:00"}, wantErr: true},
		{name: "bad end", slot: Availability{Day: 2, StartTime: "08:00", EndTime: "25:00"}, wantErr: true},
		{name: "empty window", slot: Availability{Day: 2, StartTime: "12:00", EndTime: "12:00"}, wantErr: true},
		{name: "reversed window", slot: Availability{Day: 2, StartTime: "14:00", EndTime: "09:00"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.slot.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidAvailability))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProviderOffersServesAndPrice(t *testing.T) {
	t.Parallel()

	p := validProvider(t)
	p.ServiceDetails = []ServiceDetail{{Type: ServiceBuilding, HourlyRate: 120}}
	p.Normalize()

	assert.True(t, p.Offers(ServiceHome))
	assert.True(t, p.Offers(ServiceBuilding), "details count as offered services")
	assert.False(t, p.Offers(ServiceOther))

	assert.True(t, p.Serves("Tel Aviv"))
	assert.False(t, p.Serves("Haifa"))

	assert.InDelta(t, 360.0, p.PriceFor(ServiceBuilding, 3), 1e-9)
	assert.InDelta(t, 240.0, p.PriceFor(ServiceHome, 2), 1e-9, "falls back to hourly rate")
}
