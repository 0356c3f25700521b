package domain

import (
	"math"
	"strings"
	"time"
)

// ServiceType is a category of cleaning work a provider offers.
type ServiceType string

const (
	ServiceHome     ServiceType = "home"
	ServiceBuilding ServiceType = "building"
	ServiceOffice   ServiceType = "office"
	ServiceOther    ServiceType = "other"
)

// serviceVocabulary maps every accepted spelling of a service type,
// including the legacy French catalog terms, to its canonical value.
var serviceVocabulary = map[string]ServiceType{
	"home":     ServiceHome,
	"maison":   ServiceHome,
	"office":   ServiceOffice,
	"bureau":   ServiceOffice,
	"building": ServiceBuilding,
	"immeuble": ServiceBuilding,
	"other":    ServiceOther,
	"autre":    ServiceOther,
}

// NormalizeServiceType translates s through the fixed service vocabulary.
// Unknown values are returned unchanged.
func NormalizeServiceType(s string) ServiceType {
	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := serviceVocabulary[key]; ok {
		return st
	}
	return ServiceType(s)
}

// Valid reports whether t is a canonical service type.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHome, ServiceBuilding, ServiceOffice, ServiceOther:
		return true
	}
	return false
}

// ServiceDetail is a per-service rate sheet entry.
type ServiceDetail struct {
	Type        ServiceType `json:"type"`
	HourlyRate  float64     `json:"hourlyRate"`
	Description string      `json:"description"`
}

// Availability is a weekly time window. Day 0 is Sunday.
type Availability struct {
	Day       int    `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Validate checks the day range, the HH:MM format, and that the window is
// not empty.
func (a Availability) Validate() error {
	if a.Day < 0 || a.Day > 6 {
		return NewValidationError("day", "must be between 0 and 6", ErrInvalidAvailability)
	}
	start, err := time.Parse("15:04", a.StartTime)
	if err != nil {
		return NewValidationError("startTime", "must use HH:MM", ErrInvalidAvailability)
	}
	end, err := time.Parse("15:04", a.EndTime)
	if err != nil {
		return NewValidationError("endTime", "must use HH:MM", ErrInvalidAvailability)
	}
	if !start.Before(end) {
		return NewValidationError("endTime", "must be after startTime", ErrInvalidAvailability)
	}
	return nil
}

// LegacyReview is an entry of the review list embedded in old provider
// records. The review store never reads or writes it.
type LegacyReview struct {
	UserID string    `json:"user,omitempty"`
	Text   string    `json:"text"`
	Rating float64   `json:"rating"`
	Date   time.Time `json:"date"`
}

// Provider is the identity of someone who performs services.
type Provider struct {
	Account
	ServiceTypes   []ServiceType   `json:"serviceTypes"`
	ServiceDetails []ServiceDetail `json:"serviceDetails"`
	ServiceAreas   []string        `json:"serviceAreas"`
	HourlyRate     float64         `json:"hourlyRate"`
	Availability   []Availability  `json:"availability"`
	Rating         float64         `json:"rating"`
	LegacyReviews  []LegacyReview  `json:"legacyReviews,omitempty"`
	ProfileImage   string          `json:"profileImage"`
	Bio            string          `json:"bio"`
	Experience     int             `json:"experience"`
	Certifications []string        `json:"certifications"`
	LastActive     time.Time       `json:"lastActive"`
}

var _ Identity = (*Provider)(nil)

// NewProvider creates a Provider with a fresh ID. The hourly rate is derived
// from details when any are given. Returns a validation error if any field
// is invalid.
func NewProvider(
	firstName, lastName, email, phone, passwordHash string,
	lang Language,
	serviceTypes []ServiceType,
	serviceAreas []string,
	hourlyRate float64,
	details []ServiceDetail,
) (*Provider, error) {
	acct := newAccount(firstName, lastName, email, phone, passwordHash, lang)
	p := &Provider{
		Account:        acct,
		ServiceTypes:   serviceTypes,
		ServiceDetails: details,
		ServiceAreas:   serviceAreas,
		HourlyRate:     hourlyRate,
		LastActive:     acct.CreatedAt,
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Base implements Identity.
func (p *Provider) Base() *Account { return &p.Account }

// Role implements Identity.
func (p *Provider) Role() Role { return RoleProvider }

// ComputeHourlyRate returns the mean of the detail rates rounded to two
// decimals. ok is false when details is empty, in which case the stored
// rate stays authoritative.
func ComputeHourlyRate(details []ServiceDetail) (rate float64, ok bool) {
	if len(details) == 0 {
		return 0, false
	}
	var total float64
	for _, d := range details {
		total += d.HourlyRate
	}
	return math.Round(total/float64(len(details))*100) / 100, true
}

// Normalize canonicalizes service types and recomputes the derived hourly
// rate. Stores call it on every write.
func (p *Provider) Normalize() {
	for i, t := range p.ServiceTypes {
		p.ServiceTypes[i] = NormalizeServiceType(string(t))
	}
	for i, d := range p.ServiceDetails {
		p.ServiceDetails[i].Type = NormalizeServiceType(string(d.Type))
	}
	if rate, ok := ComputeHourlyRate(p.ServiceDetails); ok {
		p.HourlyRate = rate
	}
	if p.ServiceTypes == nil {
		p.ServiceTypes = []ServiceType{}
	}
	if p.ServiceDetails == nil {
		p.ServiceDetails = []ServiceDetail{}
	}
	if p.ServiceAreas == nil {
		p.ServiceAreas = []string{}
	}
	if p.Availability == nil {
		p.Availability = []Availability{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
}

// Validate checks the account plus the provider-specific fields.
func (p *Provider) Validate() error {
	if err := p.Account.Validate(); err != nil {
		return err
	}
	if len(p.ServiceTypes) == 0 {
		return NewValidationError("serviceTypes", "must not be empty", nil)
	}
	for _, t := range p.ServiceTypes {
		if !t.Valid() {
			return NewValidationError("serviceTypes", "contains unknown type "+string(t), nil)
		}
	}
	for _, d := range p.ServiceDetails {
		if !d.Type.Valid() {
			return NewValidationError("serviceDetails", "contains unknown type "+string(d.Type), nil)
		}
		if d.HourlyRate < 0 {
			return NewValidationError("serviceDetails", "hourly rate cannot be negative", nil)
		}
	}
	if len(p.ServiceAreas) == 0 {
		return NewValidationError("serviceAreas", "must not be empty", nil)
	}
	if p.HourlyRate < 0 {
		return NewValidationError("hourlyRate", "cannot be negative", nil)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return NewValidationError("rating", "must be between 0 and 5", nil)
	}
	if p.Experience < 0 {
		return NewValidationError("experience", "cannot be negative", nil)
	}
	for _, a := range p.Availability {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Offers reports whether the provider lists t in its service types or in
// its service details.
func (p *Provider) Offers(t ServiceType) bool {
	for _, st := range p.ServiceTypes {
		if st == t {
			return true
		}
	}
	for _, d := range p.ServiceDetails {
		if d.Type == t {
			return true
		}
	}
	return false
}

// Serves reports whether area is one of the provider's service areas.
func (p *Provider) Serves(area string) bool {
	for _, a := range p.ServiceAreas {
		if a == area {
			return true
		}
	}
	return false
}

// PriceFor quotes hours of work of type t, using the matching detail rate
// and falling back to the provider's hourly rate.
func (p *Provider) PriceFor(t ServiceType, hours float64) float64 {
	for _, d := range p.ServiceDetails {
		if d.Type == t {
			return d.HourlyRate * hours
		}
	}
	return p.HourlyRate * hours
}
