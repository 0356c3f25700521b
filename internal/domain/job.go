package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the flat lifecycle status of a job request.
//
// Transitions are not checked: a provider may move any of its jobs to
// accepted, declined or completed from any prior status.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobAccepted  JobStatus = "accepted"
	JobDeclined  JobStatus = "declined"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobAccepted, JobDeclined, JobCompleted, JobCancelled:
		return true
	}
	return false
}

// PropertyType describes the premises to be cleaned.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyOffice    PropertyType = "office"
)

// Valid reports whether p is a known property type.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyHouse, PropertyApartment, PropertyOffice:
		return true
	}
	return false
}

// DefaultDeclineReason is recorded when a provider declines without a reason.
const DefaultDeclineReason = "Not specified"

// JobRequest is a scheduled service engagement between a client and a
// provider.
type JobRequest struct {
	ID              uuid.UUID    `json:"id"`
	ClientID        uuid.UUID    `json:"clientId"`
	ProviderID      uuid.UUID    `json:"providerId"`
	ServiceType     ServiceType  `json:"serviceType"`
	PropertyType    PropertyType `json:"propertyType"`
	Status          JobStatus    `json:"status"`
	ScheduledDate   time.Time    `json:"scheduledDate"`
	Address         string       `json:"address"`
	Description     string       `json:"description"`
	Price           *float64     `json:"price,omitempty"`
	DeclineReason   string       `json:"declineReason,omitempty"`
	CompletionNotes string       `json:"completionNotes,omitempty"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// NewJobRequest creates a pending job request with a fresh ID.
func NewJobRequest(
	clientID, providerID uuid.UUID,
	serviceType ServiceType,
	propertyType PropertyType,
	scheduledDate time.Time,
	address, description string,
) (*JobRequest, error) {
	job := &JobRequest{
		ID:            uuid.New(),
		ClientID:      clientID,
		ProviderID:    providerID,
		ServiceType:   serviceType,
		PropertyType:  propertyType,
		Status:        JobPending,
		ScheduledDate: scheduledDate.UTC(),
		Address:       address,
		Description:   description,
		CreatedAt:     time.Now().UTC(),
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate checks the job request fields.
func (j *JobRequest) Validate() error {
	if j.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if j.ClientID == uuid.Nil {
		return NewValidationError("client", "is required", ErrInvalidID)
	}
	if j.ProviderID == uuid.Nil {
		return NewValidationError("provider", "is required", ErrInvalidID)
	}
	switch j.ServiceType {
	case ServiceHome, ServiceOffice, ServiceBuilding:
	default:
		return NewValidationError("serviceType", "must be one of home, office, building", nil)
	}
	if !j.PropertyType.Valid() {
		return NewValidationError("propertyType", "must be one of house, apartment, office", nil)
	}
	if !j.Status.Valid() {
		return NewValidationError("status", "is not a known status", nil)
	}
	if j.ScheduledDate.IsZero() {
		return NewValidationError("scheduledDate", "is required", nil)
	}
	if j.Address == "" {
		return NewValidationError("address", "is required", nil)
	}
	return nil
}

// JobTransition is an unconditional status update applied by a provider to
// one of its jobs.
type JobTransition struct {
	Status          JobStatus
	DeclineReason   *string
	CompletionNotes *string
	CompletedAt     *time.Time
}

// AcceptTransition marks a job accepted.
func AcceptTransition() JobTransition {
	return JobTransition{Status: JobAccepted}
}

// DeclineTransition marks a job declined, recording reason or the default.
func DeclineTransition(reason string) JobTransition {
	if reason == "" {
		reason = DefaultDeclineReason
	}
	return JobTransition{Status: JobDeclined, DeclineReason: &reason}
}

// CompleteTransition marks a job completed at the given time.
func CompleteTransition(notes string, at time.Time) JobTransition {
	at = at.UTC()
	return JobTransition{Status: JobCompleted, CompletionNotes: &notes, CompletedAt: &at}
}

// Apply writes the transition onto j.
func (t JobTransition) Apply(j *JobRequest) {
	j.Status = t.Status
	if t.DeclineReason != nil {
		j.DeclineReason = *t.DeclineReason
	}
	if t.CompletionNotes != nil {
		j.CompletionNotes = *t.CompletionNotes
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		j.CompletedAt = &at
	}
}

// ClientContact is the client projection embedded in provider job views.
type ClientContact struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses,omitempty"`
}

// JobWithClient is a job request together with its client's contact details.
// Client is nil when the client record no longer exists.
type JobWithClient struct {
	JobRequest
	Client *ClientContact `json:"client"`
}
