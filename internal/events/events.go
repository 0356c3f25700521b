package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the services.
const (
	// ProviderUpdated follows any write to a provider profile.
	ProviderUpdated = "provider.updated"
	// ReviewSubmitted follows a review insert or update.
	ReviewSubmitted = "review.submitted"
	// ClientUpdated follows a change to a client's name or picture.
	ClientUpdated = "client.updated"
)

// DomainEvent records that something happened to an entity. Handlers run
// synchronously inside the request that emitted it.
type DomainEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the event type constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// ProviderUpdatedPayload is the payload of ProviderUpdated.
type ProviderUpdatedPayload struct {
	ProviderID uuid.UUID `json:"provider_id"`
}

// ClientUpdatedPayload is the payload of ClientUpdated.
type ClientUpdatedPayload struct {
	ClientID uuid.UUID `json:"client_id"`
}

// ReviewSubmittedPayload is the payload of ReviewSubmitted.
type ReviewSubmittedPayload struct {
	ReviewID   uuid.UUID `json:"review_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	ClientID   uuid.UUID `json:"client_id"`
	Rating     int       `json:"rating"`
	Created    bool      `json:"created"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *DomainEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewDomainEvent creates a new DomainEvent with the specified type and payload.
func NewDomainEvent(eventType string, payload interface{}) (*DomainEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &DomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *DomainEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *DomainEvent) error
}

// Emit builds an event and publishes it in one step.
func Emit(ctx context.Context, emitter EventEmitter, eventType string, payload interface{}) error {
	event, err := NewDomainEvent(eventType, payload)
	if err != nil {
		return err
	}
	return emitter.EmitEvent(ctx, event)
}
