package mocks

import (
	"context"

	"github.com/phrazzld/cleanconnect-api/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockEventEmitter is a testify mock of events.EventEmitter.
type MockEventEmitter struct {
	mock.Mock
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent records the call and returns the configured error.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// RecordingEmitter is an events.EventEmitter that keeps every emitted event.
type RecordingEmitter struct {
	Events []*events.DomainEvent
	Err    error
}

var _ events.EventEmitter = (*RecordingEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (r *RecordingEmitter) EmitEvent(ctx context.Context, event *events.DomainEvent) error {
	r.Events = append(r.Events, event)
	return r.Err
}

// Types returns the types of the recorded events in order.
func (r *RecordingEmitter) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
