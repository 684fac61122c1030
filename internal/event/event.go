package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cutroom/internal/event/topic"
)

// Envelope is a single event as it travels through the bus.
// Envelopes are ephemeral: they exist only for the duration of dispatch
// and are never persisted.
type Envelope struct {
	// Type is the hierarchical event type (e.g. "timeline.clip.added").
	Type topic.Topic

	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the envelope was created.
	Timestamp time.Time

	// Source identifies the component that emitted the event.
	Source string

	// Payload carries the event-specific data.
	Payload any

	// Propagate controls delivery. An envelope created with Propagate
	// false is delivered to no handlers at all.
	Propagate bool
}

// NewEnvelope creates an envelope for the given type and payload with
// propagation enabled.
func NewEnvelope(t topic.Topic, payload any) Envelope {
	return Envelope{
		Type:      t,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Payload:   payload,
		Propagate: true,
	}
}

// WithSource returns a copy of the envelope with the source set.
func (e Envelope) WithSource(source string) Envelope {
	e.Source = source
	return e
}
