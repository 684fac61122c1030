package event

import (
	"context"
	"time"
)

// Handler processes events delivered by the bus.
type Handler interface {
	// Handle processes one envelope. Returning ErrStopPropagation stops
	// delivery of this event to the remaining lower-priority handlers;
	// any other error is logged and delivery continues.
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	return f(ctx, env)
}

// FilterFunc is a predicate applied before delivery. Return true to
// deliver the event to the subscription, false to skip it.
type FilterFunc func(env Envelope) bool

// Stats is a read-only snapshot of bus counters.
type Stats struct {
	// EventsProcessed is the number of events fully dispatched.
	EventsProcessed uint64

	// EventsDropped is the number of queued events discarded by the
	// overflow policy.
	EventsDropped uint64

	// HandlerErrors is the number of handler invocations that returned
	// an error (ErrStopPropagation is not counted).
	HandlerErrors uint64

	// HandlerPanics is the number of handler invocations that panicked.
	HandlerPanics uint64

	// AvgProcessingTime is an exponential moving average of per-event
	// dispatch time.
	AvgProcessingTime time.Duration

	// QueueDepth is the current number of queued, undelivered events.
	QueueDepth int

	// Subscriptions is the current number of active subscriptions.
	Subscriptions int
}
