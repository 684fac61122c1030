package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrStopPropagation, returned from a handler, stops delivery of the
	// current event to the remaining handlers. It is a control signal,
	// not a failure, and is never counted as a handler error.
	ErrStopPropagation = errors.New("stop event propagation")

	// ErrBusClosed is returned when emitting on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidSubscription is returned when unsubscribing nil.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing a
	// subscription the bus does not hold.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
