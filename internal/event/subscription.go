package event

import (
	"sync/atomic"

	"github.com/dshills/cutroom/internal/event/topic"
)

// Subscription is a handle to an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Pattern returns the subscribed topic pattern.
	Pattern() topic.Topic

	// IsActive reports whether the subscription can still receive events.
	IsActive() bool

	// Cancel permanently deactivates the subscription. The bus drops
	// cancelled subscriptions on the next delivery touching them;
	// Unsubscribe removes them immediately.
	Cancel()
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	priority int
	once     bool
	filter   FilterFunc
}

// WithPriority sets the subscription priority. Higher values run first.
// Subscriptions with equal priority run in subscribe order. The default
// priority is 0.
func WithPriority(p int) SubscribeOption {
	return func(c *subscribeConfig) {
		c.priority = p
	}
}

// WithOnce auto-cancels the subscription after its first delivery,
// even when the handler returns an error or panics.
func WithOnce() SubscribeOption {
	return func(c *subscribeConfig) {
		c.once = true
	}
}

// WithFilter delivers events to the subscription only when the predicate
// returns true. The filter runs before the handler; the handler never
// sees filtered-out events.
func WithFilter(f FilterFunc) SubscribeOption {
	return func(c *subscribeConfig) {
		c.filter = f
	}
}

// subscription is the internal Subscription implementation.
type subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  subscribeConfig

	// seq is the global subscribe order, used to keep delivery stable
	// among equal priorities.
	seq uint64

	cancelled atomic.Bool
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Pattern() topic.Topic {
	return s.pattern
}

func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

func (s *subscription) Cancel() {
	s.cancelled.Store(true)
}

// deliverable reports whether the envelope should reach this
// subscription's handler.
func (s *subscription) deliverable(env Envelope) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.filter != nil && !s.config.filter(env) {
		return false
	}
	return true
}
