package event

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cutroom/internal/event/dispatch"
	"github.com/dshills/cutroom/internal/event/topic"
)

// emaAlpha is the smoothing factor for the rolling average of per-event
// processing time.
const emaAlpha = 0.1

// Bus is an in-process publish/subscribe event bus.
//
// Delivery for a single event is strictly descending-priority and stable
// among equal priorities. Queued events are delivered in FIFO order by a
// single drain goroutine that yields after each time slice so a flood of
// events cannot monopolize the scheduler. A full queue sheds its oldest
// tenth rather than rejecting new events.
//
// A Bus must be created with NewBus. There is no package-level instance;
// the composition root owns the bus and hands it to collaborators.
type Bus struct {
	reg  *registry
	exec *dispatch.Executor
	log  *slog.Logger

	capacity    int
	sliceBudget time.Duration

	mu     sync.Mutex
	queue  []Envelope
	closed bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	subSeq atomic.Uint64

	processed     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64

	emaMu sync.Mutex
	emaNs float64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithQueueCapacity sets the maximum number of queued events. When the
// queue is full the oldest 10% are dropped. The default is 1000.
func WithQueueCapacity(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithSliceBudget sets how long the drain goroutine processes queued
// events before yielding. The default is 16ms, one display frame.
func WithSliceBudget(d time.Duration) BusOption {
	return func(b *Bus) {
		if d > 0 {
			b.sliceBudget = d
		}
	}
}

// WithLogger sets the logger used for overflow warnings and handler
// faults.
func WithLogger(log *slog.Logger) BusOption {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBus creates a bus and starts its drain goroutine.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		reg:         newRegistry(),
		log:         slog.Default(),
		capacity:    1000,
		sliceBudget: 16 * time.Millisecond,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.exec = dispatch.NewExecutor(dispatch.WithPanicHandler(func(ev any, panicValue any, _ []byte) {
		env, _ := ev.(Envelope)
		b.log.Warn("event handler panicked",
			"topic", env.Type.String(),
			"panic", panicValue)
	}))

	b.wg.Add(1)
	go b.drainLoop()
	return b
}

// Subscribe registers a handler for every event whose type matches the
// given pattern. Higher-priority subscriptions run first; equal
// priorities run in subscribe order.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscribeOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := &subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		seq:     b.subSeq.Add(1),
	}
	for _, opt := range opts {
		opt(&sub.config)
	}

	b.reg.add(sub)
	return sub, nil
}

// SubscribeFunc subscribes a plain function.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscribeOption) (Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription from the bus.
func (b *Bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.reg.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// EmitOption configures a single emission.
type EmitOption func(*emitConfig)

type emitConfig struct {
	source    string
	immediate bool
	propagate bool
}

// WithSource tags the emitted event with its origin component.
func WithSource(source string) EmitOption {
	return func(c *emitConfig) {
		c.source = source
	}
}

// WithImmediate dispatches the event synchronously in the caller's
// goroutine instead of queuing it.
func WithImmediate() EmitOption {
	return func(c *emitConfig) {
		c.immediate = true
	}
}

// WithNoPropagate creates the event with propagation disabled, so no
// handler receives it. Useful for recording-only event streams.
func WithNoPropagate() EmitOption {
	return func(c *emitConfig) {
		c.propagate = false
	}
}

// Emit publishes an event. By default the event is queued and delivered
// asynchronously in FIFO order.
func (b *Bus) Emit(ctx context.Context, t topic.Topic, payload any, opts ...EmitOption) error {
	if !t.IsValid() {
		return ErrInvalidTopic
	}

	cfg := emitConfig{propagate: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	env := NewEnvelope(t, payload)
	env.Source = cfg.source
	env.Propagate = cfg.propagate

	if cfg.immediate {
		b.deliver(ctx, env)
		return nil
	}
	return b.enqueue(env)
}

// EmitBatch queues several envelopes as one atomic unit: no unrelated
// Emit can interleave between them in the queue.
func (b *Bus) EmitBatch(envs []Envelope) error {
	if len(envs) == 0 {
		return nil
	}
	for _, env := range envs {
		if !env.Type.IsValid() {
			return ErrInvalidTopic
		}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.queue = append(b.queue, envs...)
	b.shedLocked()
	b.mu.Unlock()

	b.signal()
	return nil
}

// enqueue appends one envelope, applying the overflow policy.
func (b *Bus) enqueue(env Envelope) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.queue = append(b.queue, env)
	b.shedLocked()
	b.mu.Unlock()

	b.signal()
	return nil
}

// shedLocked enforces the queue capacity after an append. When the queue
// exceeds capacity it drops the oldest 10%, or however many more it takes
// to get back under the cap when a single batch overshoots further, and
// logs a warning. Deliberately lossy: stale editor events are worthless.
func (b *Bus) shedLocked() {
	if len(b.queue) <= b.capacity {
		return
	}

	drop := len(b.queue) - b.capacity
	if tenth := b.capacity / 10; drop < tenth {
		drop = tenth
	}

	b.queue = append(b.queue[:0], b.queue[drop:]...)
	b.dropped.Add(uint64(drop))
	b.log.Warn("event queue overflow, dropping oldest events",
		"dropped", drop,
		"capacity", b.capacity)
}

// signal wakes the drain goroutine without blocking.
func (b *Bus) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// drainLoop is the single consumer of the event queue. One consumer
// keeps delivery in strict FIFO arrival order.
func (b *Bus) drainLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case <-b.wake:
			b.drain()
		}
	}
}

// drain delivers queued events in bounded time slices, yielding between
// slices so long queues do not starve the host.
func (b *Bus) drain() {
	for {
		start := time.Now()
		for {
			env, ok := b.dequeue()
			if !ok {
				return
			}
			b.deliver(context.Background(), env)
			if time.Since(start) >= b.sliceBudget {
				break
			}
		}
		runtime.Gosched()
	}
}

func (b *Bus) dequeue() (Envelope, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return Envelope{}, false
	}
	env := b.queue[0]
	b.queue = b.queue[1:]
	return env, true
}

// envelopeHandler adapts an event.Handler to the dispatch executor.
type envelopeHandler struct {
	h Handler
}

func (a envelopeHandler) Handle(ctx context.Context, ev any) error {
	env, _ := ev.(Envelope)
	return a.h.Handle(ctx, env)
}

// deliver dispatches one envelope to every matching subscription in
// priority order. Handler errors and panics are isolated: they are
// counted and logged, and delivery continues with the next handler.
// ErrStopPropagation stops delivery early without being counted.
func (b *Bus) deliver(ctx context.Context, env Envelope) {
	start := time.Now()
	defer func() {
		b.processed.Add(1)
		b.observe(time.Since(start))
	}()

	if !env.Propagate {
		return
	}

	for _, sub := range b.reg.match(env.Type) {
		if !sub.deliverable(env) {
			continue
		}

		result := b.exec.Execute(ctx, env, envelopeHandler{sub.handler})

		// One-shot subscriptions go away after their first delivery,
		// successful or not.
		if sub.config.once {
			sub.Cancel()
			b.reg.remove(sub.id)
		}

		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
		case errors.Is(result.Error, ErrStopPropagation):
			return
		case result.Error != nil:
			b.handlerErrors.Add(1)
			b.log.Warn("event handler failed",
				"topic", env.Type.String(),
				"subscription", sub.id,
				"error", result.Error)
		}
	}
}

func (b *Bus) observe(d time.Duration) {
	b.emaMu.Lock()
	defer b.emaMu.Unlock()

	if b.emaNs == 0 {
		b.emaNs = float64(d.Nanoseconds())
		return
	}
	b.emaNs = (1-emaAlpha)*b.emaNs + emaAlpha*float64(d.Nanoseconds())
}

// Stats returns a snapshot of bus counters.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	depth := len(b.queue)
	b.mu.Unlock()

	b.emaMu.Lock()
	ema := time.Duration(b.emaNs)
	b.emaMu.Unlock()

	return Stats{
		EventsProcessed:   b.processed.Load(),
		EventsDropped:     b.dropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		AvgProcessingTime: ema,
		QueueDepth:        depth,
		Subscriptions:     b.reg.count(),
	}
}

// Clear removes all subscriptions and queued events and resets counters.
// Intended for teardown and test isolation; the bus stays usable.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.queue = nil
	b.mu.Unlock()

	b.reg.clear()

	b.processed.Store(0)
	b.dropped.Store(0)
	b.handlerErrors.Store(0)
	b.handlerPanics.Store(0)

	b.emaMu.Lock()
	b.emaNs = 0
	b.emaMu.Unlock()
}

// Close stops the drain goroutine. Queued events that have not been
// delivered are discarded. Close waits for the in-flight slice to finish
// or for ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)

	finished := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush synchronously delivers everything currently queued. It is meant
// for tests and for orderly shutdown points where the caller needs all
// pending events observed before proceeding.
func (b *Bus) Flush(ctx context.Context) {
	for {
		env, ok := b.dequeue()
		if !ok {
			return
		}
		b.deliver(ctx, env)
	}
}
