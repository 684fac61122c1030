package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dshills/cutroom/internal/event/topic"
)

func newTestBus(t *testing.T, opts ...BusOption) *Bus {
	t.Helper()
	opts = append([]BusOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	bus := NewBus(opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Close(ctx)
	})
	return bus
}

func TestBus_SubscribeValidation(t *testing.T) {
	bus := newTestBus(t)

	if _, err := bus.Subscribe("timeline.clip.added", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: err = %v, want ErrNilHandler", err)
	}
	if _, err := bus.SubscribeFunc("", func(ctx context.Context, env Envelope) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}
}

func TestBus_PriorityOrder(t *testing.T) {
	bus := newTestBus(t)

	var mu sync.Mutex
	var order []int

	record := func(n int) HandlerFunc {
		return func(ctx context.Context, env Envelope) error {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil
		}
	}

	// Subscribed out of order; must deliver in descending priority.
	if _, err := bus.SubscribeFunc("timeline.clip.added", record(2), WithPriority(5)); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := bus.SubscribeFunc("timeline.clip.added", record(1), WithPriority(10)); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := bus.SubscribeFunc("timeline.clip.added", record(4), WithPriority(-1)); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := bus.SubscribeFunc("timeline.clip.added", record(3), WithPriority(0)); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Emit(context.Background(), "timeline.clip.added", nil, WithImmediate()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := []int{1, 2, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBus_EqualPriorityStable(t *testing.T) {
	bus := newTestBus(t)

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		if _, err := bus.SubscribeFunc("playback.started", func(ctx context.Context, env Envelope) error {
			order = append(order, name)
			return nil
		}); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	if err := bus.Emit(context.Background(), "playback.started", nil, WithImmediate()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}

func TestBus_HandlerFaultIsolation(t *testing.T) {
	bus := newTestBus(t)

	var ran []string
	bus.SubscribeFunc("project.saved", func(ctx context.Context, env Envelope) error {
		ran = append(ran, "error")
		return errors.New("broken handler")
	}, WithPriority(3))
	bus.SubscribeFunc("project.saved", func(ctx context.Context, env Envelope) error {
		ran = append(ran, "panic")
		panic("broken harder")
	}, WithPriority(2))
	bus.SubscribeFunc("project.saved", func(ctx context.Context, env Envelope) error {
		ran = append(ran, "ok")
		return nil
	}, WithPriority(1))

	if err := bus.Emit(context.Background(), "project.saved", nil, WithImmediate()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if len(ran) != 3 || ran[2] != "ok" {
		t.Fatalf("ran = %v, want all three with ok last", ran)
	}

	stats := bus.Stats()
	if stats.HandlerErrors != 1 {
		t.Errorf("HandlerErrors = %d, want 1", stats.HandlerErrors)
	}
	if stats.HandlerPanics != 1 {
		t.Errorf("HandlerPanics = %d, want 1", stats.HandlerPanics)
	}

	// Registry must still work afterwards.
	ran = nil
	if err := bus.Emit(context.Background(), "project.saved", nil, WithImmediate()); err != nil {
		t.Fatalf("Emit after faults: %v", err)
	}
	if len(ran) != 3 {
		t.Errorf("second emit ran %d handlers, want 3", len(ran))
	}
}

func TestBus_StopPropagation(t *testing.T) {
	bus := newTestBus(t)

	var ran []string
	bus.SubscribeFunc("timeline.playhead.moved", func(ctx context.Context, env Envelope) error {
		ran = append(ran, "first")
		return ErrStopPropagation
	}, WithPriority(10))
	bus.SubscribeFunc("timeline.playhead.moved", func(ctx context.Context, env Envelope) error {
		ran = append(ran, "second")
		return nil
	})

	if err := bus.Emit(context.Background(), "timeline.playhead.moved", nil, WithImmediate()); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if len(ran) != 1 || ran[0] != "first" {
		t.Errorf("ran = %v, want only first", ran)
	}
	if stats := bus.Stats(); stats.HandlerErrors != 0 {
		t.Errorf("stop propagation counted as handler error: %d", stats.HandlerErrors)
	}
}

func TestBus_NoPropagate(t *testing.T) {
	bus := newTestBus(t)

	called := false
	bus.SubscribeFunc("timeline.clip.added", func(ctx context.Context, env Envelope) error {
		called = true
		return nil
	})

	if err := bus.Emit(context.Background(), "timeline.clip.added", nil, WithImmediate(), WithNoPropagate()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if called {
		t.Error("handler ran for a non-propagating event")
	}
}

func TestBus_Once(t *testing.T) {
	bus := newTestBus(t)

	count := 0
	bus.SubscribeFunc("export.finished", func(ctx context.Context, env Envelope) error {
		count++
		return nil
	}, WithOnce())

	for i := 0; i < 3; i++ {
		if err := bus.Emit(context.Background(), "export.finished", nil, WithImmediate()); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	if count != 1 {
		t.Errorf("once handler ran %d times, want 1", count)
	}
	if stats := bus.Stats(); stats.Subscriptions != 0 {
		t.Errorf("Subscriptions = %d, want 0 after once fired", stats.Subscriptions)
	}
}

func TestBus_OnceRemovedOnPanic(t *testing.T) {
	bus := newTestBus(t)

	count := 0
	bus.SubscribeFunc("export.finished", func(ctx context.Context, env Envelope) error {
		count++
		panic("first delivery blows up")
	}, WithOnce())

	for i := 0; i < 2; i++ {
		if err := bus.Emit(context.Background(), "export.finished", nil, WithImmediate()); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	if count != 1 {
		t.Errorf("once handler ran %d times, want 1 even after panic", count)
	}
}

func TestBus_Filter(t *testing.T) {
	bus := newTestBus(t)

	var got []string
	bus.SubscribeFunc("timeline.clip.added", func(ctx context.Context, env Envelope) error {
		got = append(got, env.Source)
		return nil
	}, WithFilter(func(env Envelope) bool {
		return env.Source == "inspector"
	}))

	bus.Emit(context.Background(), "timeline.clip.added", nil, WithImmediate(), WithSource("canvas"))
	bus.Emit(context.Background(), "timeline.clip.added", nil, WithImmediate(), WithSource("inspector"))

	if len(got) != 1 || got[0] != "inspector" {
		t.Errorf("filtered deliveries = %v, want [inspector]", got)
	}
}

func TestBus_WildcardSubscription(t *testing.T) {
	bus := newTestBus(t)

	var topics []topic.Topic
	bus.SubscribeFunc("timeline.**", func(ctx context.Context, env Envelope) error {
		topics = append(topics, env.Type)
		return nil
	})

	bus.Emit(context.Background(), "timeline.clip.added", nil, WithImmediate())
	bus.Emit(context.Background(), "timeline.playhead.moved", nil, WithImmediate())
	bus.Emit(context.Background(), "playback.started", nil, WithImmediate())

	if len(topics) != 2 {
		t.Errorf("wildcard received %v, want 2 timeline topics", topics)
	}
}

func TestBus_QueuedFIFO(t *testing.T) {
	bus := newTestBus(t)

	var mu sync.Mutex
	var order []int
	bus.SubscribeFunc("timeline.clip.added", func(ctx context.Context, env Envelope) error {
		mu.Lock()
		order = append(order, env.Payload.(int))
		mu.Unlock()
		return nil
	})

	const n = 5
	for i := 0; i < n; i++ {
		if err := bus.Emit(context.Background(), "timeline.clip.added", i); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	// The single drain goroutine delivers queued events in arrival order.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		got := len(order)
		mu.Unlock()
		if got == n {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("delivered %d of %d queued events", got, n)
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		if order[i] != i {
			t.Fatalf("out of order delivery: %v", order)
		}
	}
}

func TestBus_EmitBatchAtomic(t *testing.T) {
	bus := newTestBus(t, WithQueueCapacity(100))

	envs := []Envelope{
		NewEnvelope("timeline.clip.added", 1),
		NewEnvelope("timeline.clip.added", 2),
		NewEnvelope("timeline.clip.added", 3),
	}
	if err := bus.EmitBatch(envs); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}

	if depth := bus.Stats().QueueDepth; depth != 3 && depth != 0 {
		// The drain goroutine may already have run; both are legal.
		t.Errorf("QueueDepth = %d, want 0 or 3", depth)
	}
}

func TestBus_QueueOverflowShedsOldest(t *testing.T) {
	// No subscribers, so nothing drains the semantic content; use a tiny
	// slice budget irrelevant here. Capacity 10 means overflow drops at
	// least 1 (10% of 10).
	bus := newTestBus(t, WithQueueCapacity(10))

	for i := 0; i < 100; i++ {
		if err := bus.Emit(context.Background(), "perf.test", i); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	stats := bus.Stats()
	if stats.QueueDepth > 10 {
		t.Errorf("QueueDepth = %d, exceeds capacity 10", stats.QueueDepth)
	}
	if stats.EventsDropped == 0 && stats.EventsProcessed < 90 {
		t.Errorf("expected drops or processing; stats = %+v", stats)
	}
}

func TestBus_EmitBatchLargerThanCapacity(t *testing.T) {
	bus := newTestBus(t, WithQueueCapacity(10))

	envs := make([]Envelope, 30)
	for i := range envs {
		envs[i] = NewEnvelope("perf.test", i)
	}
	if err := bus.EmitBatch(envs); err != nil {
		t.Fatalf("EmitBatch: %v", err)
	}

	// Capacity is enforced on the merged queue, so an oversized batch
	// sheds its own oldest envelopes at enqueue time, before the drain
	// goroutine sees any of them.
	stats := bus.Stats()
	if stats.QueueDepth > 10 {
		t.Errorf("QueueDepth = %d, exceeds capacity 10", stats.QueueDepth)
	}
	if stats.EventsDropped != 20 {
		t.Errorf("EventsDropped = %d, want 20", stats.EventsDropped)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newTestBus(t)

	count := 0
	sub, err := bus.SubscribeFunc("project.saved", func(ctx context.Context, env Envelope) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe err = %v, want ErrSubscriptionNotFound", err)
	}
	if err := bus.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("nil Unsubscribe err = %v, want ErrInvalidSubscription", err)
	}

	bus.Emit(context.Background(), "project.saved", nil, WithImmediate())
	if count != 0 {
		t.Errorf("handler ran after unsubscribe")
	}
}

func TestBus_Clear(t *testing.T) {
	bus := newTestBus(t)

	bus.SubscribeFunc("a.b", func(ctx context.Context, env Envelope) error { return nil })
	bus.Emit(context.Background(), "a.b", nil)

	bus.Clear()

	stats := bus.Stats()
	if stats.Subscriptions != 0 {
		t.Errorf("Subscriptions = %d after Clear", stats.Subscriptions)
	}
	if stats.QueueDepth != 0 {
		t.Errorf("QueueDepth = %d after Clear", stats.QueueDepth)
	}
	if stats.EventsProcessed != 0 {
		t.Errorf("EventsProcessed = %d after Clear", stats.EventsProcessed)
	}
}

func TestBus_CloseRejectsEmit(t *testing.T) {
	bus := NewBus(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := bus.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(ctx); !errors.Is(err, ErrBusClosed) {
		t.Errorf("second Close err = %v, want ErrBusClosed", err)
	}

	if err := bus.Emit(context.Background(), "a.b", nil); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Emit after Close err = %v, want ErrBusClosed", err)
	}
}

func TestBus_StatsEMA(t *testing.T) {
	bus := newTestBus(t)

	bus.SubscribeFunc("a.b", func(ctx context.Context, env Envelope) error {
		time.Sleep(time.Millisecond)
		return nil
	})

	for i := 0; i < 3; i++ {
		bus.Emit(context.Background(), "a.b", nil, WithImmediate())
	}

	stats := bus.Stats()
	if stats.EventsProcessed != 3 {
		t.Errorf("EventsProcessed = %d, want 3", stats.EventsProcessed)
	}
	if stats.AvgProcessingTime <= 0 {
		t.Errorf("AvgProcessingTime = %v, want > 0", stats.AvgProcessingTime)
	}
}
