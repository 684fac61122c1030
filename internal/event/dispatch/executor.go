package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Handler is the minimal handler contract the executor runs.
// It mirrors event.Handler to avoid a circular import.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Result is the outcome of a single handler execution.
type Result struct {
	// Success is true if the handler completed without error or panic.
	Success bool

	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace captured at the point of panic.
	PanicStack []byte

	// Duration is how long the handler ran.
	Duration time.Duration

	// Skipped is true if the handler was not executed (context cancelled).
	Skipped bool
}

// IsSuccess reports whether the handler completed cleanly.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// PanicHandler is called when a handler panics during execution.
type PanicHandler func(event any, panicValue any, stack []byte)

// Executor runs event handlers with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the callback invoked when a handler panics.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: func(any, any, []byte) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one handler against one event and returns the outcome.
// Panics are recovered and reported via the Result and the panic handler;
// they never escape to the caller.
func (e *Executor) Execute(ctx context.Context, event any, handler Handler) (result Result) {
	select {
	case <-ctx.Done():
		return Result{Error: ctx.Err(), Skipped: true}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// The panic handler must not be able to crash the executor.
			func() {
				defer func() { _ = recover() }()
				e.panicHandler(event, r, stack)
			}()
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		result.Error = err
		return result
	}

	result.Success = true
	return result
}
