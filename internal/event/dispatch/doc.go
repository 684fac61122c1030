// Package dispatch executes event handlers in isolation.
//
// The Executor wraps a single handler invocation with panic recovery and
// timing. A misbehaving handler surfaces as a Result with Error or Panicked
// set; it can never take down the caller or prevent other handlers from
// running. The event bus uses one executor for both immediate and queued
// delivery so failure semantics are identical on either path.
package dispatch
