// Package event provides the editor's in-process publish/subscribe bus.
//
// Components that mutate the project (timeline edits, playback, project
// lifecycle) emit events; UI panels and other collaborators subscribe
// without holding references to the producers.
//
// # Subscribing
//
//	sub, _ := bus.SubscribeFunc("timeline.clip.*", func(ctx context.Context, env event.Envelope) error {
//	    // react to clip changes
//	    return nil
//	}, event.WithPriority(10))
//	defer bus.Unsubscribe(sub)
//
// Handlers for one event run in descending priority order; a handler may
// return ErrStopPropagation to stop the chain. A handler error or panic is
// isolated: it is logged and the remaining handlers still run.
//
// # Emitting
//
// Emit queues by default; the queue drains FIFO on a background goroutine
// in bounded time slices. WithImmediate dispatches synchronously in the
// caller's goroutine. EmitBatch enqueues several envelopes with no
// interleaving. When the queue is full the oldest tenth is shed with a
// warning - stale editor events are not worth blocking producers for.
package event
