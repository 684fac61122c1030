// Package history provides linear undo/redo over Command-pattern
// mutations, with batch grouping and save-point tracking.
//
// # Commands
//
// A Command knows how to execute, reverse, and describe itself. Domain
// packages provide concrete commands (see internal/timeline); NewFunc
// adapts a do/undo closure pair for one-off cases.
//
// # History model
//
// History is a linear slice of entries with a cursor. Execute appends at
// the cursor and discards anything after it, so redo is invalidated by
// any new edit. A batch (StartBatch/CommitBatch, or ExecuteBatch) is one
// entry and therefore one undo step; undoing it reverses its commands
// back to front.
//
// # Save points
//
// MarkSavePoint records the cursor as "saved"; HasUnsavedChanges is true
// whenever the cursor is elsewhere. Trimming the history cap re-maps
// save points so dirtiness stays correct, which is the reason history is
// cursor-indexed rather than a pair of stacks.
//
// # Failure semantics
//
// A command that is rejected, fails, or panics never reaches history and
// never poisons the manager; the error is returned and the manager stays
// usable. CancelBatch discards the buffer but does not roll back
// commands that already ran; it returns them so the caller can decide.
package history
