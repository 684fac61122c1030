package history

import "errors"

// Sentinel errors for history operations.
var (
	// ErrNothingToUndo is returned by Undo at the start of history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo at the end of history.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNilCommand is returned when a nil or incomplete command is
	// submitted.
	ErrNilCommand = errors.New("command is nil")

	// ErrCannotExecute is returned when a command's CanExecute is false.
	// The command is not run and not recorded.
	ErrCannotExecute = errors.New("command cannot execute")

	// ErrCannotUndo is returned when a history entry refuses to reverse.
	ErrCannotUndo = errors.New("command cannot undo")

	// ErrCommandPanic wraps a panic recovered from a command's Execute
	// or Undo. The manager stays usable after it.
	ErrCommandPanic = errors.New("command panicked")

	// ErrBatchActive is returned by StartBatch while a batch is already
	// being recorded.
	ErrBatchActive = errors.New("batch recording already active")

	// ErrNoBatch is returned by CommitBatch or CancelBatch when no batch
	// is being recorded.
	ErrNoBatch = errors.New("no batch recording active")
)
