package history

import (
	"context"
	"fmt"
	"time"
)

// Command is a reversible domain mutation.
//
// Execute and Undo may perform async work internally; the Manager holds
// its lock across the call, so two commands never run concurrently
// against the same history.
type Command interface {
	// Execute performs the mutation.
	Execute(ctx context.Context) error

	// Undo reverses a previously executed mutation.
	Undo(ctx context.Context) error

	// CanExecute reports whether the command is currently executable.
	// A false return rejects the command before it runs.
	CanExecute() bool

	// CanUndo reports whether the command can currently be reversed.
	CanUndo() bool

	// Type is a stable machine-readable command kind (e.g. "clip.split").
	Type() string

	// Description is a human-readable label for history UIs.
	Description() string
}

// Entry is one step in the undo history: a single command or an ordered
// batch that undoes and redoes as one unit.
type Entry struct {
	// Commands holds one command, or several for a batch.
	Commands []Command

	// Batch distinguishes a grouped entry from a single command.
	Batch bool

	// Description labels the entry.
	Description string

	// Timestamp is when the entry was committed to history.
	Timestamp time.Time
}

// EntryInfo is a read-only view of a history entry.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
	Batch       bool

	// Size is the number of commands in the entry.
	Size int
}

func newEntry(cmd Command) *Entry {
	return &Entry{
		Commands:    []Command{cmd},
		Description: cmd.Description(),
		Timestamp:   time.Now(),
	}
}

func newBatchEntry(description string, cmds []Command) *Entry {
	if description == "" {
		description = fmt.Sprintf("%d operations", len(cmds))
	}
	return &Entry{
		Commands:    cmds,
		Batch:       true,
		Description: description,
		Timestamp:   time.Now(),
	}
}

// NewFunc creates a closure-backed command.
func NewFunc(kind, label string, do, undo func(ctx context.Context) error) *FuncCommand {
	return &FuncCommand{
		kind:  kind,
		label: label,
		do:    do,
		undo:  undo,
	}
}

// FuncCommand adapts do/undo closures to the Command interface.
type FuncCommand struct {
	kind  string
	label string
	do    func(ctx context.Context) error
	undo  func(ctx context.Context) error
}

// Execute runs the do closure.
func (c *FuncCommand) Execute(ctx context.Context) error {
	if c.do == nil {
		return ErrNilCommand
	}
	return c.do(ctx)
}

// Undo runs the undo closure.
func (c *FuncCommand) Undo(ctx context.Context) error {
	if c.undo == nil {
		return ErrNilCommand
	}
	return c.undo(ctx)
}

// CanExecute reports whether a do closure is present.
func (c *FuncCommand) CanExecute() bool { return c.do != nil }

// CanUndo reports whether an undo closure is present.
func (c *FuncCommand) CanUndo() bool { return c.undo != nil }

// Type returns the command kind.
func (c *FuncCommand) Type() string { return c.kind }

// Description returns the command label.
func (c *FuncCommand) Description() string { return c.label }
