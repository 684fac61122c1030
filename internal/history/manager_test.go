package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

// counterCommand increments a shared counter on execute and decrements
// on undo, so tests can observe net effect.
type counterCommand struct {
	counter *int
	delta   int

	failExecute bool
	failUndo    bool
	panicOn     string
	refuseExec  bool
	refuseUndo  bool
}

func (c *counterCommand) Execute(ctx context.Context) error {
	if c.panicOn == "execute" {
		panic("execute exploded")
	}
	if c.failExecute {
		return errors.New("execute failed")
	}
	*c.counter += c.delta
	return nil
}

func (c *counterCommand) Undo(ctx context.Context) error {
	if c.panicOn == "undo" {
		panic("undo exploded")
	}
	if c.failUndo {
		return errors.New("undo failed")
	}
	*c.counter -= c.delta
	return nil
}

func (c *counterCommand) CanExecute() bool { return !c.refuseExec }
func (c *counterCommand) CanUndo() bool    { return !c.refuseUndo }
func (c *counterCommand) Type() string     { return "test.counter" }
func (c *counterCommand) Description() string {
	return fmt.Sprintf("add %d", c.delta)
}

func newTestManager(opts ...Option) *Manager {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewManager(opts...)
}

func TestManager_ExecuteUndoRedo(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	if err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 3}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if counter != 3 {
		t.Fatalf("counter = %d, want 3", counter)
	}
	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("CanUndo=%v CanRedo=%v, want true/false", m.CanUndo(), m.CanRedo())
	}

	if err := m.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if counter != 0 {
		t.Fatalf("counter = %d after undo, want 0", counter)
	}
	if m.CanUndo() || !m.CanRedo() {
		t.Fatalf("CanUndo=%v CanRedo=%v, want false/true", m.CanUndo(), m.CanRedo())
	}

	if err := m.Redo(ctx); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if counter != 3 {
		t.Fatalf("counter = %d after redo, want 3", counter)
	}
}

func TestManager_NUndosReturnToStart(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	const n = 7
	for i := 0; i < n; i++ {
		if err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 1}); err != nil {
			t.Fatalf("Execute %d: %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		if err := m.Undo(ctx); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}

	if counter != 0 {
		t.Errorf("counter = %d, want 0", counter)
	}
	if m.CanUndo() {
		t.Error("CanUndo() = true after undoing everything")
	}
	if err := m.Undo(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("extra Undo err = %v, want ErrNothingToUndo", err)
	}
}

func TestManager_ExecuteDiscardsRedoTail(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	for i := 0; i < 3; i++ {
		m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	}
	m.Undo(ctx)
	m.Undo(ctx)

	// New edit after partial undo invalidates redo.
	if err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 10}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.CanRedo() {
		t.Error("CanRedo() = true after execute, want false")
	}
	if err := m.Redo(ctx); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v, want ErrNothingToRedo", err)
	}
	if counter != 11 {
		t.Errorf("counter = %d, want 11", counter)
	}
}

func TestManager_RejectedCommand(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 1, refuseExec: true})
	if !errors.Is(err, ErrCannotExecute) {
		t.Fatalf("err = %v, want ErrCannotExecute", err)
	}
	if counter != 0 {
		t.Error("rejected command ran")
	}
	if m.CanUndo() {
		t.Error("rejected command entered history")
	}
}

func TestManager_NilCommand(t *testing.T) {
	m := newTestManager()

	if err := m.Execute(context.Background(), nil); !errors.Is(err, ErrNilCommand) {
		t.Errorf("err = %v, want ErrNilCommand", err)
	}
}

func TestManager_PanickingCommandIsolated(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 1, panicOn: "execute"})
	if !errors.Is(err, ErrCommandPanic) {
		t.Fatalf("err = %v, want ErrCommandPanic", err)
	}
	if m.CanUndo() {
		t.Error("panicked command entered history")
	}

	// Manager must remain usable.
	if err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 2}); err != nil {
		t.Fatalf("Execute after panic: %v", err)
	}
	if counter != 2 {
		t.Errorf("counter = %d, want 2", counter)
	}
}

func TestManager_FailedExecuteNotRecorded(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	if err := m.Execute(ctx, &counterCommand{counter: &counter, delta: 1, failExecute: true}); err == nil {
		t.Fatal("expected error")
	}
	if m.CanUndo() {
		t.Error("failed command entered history")
	}
}

func TestManager_SavePoints(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	// Pristine manager is clean.
	if m.HasUnsavedChanges() {
		t.Error("new manager reports unsaved changes")
	}

	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	if !m.HasUnsavedChanges() {
		t.Error("dirty after execute, reported clean")
	}

	m.MarkSavePoint()
	if m.HasUnsavedChanges() {
		t.Error("clean after save, reported dirty")
	}

	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	if !m.HasUnsavedChanges() {
		t.Error("dirty after second execute, reported clean")
	}

	// Undo back to the save point: clean again.
	m.Undo(ctx)
	if m.HasUnsavedChanges() {
		t.Error("undone to save point, reported dirty")
	}

	// Undo past it: dirty.
	m.Undo(ctx)
	if !m.HasUnsavedChanges() {
		t.Error("undone past save point, reported clean")
	}

	// Redo back onto it: clean.
	m.Redo(ctx)
	if m.HasUnsavedChanges() {
		t.Error("redone to save point, reported dirty")
	}
}

func TestManager_Batch(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	if err := m.StartBatch(); err != nil {
		t.Fatalf("StartBatch: %v", err)
	}
	if err := m.StartBatch(); !errors.Is(err, ErrBatchActive) {
		t.Errorf("nested StartBatch err = %v, want ErrBatchActive", err)
	}

	order := []int{}
	for i := 1; i <= 3; i++ {
		i := i
		cmd := NewFunc("test.step", fmt.Sprintf("step %d", i),
			func(ctx context.Context) error {
				counter += i
				return nil
			},
			func(ctx context.Context) error {
				counter -= i
				order = append(order, i)
				return nil
			})
		if err := m.Execute(ctx, cmd); err != nil {
			t.Fatalf("Execute in batch: %v", err)
		}
	}

	// Buffered commands are not yet history.
	if m.CanUndo() {
		t.Fatal("CanUndo() = true before commit")
	}

	if err := m.CommitBatch("triple step"); err != nil {
		t.Fatalf("CommitBatch: %v", err)
	}
	if counter != 6 {
		t.Fatalf("counter = %d, want 6", counter)
	}

	// One undo step reverses all three, in reverse order.
	if err := m.Undo(ctx); err != nil {
		t.Fatalf("Undo batch: %v", err)
	}
	if counter != 0 {
		t.Errorf("counter = %d after batch undo, want 0", counter)
	}
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("undo order = %v, want [3 2 1]", order)
	}
	if m.CanUndo() {
		t.Error("batch counted as more than one undo step")
	}

	// Redo reapplies forward.
	if err := m.Redo(ctx); err != nil {
		t.Fatalf("Redo batch: %v", err)
	}
	if counter != 6 {
		t.Errorf("counter = %d after batch redo, want 6", counter)
	}
}

func TestManager_CommitEmptyBatch(t *testing.T) {
	m := newTestManager()

	m.StartBatch()
	if err := m.CommitBatch("nothing"); err != nil {
		t.Fatalf("CommitBatch: %v", err)
	}
	if m.CanUndo() {
		t.Error("empty batch created a history entry")
	}
	if err := m.CommitBatch("again"); !errors.Is(err, ErrNoBatch) {
		t.Errorf("CommitBatch without batch err = %v, want ErrNoBatch", err)
	}
}

func TestManager_CancelBatchKeepsEffects(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	m.StartBatch()
	m.Execute(ctx, &counterCommand{counter: &counter, delta: 5})

	cancelled, err := m.CancelBatch()
	if err != nil {
		t.Fatalf("CancelBatch: %v", err)
	}
	// Documented asymmetry: the executed command's effect remains.
	if counter != 5 {
		t.Errorf("counter = %d, want 5 (cancel does not roll back)", counter)
	}
	if m.CanUndo() {
		t.Error("cancelled batch entered history")
	}
	// The buffer is handed back for explicit rollback.
	if len(cancelled) != 1 {
		t.Fatalf("cancelled = %d commands, want 1", len(cancelled))
	}
	if err := cancelled[0].Undo(ctx); err != nil {
		t.Fatalf("explicit rollback: %v", err)
	}
	if counter != 0 {
		t.Errorf("counter = %d after explicit rollback, want 0", counter)
	}
}

func TestManager_ExecuteBatch(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	cmds := []Command{
		&counterCommand{counter: &counter, delta: 1},
		&counterCommand{counter: &counter, delta: 2},
		&counterCommand{counter: &counter, delta: 4, failExecute: true},
		&counterCommand{counter: &counter, delta: 8},
	}

	results := m.ExecuteBatch(ctx, cmds)
	want := []bool{true, true, false, false}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %v, want %v", i, results[i], want[i])
		}
	}
	if counter != 3 {
		t.Errorf("counter = %d, want 3 (stops at first failure)", counter)
	}

	// The executed prefix is one undo step.
	if err := m.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if counter != 0 {
		t.Errorf("counter = %d after undo, want 0", counter)
	}
	if m.CanUndo() {
		t.Error("ExecuteBatch recorded more than one entry")
	}
}

func TestManager_HistoryCapRemapsSavePoints(t *testing.T) {
	m := newTestManager(WithMaxHistory(10))
	ctx := context.Background()
	counter := 0

	// Execute 5, save, then push the save point toward the head.
	for i := 0; i < 5; i++ {
		m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	}
	m.MarkSavePoint() // at index 4
	if m.HasUnsavedChanges() {
		t.Fatal("dirty right after save")
	}

	// 10 more entries trims 5 from the head (cap 10).
	for i := 0; i < 10; i++ {
		m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	}

	// Undo back 10 steps: cursor should land exactly on the re-mapped
	// save point (old index 4 -> -1 after trimming 5).
	for i := 0; i < 10; i++ {
		if err := m.Undo(ctx); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if m.HasUnsavedChanges() {
		t.Error("save point lost during history trim")
	}
}

func TestManager_MaxHistoryFloor(t *testing.T) {
	m := newTestManager(WithMaxHistory(3))
	if got := m.MaxHistorySize(); got != 10 {
		t.Errorf("MaxHistorySize = %d, want floor 10", got)
	}

	m.SetMaxHistorySize(1)
	if got := m.MaxHistorySize(); got != 10 {
		t.Errorf("MaxHistorySize after Set(1) = %d, want 10", got)
	}
}

func TestManager_CapDropsOldestEntries(t *testing.T) {
	m := newTestManager(WithMaxHistory(10))
	ctx := context.Background()
	counter := 0

	for i := 0; i < 25; i++ {
		m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	}

	undos := 0
	for m.CanUndo() {
		if err := m.Undo(ctx); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		undos++
	}
	if undos != 10 {
		t.Errorf("undo steps = %d, want 10 (capped)", undos)
	}
	if counter != 15 {
		t.Errorf("counter = %d, want 15 (trimmed entries stay applied)", counter)
	}
}

func TestManager_Stats(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.Undo(ctx)
	m.Redo(ctx)
	m.StartBatch()
	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.CommitBatch("batch")

	stats := m.Stats()
	if stats.Executed != 3 {
		t.Errorf("Executed = %d, want 3", stats.Executed)
	}
	if stats.Undone != 1 || stats.Redone != 1 {
		t.Errorf("Undone/Redone = %d/%d, want 1/1", stats.Undone, stats.Redone)
	}
	if stats.Batches != 1 {
		t.Errorf("Batches = %d, want 1", stats.Batches)
	}
}

func TestManager_Entries(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	m.Execute(ctx, &counterCommand{counter: &counter, delta: 2})
	m.StartBatch()
	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.CommitBatch("pair")

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(entries))
	}
	if entries[0].Batch || entries[0].Description != "add 2" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !entries[1].Batch || entries[1].Size != 2 || entries[1].Description != "pair" {
		t.Errorf("entries[1] = %+v", entries[1])
	}

	last, ok := m.LastEntry()
	if !ok || last.Description != "pair" {
		t.Errorf("LastEntry = %+v ok=%v", last, ok)
	}
}

func TestManager_UndoRefused(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	cmd := &counterCommand{counter: &counter, delta: 1}
	m.Execute(ctx, cmd)
	cmd.refuseUndo = true

	if err := m.Undo(ctx); !errors.Is(err, ErrCannotUndo) {
		t.Errorf("Undo err = %v, want ErrCannotUndo", err)
	}
	// Entry stays applied and at the cursor.
	if counter != 1 {
		t.Errorf("counter = %d, want 1", counter)
	}
	if !m.CanUndo() {
		t.Error("refused undo moved the cursor")
	}
}

func TestManager_BatchUndoFailureRollsForward(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	good := &counterCommand{counter: &counter, delta: 1}
	bad := &counterCommand{counter: &counter, delta: 2}

	m.StartBatch()
	m.Execute(ctx, bad) // undone second
	m.Execute(ctx, good)
	m.CommitBatch("mixed")

	bad.failUndo = true
	if err := m.Undo(ctx); err == nil {
		t.Fatal("expected batch undo failure")
	}
	// good was undone then re-applied; net state unchanged.
	if counter != 3 {
		t.Errorf("counter = %d, want 3 (entry still applied)", counter)
	}
	if !m.CanUndo() {
		t.Error("failed batch undo moved the cursor")
	}
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	counter := 0

	m.Execute(ctx, &counterCommand{counter: &counter, delta: 1})
	m.Clear()

	if m.CanUndo() || m.CanRedo() {
		t.Error("history survives Clear")
	}
	if m.HasUnsavedChanges() {
		t.Error("cleared manager reports unsaved changes")
	}
}
