package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// minHistorySize is the enforced floor for the history cap.
	minHistorySize = 10

	// defaultHistorySize is used when no cap is configured.
	defaultHistorySize = 100

	// emaAlpha smooths the rolling average of command execution time.
	emaAlpha = 0.1
)

// Stats is a snapshot of manager counters.
type Stats struct {
	Executed uint64
	Undone   uint64
	Redone   uint64
	Batches  uint64

	// AvgExecTime is an exponential moving average of Execute duration.
	AvgExecTime time.Duration
}

// Manager implements linear undo/redo history over Commands.
//
// The history is a slice of entries with a cursor pointing at the last
// applied entry (-1 when none). Executing a new command discards any
// entries after the cursor. Save points are cursor positions recorded by
// MarkSavePoint; the project is dirty whenever the cursor is not a save
// point.
//
// All operations are serialized under one mutex, including the command's
// own Execute/Undo, so commands never run concurrently against the same
// history. A panicking command is recovered, reported as a failed
// operation, and leaves the history unchanged.
type Manager struct {
	mu  sync.Mutex
	log *slog.Logger

	history []*Entry
	cursor  int
	maxSize int

	// savePoints holds saved cursor positions. -1 (the pristine state)
	// is saved from the start.
	savePoints map[int]struct{}

	recording bool
	pending   []Command

	executed uint64
	undone   uint64
	redone   uint64
	batches  uint64
	emaNs    float64
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxHistory sets the history cap. Values below the floor of 10 are
// raised to it.
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n < minHistorySize {
			n = minHistorySize
		}
		m.maxSize = n
	}
}

// WithLogger sets the logger used for command faults.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates an empty history manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log:        slog.Default(),
		cursor:     -1,
		maxSize:    defaultHistorySize,
		savePoints: map[int]struct{}{-1: {}},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute validates and runs a command. On success outside batch
// recording, the command becomes a new history entry and any redo tail
// is discarded. During batch recording the command is buffered instead.
func (m *Manager) Execute(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return ErrNilCommand
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.executeLocked(ctx, cmd)
}

func (m *Manager) executeLocked(ctx context.Context, cmd Command) error {
	if !cmd.CanExecute() {
		return fmt.Errorf("%w: %s", ErrCannotExecute, cmd.Description())
	}

	start := time.Now()
	if err := runGuarded(ctx, cmd.Execute); err != nil {
		m.log.Warn("command execute failed",
			"type", cmd.Type(),
			"error", err)
		return err
	}
	m.observe(time.Since(start))
	m.executed++

	if m.recording {
		m.pending = append(m.pending, cmd)
		return nil
	}

	m.appendLocked(newEntry(cmd))
	return nil
}

// ExecuteBatch runs commands sequentially, stopping at the first
// rejection or failure. The returned slice reports per-command success.
// Commands that ran are recorded as a single batch history entry (one
// undo step).
func (m *Manager) ExecuteBatch(ctx context.Context, cmds []Command) []bool {
	results := make([]bool, len(cmds))
	if len(cmds) == 0 {
		return results
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var ran []Command
	for i, cmd := range cmds {
		if cmd == nil || !cmd.CanExecute() {
			break
		}
		start := time.Now()
		if err := runGuarded(ctx, cmd.Execute); err != nil {
			m.log.Warn("batch command failed",
				"type", cmd.Type(),
				"index", i,
				"error", err)
			break
		}
		m.observe(time.Since(start))
		m.executed++
		results[i] = true
		ran = append(ran, cmd)
	}

	if len(ran) == 0 {
		return results
	}

	if m.recording {
		m.pending = append(m.pending, ran...)
		return results
	}

	if len(ran) == 1 {
		m.appendLocked(newEntry(ran[0]))
	} else {
		m.appendLocked(newBatchEntry("", ran))
		m.batches++
	}
	return results
}

// Undo reverses the entry at the cursor. Batch entries undo their
// commands in reverse order; every command must agree to undo, and a
// failure mid-batch rolls the already-undone commands forward again so
// the entry stays applied.
func (m *Manager) Undo(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < 0 {
		return ErrNothingToUndo
	}

	entry := m.history[m.cursor]
	for _, cmd := range entry.Commands {
		if !cmd.CanUndo() {
			return fmt.Errorf("%w: %s", ErrCannotUndo, entry.Description)
		}
	}

	cmds := entry.Commands
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := runGuarded(ctx, cmds[i].Undo); err != nil {
			m.log.Warn("undo failed",
				"entry", entry.Description,
				"type", cmds[i].Type(),
				"error", err)
			// Re-apply what was already undone, last first.
			for j := i + 1; j < len(cmds); j++ {
				_ = runGuarded(ctx, cmds[j].Execute)
			}
			return err
		}
	}

	m.cursor--
	m.undone++
	return nil
}

// Redo re-applies the entry after the cursor. Batch entries redo in
// their original order.
func (m *Manager) Redo(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.history)-1 {
		return ErrNothingToRedo
	}

	entry := m.history[m.cursor+1]
	cmds := entry.Commands
	for i, cmd := range cmds {
		if !cmd.CanExecute() {
			return fmt.Errorf("%w: %s", ErrCannotExecute, entry.Description)
		}
		if err := runGuarded(ctx, cmd.Execute); err != nil {
			m.log.Warn("redo failed",
				"entry", entry.Description,
				"type", cmd.Type(),
				"error", err)
			// Unwind the partial redo.
			for j := i - 1; j >= 0; j-- {
				_ = runGuarded(ctx, cmds[j].Undo)
			}
			return err
		}
	}

	m.cursor++
	m.redone++
	return nil
}

// CanUndo reports whether an entry is available behind the cursor.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor >= 0
}

// CanRedo reports whether an entry is available ahead of the cursor.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.history)-1
}

// StartBatch begins batch recording. Subsequent Execute calls buffer
// their commands instead of writing history entries.
func (m *Manager) StartBatch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recording {
		return ErrBatchActive
	}
	m.recording = true
	m.pending = nil
	return nil
}

// CommitBatch ends batch recording, wrapping the buffered commands into
// one history entry. An empty buffer commits nothing.
func (m *Manager) CommitBatch(description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.recording {
		return ErrNoBatch
	}
	m.recording = false

	if len(m.pending) == 0 {
		m.pending = nil
		return nil
	}

	m.appendLocked(newBatchEntry(description, m.pending))
	m.batches++
	m.pending = nil
	return nil
}

// CancelBatch ends batch recording and discards the buffer without
// touching history. Commands already executed inside the batch are NOT
// rolled back; they are returned so the caller can undo them explicitly
// if it wants rollback semantics.
func (m *Manager) CancelBatch() ([]Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.recording {
		return nil, ErrNoBatch
	}
	m.recording = false
	cancelled := m.pending
	m.pending = nil
	return cancelled, nil
}

// IsRecording reports whether a batch is being recorded.
func (m *Manager) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

// MarkSavePoint records the current cursor as saved.
func (m *Manager) MarkSavePoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savePoints[m.cursor] = struct{}{}
}

// HasUnsavedChanges reports whether the cursor sits on a recorded save
// point. Undoing back to a save point reports clean again.
func (m *Manager) HasUnsavedChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, saved := m.savePoints[m.cursor]
	return !saved
}

// SetMaxHistorySize changes the history cap, trimming oldest entries and
// re-mapping save points as needed. The floor of 10 is enforced.
func (m *Manager) SetMaxHistorySize(n int) {
	if n < minHistorySize {
		n = minHistorySize
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxSize = n
	m.trimLocked()
}

// MaxHistorySize returns the current cap.
func (m *Manager) MaxHistorySize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxSize
}

// Entries returns read-only info for the whole history, oldest first.
func (m *Manager) Entries() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]EntryInfo, len(m.history))
	for i, e := range m.history {
		infos[i] = EntryInfo{
			Description: e.Description,
			Timestamp:   e.Timestamp,
			Batch:       e.Batch,
			Size:        len(e.Commands),
		}
	}
	return infos
}

// LastEntry returns info for the entry at the cursor.
func (m *Manager) LastEntry() (EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < 0 {
		return EntryInfo{}, false
	}
	e := m.history[m.cursor]
	return EntryInfo{
		Description: e.Description,
		Timestamp:   e.Timestamp,
		Batch:       e.Batch,
		Size:        len(e.Commands),
	}, true
}

// Stats returns a snapshot of manager counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Executed:    m.executed,
		Undone:      m.undone,
		Redone:      m.redone,
		Batches:     m.batches,
		AvgExecTime: time.Duration(m.emaNs),
	}
}

// Clear wipes history, save points, and any pending batch. The pristine
// state is considered saved.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	m.cursor = -1
	m.savePoints = map[int]struct{}{-1: {}}
	m.recording = false
	m.pending = nil
}

// appendLocked commits a new entry at cursor+1, discarding the redo tail
// and any save points that pointed into it, then enforces the cap.
func (m *Manager) appendLocked(entry *Entry) {
	m.history = m.history[:m.cursor+1]
	for p := range m.savePoints {
		if p > m.cursor {
			delete(m.savePoints, p)
		}
	}

	m.history = append(m.history, entry)
	m.cursor++

	m.trimLocked()
}

// trimLocked drops oldest entries over the cap and shifts save points
// down with them. A save point that lands exactly on -1 still marks the
// reachable "everything undone" state; anything below that is gone.
// Entries at or after the cursor are never trimmed from the head (the
// current state must stay representable); if the head alone cannot
// satisfy the cap, the redo tail is dropped instead.
func (m *Manager) trimLocked() {
	excess := len(m.history) - m.maxSize
	if excess <= 0 {
		return
	}

	headDrop := excess
	if headDrop > m.cursor+1 {
		headDrop = m.cursor + 1
	}
	if headDrop > 0 {
		m.history = m.history[headDrop:]
		m.cursor -= headDrop

		remapped := make(map[int]struct{}, len(m.savePoints))
		for p := range m.savePoints {
			if p-headDrop >= -1 {
				remapped[p-headDrop] = struct{}{}
			}
		}
		m.savePoints = remapped
	}

	if len(m.history) > m.maxSize {
		m.history = m.history[:m.maxSize]
		for p := range m.savePoints {
			if p >= len(m.history) {
				delete(m.savePoints, p)
			}
		}
	}
}

func (m *Manager) observe(d time.Duration) {
	if m.emaNs == 0 {
		m.emaNs = float64(d.Nanoseconds())
		return
	}
	m.emaNs = (1-emaAlpha)*m.emaNs + emaAlpha*float64(d.Nanoseconds())
}

// runGuarded executes a command phase with panic recovery.
func runGuarded(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCommandPanic, r)
		}
	}()
	return fn(ctx)
}
