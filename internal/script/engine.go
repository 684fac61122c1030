package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cutroom/internal/app"
)

// Engine errors.
var (
	// ErrMacroFailed wraps a Lua runtime error raised by a macro.
	ErrMacroFailed = errors.New("macro failed")

	// ErrEngineClosed is returned after Close.
	ErrEngineClosed = errors.New("script engine closed")
)

// DefaultTimeout bounds a single macro run. Best effort: Lua code that
// never calls back into Go cannot be interrupted mid-instruction.
const DefaultTimeout = 5 * time.Second

// Engine runs Lua macros against an editor. Each macro executes in a
// sandboxed state (no os, io, or code loading) with a `cutroom` module
// binding the editor's operations. All edits a macro performs are
// recorded as one undo step; a failed macro rolls its edits back.
//
// Each run builds a fresh Lua state, so runs do not share interpreter
// state; callers must not invoke Run methods concurrently.
type Engine struct {
	editor  *app.Editor
	log     *slog.Logger
	timeout time.Duration
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTimeout bounds each macro run.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates a macro engine bound to an editor.
func New(editor *app.Editor, opts ...Option) *Engine {
	e := &Engine{
		editor:  editor,
		log:     slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close marks the engine unusable.
func (e *Engine) Close() {
	e.closed = true
}

// RunFile executes a macro file. The macro's edits form one undo step
// named after the file.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read macro: %w", err)
	}
	name := filepath.Base(path)
	return e.run(ctx, name, string(src))
}

// RunString executes macro source. The macro's edits form one undo
// step.
func (e *Engine) RunString(ctx context.Context, src string) error {
	return e.run(ctx, "macro", src)
}

func (e *Engine) run(ctx context.Context, name, src string) error {
	if e.closed {
		return ErrEngineClosed
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	L := e.newState(ctx)
	defer L.Close()

	if err := e.editor.BeginBatch(); err != nil {
		return err
	}

	start := time.Now()
	err := L.DoString(src)
	if err != nil {
		e.log.Warn("macro failed",
			"macro", name,
			"error", err,
			"elapsed", time.Since(start))
		if cancelErr := e.editor.CancelBatch(ctx); cancelErr != nil {
			e.log.Warn("macro rollback failed", "macro", name, "error", cancelErr)
		}
		return fmt.Errorf("%w: %s: %v", ErrMacroFailed, name, err)
	}

	if err := e.editor.CommitBatch(ctx, fmt.Sprintf("Macro %s", name)); err != nil {
		return err
	}
	e.log.Debug("macro completed", "macro", name, "elapsed", time.Since(start))
	return nil
}

// newState builds a sandboxed Lua state with the cutroom module
// installed.
func (e *Engine) newState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)

	// Strip escape hatches: no filesystem, process, or code loading.
	for _, name := range []string{"os", "io", "dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("cutroom", e.editorModule(ctx, L))
	return L
}
