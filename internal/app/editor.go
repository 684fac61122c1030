package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/cutroom/internal/config"
	"github.com/dshills/cutroom/internal/event"
	"github.com/dshills/cutroom/internal/event/events"
	"github.com/dshills/cutroom/internal/event/topic"
	"github.com/dshills/cutroom/internal/history"
	"github.com/dshills/cutroom/internal/timeline"
)

// ErrNoProject is returned by editor operations before a project is
// created or loaded.
var ErrNoProject = errors.New("no project open")

// Editor is the composition root: it owns the event bus, the undo
// history, and the open project with its playback and selection state,
// and routes every user-facing operation through them. UI hosts call
// these methods and subscribe to the bus for re-render signals; they
// never touch the model directly.
//
// An Editor is driven from a single goroutine, typically the host's UI
// event loop. An internal mutex guards the project pointer and playback
// state for read accessors, but mutating operations are not safe to
// invoke concurrently; the caller serializes them.
type Editor struct {
	mu sync.Mutex

	log      *slog.Logger
	settings *config.Settings
	bus      *event.Bus
	history  *history.Manager

	project   *timeline.Project
	playback  *timeline.Playback
	selection *timeline.Selection
	path      string

	wasDirty bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Editor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSettings supplies loaded settings. Defaults are used otherwise.
func WithSettings(s *config.Settings) Option {
	return func(e *Editor) {
		if s != nil {
			e.settings = s
		}
	}
}

// New creates an editor with its bus and history sized from settings.
// No project is open until NewProject or LoadProject is called.
func New(opts ...Option) *Editor {
	e := &Editor{
		log:      slog.Default(),
		settings: config.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.bus = event.NewBus(
		event.WithQueueCapacity(e.settings.EventQueueSize),
		event.WithLogger(e.log),
	)
	e.history = history.NewManager(
		history.WithMaxHistory(e.settings.MaxHistory),
		history.WithLogger(e.log),
	)
	e.selection = timeline.NewSelection()
	return e
}

// Bus exposes the event bus for subscribers.
func (e *Editor) Bus() *event.Bus { return e.bus }

// History exposes the undo history for UI state (menu enablement).
func (e *Editor) History() *history.Manager { return e.history }

// Project returns the open project, or nil.
func (e *Editor) Project() *timeline.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project
}

// Selection returns the edit-session selection state.
func (e *Editor) Selection() *timeline.Selection { return e.selection }

// Close shuts down the bus, draining queued events.
func (e *Editor) Close(ctx context.Context) error {
	return e.bus.Close(ctx)
}

// NewProject creates and opens an empty project.
func (e *Editor) NewProject(ctx context.Context, name string) *timeline.Project {
	e.mu.Lock()
	p := timeline.NewProject(name)
	p.FPS = e.settings.DefaultFPS
	p.Duration = e.settings.DefaultDuration
	p.Settings.Autosave = e.settings.Autosave
	p.Settings.SnapToGrid = e.settings.SnapToGrid

	e.openLocked(p, "")
	e.mu.Unlock()

	e.emit(ctx, events.TopicProjectCreated, events.ProjectLifecycle{
		ProjectID: p.ID,
		Name:      p.Name,
	})
	return p
}

// LoadProject opens a project document from disk.
func (e *Editor) LoadProject(ctx context.Context, path string) (*timeline.Project, error) {
	p, err := timeline.Load(path)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.openLocked(p, path)
	e.mu.Unlock()

	e.emit(ctx, events.TopicProjectLoaded, events.ProjectLifecycle{
		ProjectID: p.ID,
		Name:      p.Name,
		Path:      path,
	})
	return p, nil
}

// openLocked installs a project, resetting history, selection, and
// playback.
func (e *Editor) openLocked(p *timeline.Project, path string) {
	e.project = p
	e.path = path
	e.playback = timeline.NewPlayback(p.Duration)
	e.selection = timeline.NewSelection()
	e.history.Clear()
	e.wasDirty = false
}

// SaveProject writes the project to path (or its previous path when
// path is empty) and marks the history save point.
func (e *Editor) SaveProject(ctx context.Context, path string) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	if path == "" {
		path = e.path
	}
	if path == "" {
		e.mu.Unlock()
		return fmt.Errorf("save: no path given")
	}
	p := e.project
	e.path = path
	e.mu.Unlock()

	if err := timeline.Save(path, p); err != nil {
		return err
	}
	e.history.MarkSavePoint()

	e.emit(ctx, events.TopicProjectSaved, events.ProjectLifecycle{
		ProjectID: p.ID,
		Name:      p.Name,
		Path:      path,
	})
	e.notifyDirty(ctx)
	return nil
}

// HasUnsavedChanges reports whether the project differs from the last
// save point.
func (e *Editor) HasUnsavedChanges() bool {
	return e.history.HasUnsavedChanges()
}

// emit publishes a queued event tagged with the editor as source.
// Emission failures (closed bus during shutdown) are logged, not
// returned: domain operations succeed independently of notification.
func (e *Editor) emit(ctx context.Context, t topic.Topic, payload any) {
	if err := e.bus.Emit(ctx, t, payload, event.WithSource("editor")); err != nil {
		e.log.Warn("event emit failed", "topic", t, "error", err)
	}
}

// notifyDirty publishes a dirty-state event when dirtiness flipped
// since the last notification.
func (e *Editor) notifyDirty(ctx context.Context) {
	e.mu.Lock()
	p := e.project
	dirty := e.history.HasUnsavedChanges()
	flipped := dirty != e.wasDirty
	e.wasDirty = dirty
	e.mu.Unlock()

	if p == nil || !flipped {
		return
	}
	e.emit(ctx, events.TopicProjectDirtyChanged, events.ProjectDirtyChanged{
		ProjectID: p.ID,
		Dirty:     dirty,
	})
}

// notifyHistory publishes the new undo/redo availability after a
// history movement, plus any dirty flip it caused.
func (e *Editor) notifyHistory(ctx context.Context) {
	var desc string
	if last, ok := e.history.LastEntry(); ok {
		desc = last.Description
	}
	e.emit(ctx, events.TopicHistoryChanged, events.HistoryChanged{
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
		Description: desc,
	})
	e.notifyDirty(ctx)
}
