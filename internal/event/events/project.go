package events

import "github.com/dshills/cutroom/internal/event/topic"

// Project lifecycle topics.
const (
	// TopicProjectCreated is published when a new project is created.
	TopicProjectCreated topic.Topic = "project.created"

	// TopicProjectLoaded is published when a project is loaded from disk.
	TopicProjectLoaded topic.Topic = "project.loaded"

	// TopicProjectSaved is published when a project is saved. Saving also
	// marks the undo history save point.
	TopicProjectSaved topic.Topic = "project.saved"

	// TopicProjectDirtyChanged is published when the unsaved-changes
	// state flips.
	TopicProjectDirtyChanged topic.Topic = "project.dirty.changed"

	// TopicHistoryChanged is published after an execute, undo, or redo
	// changes the history position.
	TopicHistoryChanged topic.Topic = "project.history.changed"
)

// ProjectLifecycle is the payload for created/loaded/saved events.
type ProjectLifecycle struct {
	// ProjectID is the project's unique identifier.
	ProjectID string

	// Name is the project's display name.
	Name string

	// Path is the file the project was loaded from or saved to, if any.
	Path string
}

// ProjectDirtyChanged is published when dirtiness flips.
type ProjectDirtyChanged struct {
	ProjectID string

	// Dirty is true when there are unsaved changes.
	Dirty bool
}

// HistoryChanged is published after the undo history moves.
type HistoryChanged struct {
	// CanUndo and CanRedo describe the new history position.
	CanUndo bool
	CanRedo bool

	// Description names the most recent history entry, if any.
	Description string
}
