package events

import "github.com/dshills/cutroom/internal/event/topic"

// Timeline event topics.
const (
	// TopicClipAdded is published when a clip is added to a track.
	TopicClipAdded topic.Topic = "timeline.clip.added"

	// TopicClipRemoved is published when a clip is removed from a track.
	TopicClipRemoved topic.Topic = "timeline.clip.removed"

	// TopicClipMoved is published when a clip's start time changes.
	TopicClipMoved topic.Topic = "timeline.clip.moved"

	// TopicClipTrimmed is published when a clip's trim window changes.
	TopicClipTrimmed topic.Topic = "timeline.clip.trimmed"

	// TopicClipSplit is published when a clip is split at the playhead.
	TopicClipSplit topic.Topic = "timeline.clip.split"

	// TopicClipsPasted is published when clipboard clips are pasted.
	TopicClipsPasted topic.Topic = "timeline.clip.pasted"

	// TopicSelectionChanged is published when the clip or track
	// selection changes.
	TopicSelectionChanged topic.Topic = "timeline.selection.changed"

	// TopicPlayheadMoved is published when the playhead position changes,
	// whether from a seek or a playback tick.
	TopicPlayheadMoved topic.Topic = "timeline.playhead.moved"
)

// ClipAdded is published when a clip lands on a track.
type ClipAdded struct {
	// TrackID is the track that received the clip.
	TrackID string

	// ClipID is the new clip.
	ClipID string

	// StartTime is the clip's position on the project timeline, seconds.
	StartTime float64

	// Duration is the clip's timeline duration, seconds.
	Duration float64
}

// ClipRemoved is published when a clip leaves a track.
type ClipRemoved struct {
	// TrackID is the track that held the clip.
	TrackID string

	// ClipID is the removed clip.
	ClipID string
}

// ClipMoved is published when a clip is retimed.
type ClipMoved struct {
	TrackID string
	ClipID  string

	// OldStart and NewStart are timeline positions in seconds.
	OldStart float64
	NewStart float64
}

// ClipTrimmed is published when a clip's source trim window changes.
type ClipTrimmed struct {
	TrackID string
	ClipID  string

	// TrimStart and TrimEnd are the new source-material window, seconds.
	TrimStart float64
	TrimEnd   float64
}

// ClipSplit is published when one clip becomes two.
type ClipSplit struct {
	TrackID string

	// LeftID is the original clip, now truncated at the split point.
	LeftID string

	// RightID is the newly created clip starting at the split point.
	RightID string

	// At is the split position on the project timeline, seconds.
	At float64
}

// ClipsPasted is published after a paste operation.
type ClipsPasted struct {
	// TrackID is the track that received the clips.
	TrackID string

	// ClipIDs are the freshly created clips, which are also the new
	// selection.
	ClipIDs []string

	// At is the playhead position the clips were pasted at, seconds.
	At float64
}

// SelectionChanged is published when selection membership changes.
type SelectionChanged struct {
	ClipIDs  []string
	TrackIDs []string
}

// PlayheadMoved is published when the playhead position changes.
type PlayheadMoved struct {
	// Time is the new playhead position in seconds.
	Time float64

	// Playing reports whether playback is running.
	Playing bool
}
