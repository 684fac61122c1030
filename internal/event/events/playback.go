package events

import "github.com/dshills/cutroom/internal/event/topic"

// Playback topics.
const (
	// TopicPlaybackStarted is published when playback starts.
	TopicPlaybackStarted topic.Topic = "playback.started"

	// TopicPlaybackPaused is published when playback pauses.
	TopicPlaybackPaused topic.Topic = "playback.paused"

	// TopicPlaybackStopped is published when playback stops, including
	// the automatic stop when the playhead reaches the project duration.
	TopicPlaybackStopped topic.Topic = "playback.stopped"

	// TopicPlaybackLooped is published when looping playback wraps from
	// the loop end back to the loop start.
	TopicPlaybackLooped topic.Topic = "playback.looped"
)

// PlaybackState is the payload for all playback topics.
type PlaybackState struct {
	// Time is the playhead position in seconds.
	Time float64

	// Speed is the playback speed multiplier.
	Speed float64

	// Looping reports whether loop mode is enabled.
	Looping bool
}
