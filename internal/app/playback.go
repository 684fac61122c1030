package app

import (
	"context"

	"github.com/dshills/cutroom/internal/event/events"
	"github.com/dshills/cutroom/internal/timeline"
)

// Seek clamps t into the project duration and moves the playhead.
func (e *Editor) Seek(ctx context.Context, t float64) (float64, error) {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return 0, ErrNoProject
	}
	got := e.playback.Seek(t)
	playing := e.playback.IsPlaying()
	e.mu.Unlock()

	e.emit(ctx, events.TopicPlayheadMoved, events.PlayheadMoved{Time: got, Playing: playing})
	return got, nil
}

// Play starts playback.
func (e *Editor) Play(ctx context.Context) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	e.playback.Play()
	state := e.playbackStateLocked()
	e.mu.Unlock()

	e.emit(ctx, events.TopicPlaybackStarted, state)
	return nil
}

// Pause stops playback in place.
func (e *Editor) Pause(ctx context.Context) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	e.playback.Pause()
	state := e.playbackStateLocked()
	e.mu.Unlock()

	e.emit(ctx, events.TopicPlaybackPaused, state)
	return nil
}

// Stop stops playback and resets the playhead.
func (e *Editor) Stop(ctx context.Context) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	e.playback.Stop()
	state := e.playbackStateLocked()
	e.mu.Unlock()

	e.emit(ctx, events.TopicPlaybackStopped, state)
	return nil
}

// SetLoop toggles loop mode.
func (e *Editor) SetLoop(enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.project == nil {
		return ErrNoProject
	}
	e.playback.SetLoop(enabled)
	return nil
}

// SetLoopRegion sets the loop window.
func (e *Editor) SetLoopRegion(start, end float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.project == nil {
		return ErrNoProject
	}
	e.playback.SetLoopRegion(start, end)
	return nil
}

// Tick advances playback by one simulated step and publishes the
// resulting playhead movement, loop wrap, or end-of-timeline stop.
func (e *Editor) Tick(ctx context.Context) (float64, error) {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return 0, ErrNoProject
	}
	if !e.playback.IsPlaying() {
		t := e.playback.Time()
		e.mu.Unlock()
		return t, nil
	}

	before := e.playback.Time()
	got := e.playback.Tick()
	state := e.playbackStateLocked()
	stopped := !e.playback.IsPlaying()
	wrapped := e.playback.Looping() && got < before
	e.mu.Unlock()

	e.emit(ctx, events.TopicPlayheadMoved, events.PlayheadMoved{Time: got, Playing: !stopped})
	if wrapped {
		e.emit(ctx, events.TopicPlaybackLooped, state)
	}
	if stopped {
		e.emit(ctx, events.TopicPlaybackStopped, state)
	}
	return got, nil
}

// Playhead returns the current playhead position.
func (e *Editor) Playhead() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playback == nil {
		return 0
	}
	return e.playback.Time()
}

// PlaybackState returns the playback state machine's current state.
func (e *Editor) PlaybackState() timeline.PlayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playback == nil {
		return timeline.Stopped
	}
	return e.playback.State()
}

// Timecode formats the playhead as MM:SS:FF at the project frame rate.
func (e *Editor) Timecode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.project == nil || e.playback == nil {
		return timeline.FormatTimecode(0, 0)
	}
	return timeline.FormatTimecode(e.playback.Time(), e.project.FPS)
}

func (e *Editor) playbackStateLocked() events.PlaybackState {
	return events.PlaybackState{
		Time:    e.playback.Time(),
		Speed:   e.playback.Speed(),
		Looping: e.playback.Looping(),
	}
}
