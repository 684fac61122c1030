package timeline

// PlayState is the playback state machine's state.
type PlayState int

// Playback states.
const (
	Stopped PlayState = iota
	Playing
	PlayingLooped
)

// String returns the state name.
func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case PlayingLooped:
		return "playing-looped"
	default:
		return "unknown"
	}
}

// tickStep is the fixed simulated time advanced per Tick before the
// speed multiplier.
const tickStep = 0.1

// Playback is the playhead state machine over a project's duration:
// states Stopped, Playing, PlayingLooped; transitions driven by
// Play/Pause/Stop/Seek/SetLoop and by Tick.
type Playback struct {
	state     PlayState
	time      float64
	speed     float64
	duration  float64
	loop      bool
	loopStart float64
	loopEnd   float64
}

// NewPlayback creates a stopped playhead over the given duration, with
// the loop region covering the whole timeline.
func NewPlayback(duration float64) *Playback {
	if duration < 0 {
		duration = 0
	}
	return &Playback{
		speed:    1,
		duration: duration,
		loopEnd:  duration,
	}
}

// State returns the current playback state.
func (pb *Playback) State() PlayState { return pb.state }

// Time returns the playhead position in seconds.
func (pb *Playback) Time() float64 { return pb.time }

// IsPlaying reports whether playback is advancing.
func (pb *Playback) IsPlaying() bool { return pb.state != Stopped }

// Speed returns the playback speed multiplier.
func (pb *Playback) Speed() float64 { return pb.speed }

// SetSpeed sets the playback speed multiplier. Non-positive values are
// ignored.
func (pb *Playback) SetSpeed(speed float64) {
	if speed > 0 {
		pb.speed = speed
	}
}

// SetDuration resizes the timeline, clamping the playhead and loop
// region into the new range.
func (pb *Playback) SetDuration(duration float64) {
	if duration < 0 {
		duration = 0
	}
	pb.duration = duration
	if pb.time > duration {
		pb.time = duration
	}
	if pb.loopEnd > duration || pb.loopEnd == 0 {
		pb.loopEnd = duration
	}
	if pb.loopStart > pb.loopEnd {
		pb.loopStart = pb.loopEnd
	}
}

// Play starts playback: Playing, or PlayingLooped when looping is
// enabled.
func (pb *Playback) Play() {
	if pb.loop {
		pb.state = PlayingLooped
		return
	}
	pb.state = Playing
}

// Pause stops playback in place.
func (pb *Playback) Pause() {
	pb.state = Stopped
}

// Stop stops playback and resets the playhead: to the loop start when
// looping, otherwise to zero.
func (pb *Playback) Stop() {
	pb.state = Stopped
	if pb.loop {
		pb.time = pb.loopStart
		return
	}
	pb.time = 0
}

// Seek clamps t into [0, duration] and moves the playhead there.
// Seeking never changes the playback state.
func (pb *Playback) Seek(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > pb.duration {
		t = pb.duration
	}
	pb.time = t
	return pb.time
}

// SetLoop enables or disables looping, adjusting an in-flight playing
// state to match.
func (pb *Playback) SetLoop(enabled bool) {
	pb.loop = enabled
	switch pb.state {
	case Playing:
		if enabled {
			pb.state = PlayingLooped
		}
	case PlayingLooped:
		if !enabled {
			pb.state = Playing
		}
	}
}

// Looping reports whether loop mode is enabled.
func (pb *Playback) Looping() bool { return pb.loop }

// SetLoopRegion sets the loop window, clamped to [0, duration] with
// start <= end.
func (pb *Playback) SetLoopRegion(start, end float64) {
	if start < 0 {
		start = 0
	}
	if end > pb.duration {
		end = pb.duration
	}
	if start > end {
		start = end
	}
	pb.loopStart = start
	pb.loopEnd = end
}

// Tick advances the playhead by one fixed step times the speed
// multiplier and returns the new time. When looping and the step
// reaches the loop end, the playhead wraps to the loop start. When not
// looping and the step reaches the timeline end, the playhead clamps
// to exactly the duration and playback stops in the same tick. A
// stopped playhead does not advance.
func (pb *Playback) Tick() float64 {
	if pb.state == Stopped {
		return pb.time
	}

	next := pb.time + tickStep*pb.speed
	switch {
	case pb.loop && next >= pb.loopEnd:
		pb.time = pb.loopStart
	case next >= pb.duration:
		pb.time = pb.duration
		pb.state = Stopped
	default:
		pb.time = next
	}
	return pb.time
}
