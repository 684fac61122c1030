package timeline

import "errors"

// Sentinel errors for rejected edit preconditions. These are normal
// outcomes for the caller to translate into user messaging, never
// panics.
var (
	// ErrEmptyClipboard is returned by Paste when nothing was copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")

	// ErrEmptySelection is returned by Copy and DeleteSelected when no
	// clips are selected.
	ErrEmptySelection = errors.New("no clips selected")

	// ErrNoTrack is returned by Paste when the project has no track to
	// receive clips.
	ErrNoTrack = errors.New("project has no tracks")

	// ErrTrackNotFound is returned when a track id resolves to nothing.
	ErrTrackNotFound = errors.New("track not found")

	// ErrClipNotFound is returned when a clip id resolves to nothing.
	ErrClipNotFound = errors.New("clip not found")

	// ErrInvalidSplitPosition is returned by SplitAt when no clip
	// contains the playhead strictly inside its span. Splitting exactly
	// at a clip boundary is rejected with this error.
	ErrInvalidSplitPosition = errors.New("invalid split position")

	// ErrInvalidTrim is returned for a trim window that is negative,
	// inverted, or empty.
	ErrInvalidTrim = errors.New("invalid trim window")
)
