package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// SplitAt cuts the first clip whose span strictly contains t into two
// clips at t. The left half keeps the original id and is truncated to
// end at t; the right half is a deep copy with a fresh id starting at
// t. The trim window is partitioned, not duplicated: the left keeps
// [TrimStart, TrimStart+delta] and the right plays on from there.
//
// Splitting exactly at a clip boundary, or at a time no clip covers,
// returns ErrInvalidSplitPosition.
func (p *Project) SplitAt(t float64) (left, right *Clip, err error) {
	track, clip := p.clipAt(t)
	if clip == nil {
		return nil, nil, fmt.Errorf("%w: no clip strictly contains %.3fs", ErrInvalidSplitPosition, t)
	}

	delta := t - clip.Start

	right = clip.Clone()
	right.ID = uuid.NewString()
	right.Start = t
	right.Duration = clip.Duration - delta
	right.TrimStart = clip.TrimStart + delta

	clip.Duration = delta
	clip.TrimEnd = clip.TrimStart + delta

	track.insertAfter(clip.ID, right)
	return clip, right, nil
}

// clipAt returns the first clip (track order, then insertion order)
// whose span strictly contains t.
func (p *Project) clipAt(t float64) (*Track, *Clip) {
	for _, track := range p.Tracks {
		for _, clip := range track.Clips {
			if clip.Contains(t) {
				return track, clip
			}
		}
	}
	return nil, nil
}

// insertAfter places clip immediately after the clip with the given
// id, or appends if the id is not present.
func (t *Track) insertAfter(id string, clip *Clip) {
	for i, c := range t.Clips {
		if c.ID == id {
			t.Clips = append(t.Clips, nil)
			copy(t.Clips[i+2:], t.Clips[i+1:])
			t.Clips[i+1] = clip
			return
		}
	}
	t.Clips = append(t.Clips, clip)
}

// TrimClip adjusts a clip's source window to [trimStart, trimEnd] and
// re-derives its timeline duration from the window size. The window
// must be non-empty and non-negative.
func (p *Project) TrimClip(id string, trimStart, trimEnd float64) error {
	_, clip, ok := p.FindClip(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	if trimStart < 0 || trimEnd <= trimStart {
		return fmt.Errorf("%w: [%.3f, %.3f]", ErrInvalidTrim, trimStart, trimEnd)
	}

	clip.TrimStart = trimStart
	clip.TrimEnd = trimEnd
	clip.Duration = trimEnd - trimStart
	return nil
}

// MoveClip retimes a clip's start on the project timeline, clamping
// negative starts to zero.
func (p *Project) MoveClip(id string, start float64) error {
	_, clip, ok := p.FindClip(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, id)
	}
	if start < 0 {
		start = 0
	}
	clip.Start = start
	return nil
}

// AddClip appends a clip to the given track.
func (p *Project) AddClip(trackID string, clip *Clip) error {
	track, ok := p.Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	track.Clips = append(track.Clips, clip)
	return nil
}

// RemoveClip detaches a clip from its track, returning the removed
// clip, its track id, and its index so callers can reinsert it.
func (p *Project) RemoveClip(id string) (*Clip, string, int, error) {
	for _, track := range p.Tracks {
		for i, clip := range track.Clips {
			if clip.ID == id {
				track.Clips = append(track.Clips[:i], track.Clips[i+1:]...)
				return clip, track.ID, i, nil
			}
		}
	}
	return nil, "", 0, fmt.Errorf("%w: %s", ErrClipNotFound, id)
}

// InsertClip places a clip at index i within a track. Out-of-range
// indices are clamped.
func (p *Project) InsertClip(trackID string, i int, clip *Clip) error {
	track, ok := p.Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	if i < 0 {
		i = 0
	}
	if i > len(track.Clips) {
		i = len(track.Clips)
	}
	track.Clips = append(track.Clips, nil)
	copy(track.Clips[i+1:], track.Clips[i:])
	track.Clips[i] = clip
	return nil
}
