package timeline

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Selection is the transient edit-session state: which clips and
// tracks are selected, plus the clipboard. It is never persisted with
// the project. Clip and track selection are independent sets.
type Selection struct {
	clips     map[string]struct{}
	tracks    map[string]struct{}
	clipboard []*Clip
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{
		clips:  make(map[string]struct{}),
		tracks: make(map[string]struct{}),
	}
}

// ReplaceClip makes id the only selected clip.
func (s *Selection) ReplaceClip(id string) {
	s.clips = map[string]struct{}{id: {}}
}

// ToggleClip flips id's membership in the clip selection: present is
// removed, absent is added.
func (s *Selection) ToggleClip(id string) {
	if _, ok := s.clips[id]; ok {
		delete(s.clips, id)
		return
	}
	s.clips[id] = struct{}{}
}

// ReplaceTrack makes id the only selected track.
func (s *Selection) ReplaceTrack(id string) {
	s.tracks = map[string]struct{}{id: {}}
}

// ToggleTrack flips id's membership in the track selection.
func (s *Selection) ToggleTrack(id string) {
	if _, ok := s.tracks[id]; ok {
		delete(s.tracks, id)
		return
	}
	s.tracks[id] = struct{}{}
}

// SelectAll selects every clip in the project. Track selection is
// untouched.
func (s *Selection) SelectAll(p *Project) {
	s.clips = make(map[string]struct{}, p.ClipCount())
	for _, track := range p.Tracks {
		for _, clip := range track.Clips {
			s.clips[clip.ID] = struct{}{}
		}
	}
}

// Clear deselects all clips and tracks. The clipboard is untouched.
func (s *Selection) Clear() {
	s.clips = make(map[string]struct{})
	s.tracks = make(map[string]struct{})
}

// ClipSelected reports whether the clip id is selected.
func (s *Selection) ClipSelected(id string) bool {
	_, ok := s.clips[id]
	return ok
}

// TrackSelected reports whether the track id is selected.
func (s *Selection) TrackSelected(id string) bool {
	_, ok := s.tracks[id]
	return ok
}

// ClipIDs returns the selected clip ids in sorted order.
func (s *Selection) ClipIDs() []string {
	ids := make([]string, 0, len(s.clips))
	for id := range s.clips {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TrackIDs returns the selected track ids in sorted order.
func (s *Selection) TrackIDs() []string {
	ids := make([]string, 0, len(s.tracks))
	for id := range s.tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClipCount returns the number of selected clips.
func (s *Selection) ClipCount() int { return len(s.clips) }

// ClipboardLen returns the number of clips on the clipboard.
func (s *Selection) ClipboardLen() int { return len(s.clipboard) }

// Copy snapshots the selected clips by value onto the clipboard,
// discarding any prior clipboard contents. Clipboard order follows
// project track/clip order so Paste is deterministic.
func (s *Selection) Copy(p *Project) error {
	if len(s.clips) == 0 {
		return ErrEmptySelection
	}

	s.clipboard = nil
	for _, track := range p.Tracks {
		for _, clip := range track.Clips {
			if _, ok := s.clips[clip.ID]; ok {
				s.clipboard = append(s.clipboard, clip.Clone())
			}
		}
	}
	return nil
}

// Paste materializes the clipboard at the playhead: each clipboard
// clip becomes a new clip with a fresh id, start time at the playhead,
// and selected set. Clips land on the first selected track, or the
// project's first track when none is selected. Afterwards the clip
// selection is exactly the pasted ids.
//
// Returns the pasted clips. The clipboard is left intact for repeated
// pastes.
func (s *Selection) Paste(p *Project, playhead float64) ([]*Clip, error) {
	if len(s.clipboard) == 0 {
		return nil, ErrEmptyClipboard
	}

	target := s.pasteTarget(p)
	if target == nil {
		return nil, ErrNoTrack
	}

	pasted := make([]*Clip, 0, len(s.clipboard))
	s.clips = make(map[string]struct{}, len(s.clipboard))
	for _, src := range s.clipboard {
		clip := src.Clone()
		clip.ID = uuid.NewString()
		clip.Start = playhead
		clip.Selected = true
		target.Clips = append(target.Clips, clip)
		pasted = append(pasted, clip)
		s.clips[clip.ID] = struct{}{}
	}
	return pasted, nil
}

// pasteTarget returns the first selected track in project order, or
// the first track when none is selected.
func (s *Selection) pasteTarget(p *Project) *Track {
	for _, track := range p.Tracks {
		if _, ok := s.tracks[track.ID]; ok {
			return track
		}
	}
	if len(p.Tracks) > 0 {
		return p.Tracks[0]
	}
	return nil
}

// RemovedClip records a clip deleted from a track, with enough
// position information to reinsert it.
type RemovedClip struct {
	TrackID string
	Index   int
	Clip    *Clip
}

// DeleteSelected removes every selected clip from every track, then
// clears the clip selection. The removed clips are returned in
// track/clip scan order with their original indices, so restoring them
// in the same order reproduces the original layout.
func (s *Selection) DeleteSelected(p *Project) ([]RemovedClip, error) {
	if len(s.clips) == 0 {
		return nil, ErrEmptySelection
	}

	var removed []RemovedClip
	for _, track := range p.Tracks {
		kept := track.Clips[:0]
		for i, clip := range track.Clips {
			if _, ok := s.clips[clip.ID]; ok {
				removed = append(removed, RemovedClip{TrackID: track.ID, Index: i, Clip: clip})
				continue
			}
			kept = append(kept, clip)
		}
		track.Clips = kept
	}
	s.clips = make(map[string]struct{})

	if len(removed) == 0 {
		return nil, fmt.Errorf("%w: selected clips no longer exist", ErrEmptySelection)
	}
	return removed, nil
}

// Restore reinserts previously removed clips at their recorded
// positions and reselects them. Entries must be in the order
// DeleteSelected returned them.
func (s *Selection) Restore(p *Project, removed []RemovedClip) error {
	for _, r := range removed {
		if err := p.InsertClip(r.TrackID, r.Index, r.Clip); err != nil {
			return err
		}
		s.clips[r.Clip.ID] = struct{}{}
	}
	return nil
}
