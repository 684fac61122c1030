package timeline

import (
	"context"
	"fmt"

	"github.com/dshills/cutroom/internal/history"
)

// Undoable edit commands over the project model. Each command captures
// exactly the state its Undo needs during Execute, so undo restores
// the model byte for byte. Commands are single-use: re-executing after
// undo (redo) replays the captured state rather than recomputing it.

// AddClipCommand appends a clip to a track.
type AddClipCommand struct {
	Project *Project
	TrackID string
	Clip    *Clip
}

var _ history.Command = (*AddClipCommand)(nil)

// Execute appends the clip.
func (c *AddClipCommand) Execute(ctx context.Context) error {
	return c.Project.AddClip(c.TrackID, c.Clip)
}

// Undo removes the clip again.
func (c *AddClipCommand) Undo(ctx context.Context) error {
	_, _, _, err := c.Project.RemoveClip(c.Clip.ID)
	return err
}

// CanExecute requires the target track to exist.
func (c *AddClipCommand) CanExecute() bool {
	if c.Project == nil || c.Clip == nil {
		return false
	}
	_, ok := c.Project.Track(c.TrackID)
	return ok
}

// CanUndo reports whether the clip is present to remove.
func (c *AddClipCommand) CanUndo() bool {
	_, _, ok := c.Project.FindClip(c.Clip.ID)
	return ok
}

func (c *AddClipCommand) Type() string { return "clip.add" }

func (c *AddClipCommand) Description() string {
	return fmt.Sprintf("Add clip %q", c.Clip.Name)
}

// RemoveClipCommand detaches a clip from its track.
type RemoveClipCommand struct {
	Project *Project
	ClipID  string

	removed *Clip
	trackID string
	index   int
}

var _ history.Command = (*RemoveClipCommand)(nil)

// Execute removes the clip, remembering its position.
func (c *RemoveClipCommand) Execute(ctx context.Context) error {
	clip, trackID, i, err := c.Project.RemoveClip(c.ClipID)
	if err != nil {
		return err
	}
	c.removed, c.trackID, c.index = clip, trackID, i
	return nil
}

// Undo reinserts the clip where it was.
func (c *RemoveClipCommand) Undo(ctx context.Context) error {
	return c.Project.InsertClip(c.trackID, c.index, c.removed)
}

// CanExecute requires the clip to exist.
func (c *RemoveClipCommand) CanExecute() bool {
	if c.Project == nil {
		return false
	}
	_, _, ok := c.Project.FindClip(c.ClipID)
	return ok
}

// CanUndo reports whether removal state was captured.
func (c *RemoveClipCommand) CanUndo() bool { return c.removed != nil }

func (c *RemoveClipCommand) Type() string { return "clip.remove" }

func (c *RemoveClipCommand) Description() string {
	return "Remove clip"
}

// MoveClipCommand retimes a clip's start.
type MoveClipCommand struct {
	Project *Project
	ClipID  string
	Start   float64

	prev float64
}

var _ history.Command = (*MoveClipCommand)(nil)

// Execute moves the clip, remembering the old start.
func (c *MoveClipCommand) Execute(ctx context.Context) error {
	_, clip, ok := c.Project.FindClip(c.ClipID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, c.ClipID)
	}
	c.prev = clip.Start
	return c.Project.MoveClip(c.ClipID, c.Start)
}

// Undo moves the clip back.
func (c *MoveClipCommand) Undo(ctx context.Context) error {
	return c.Project.MoveClip(c.ClipID, c.prev)
}

// CanExecute requires the clip to exist.
func (c *MoveClipCommand) CanExecute() bool {
	if c.Project == nil {
		return false
	}
	_, _, ok := c.Project.FindClip(c.ClipID)
	return ok
}

func (c *MoveClipCommand) CanUndo() bool { return true }

func (c *MoveClipCommand) Type() string { return "clip.move" }

func (c *MoveClipCommand) Description() string {
	return fmt.Sprintf("Move clip to %.2fs", c.Start)
}

// TrimClipCommand adjusts a clip's source window.
type TrimClipCommand struct {
	Project   *Project
	ClipID    string
	TrimStart float64
	TrimEnd   float64

	prevStart    float64
	prevEnd      float64
	prevDuration float64
}

var _ history.Command = (*TrimClipCommand)(nil)

// Execute applies the trim, remembering the old window and duration.
func (c *TrimClipCommand) Execute(ctx context.Context) error {
	_, clip, ok := c.Project.FindClip(c.ClipID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, c.ClipID)
	}
	c.prevStart, c.prevEnd, c.prevDuration = clip.TrimStart, clip.TrimEnd, clip.Duration
	return c.Project.TrimClip(c.ClipID, c.TrimStart, c.TrimEnd)
}

// Undo restores the old window exactly.
func (c *TrimClipCommand) Undo(ctx context.Context) error {
	_, clip, ok := c.Project.FindClip(c.ClipID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, c.ClipID)
	}
	clip.TrimStart = c.prevStart
	clip.TrimEnd = c.prevEnd
	clip.Duration = c.prevDuration
	return nil
}

// CanExecute requires the clip to exist and the window to be valid.
func (c *TrimClipCommand) CanExecute() bool {
	if c.Project == nil || c.TrimStart < 0 || c.TrimEnd <= c.TrimStart {
		return false
	}
	_, _, ok := c.Project.FindClip(c.ClipID)
	return ok
}

func (c *TrimClipCommand) CanUndo() bool { return true }

func (c *TrimClipCommand) Type() string { return "clip.trim" }

func (c *TrimClipCommand) Description() string {
	return fmt.Sprintf("Trim clip to [%.2f, %.2f]", c.TrimStart, c.TrimEnd)
}

// SplitClipCommand splits the clip under the playhead in two.
type SplitClipCommand struct {
	Project *Project
	At      float64

	leftID       string
	right        *Clip
	prevDuration float64
	prevTrimEnd  float64
}

var _ history.Command = (*SplitClipCommand)(nil)

// Execute performs the split, remembering the left half's original
// shape and the created right half.
func (c *SplitClipCommand) Execute(ctx context.Context) error {
	// Redo path: the split was undone, replay the captured halves.
	if c.right != nil {
		track, left, ok := c.Project.FindClip(c.leftID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrClipNotFound, c.leftID)
		}
		left.Duration = c.At - left.Start
		left.TrimEnd = left.TrimStart + left.Duration
		track.insertAfter(left.ID, c.right)
		return nil
	}

	_, clip := c.Project.clipAt(c.At)
	if clip == nil {
		return fmt.Errorf("%w: no clip strictly contains %.3fs", ErrInvalidSplitPosition, c.At)
	}
	c.leftID = clip.ID
	c.prevDuration = clip.Duration
	c.prevTrimEnd = clip.TrimEnd

	_, right, err := c.Project.SplitAt(c.At)
	if err != nil {
		return err
	}
	c.right = right
	return nil
}

// Undo removes the right half and restores the left half's span.
func (c *SplitClipCommand) Undo(ctx context.Context) error {
	if _, _, _, err := c.Project.RemoveClip(c.right.ID); err != nil {
		return err
	}
	_, left, ok := c.Project.FindClip(c.leftID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, c.leftID)
	}
	left.Duration = c.prevDuration
	left.TrimEnd = c.prevTrimEnd
	return nil
}

// CanExecute requires a clip strictly containing the split time.
func (c *SplitClipCommand) CanExecute() bool {
	if c.Project == nil {
		return false
	}
	if c.right != nil {
		_, _, ok := c.Project.FindClip(c.leftID)
		return ok
	}
	_, clip := c.Project.clipAt(c.At)
	return clip != nil
}

// CanUndo reports whether the split halves were captured.
func (c *SplitClipCommand) CanUndo() bool { return c.right != nil }

func (c *SplitClipCommand) Type() string { return "clip.split" }

func (c *SplitClipCommand) Description() string {
	return fmt.Sprintf("Split clip at %.2fs", c.At)
}

// RightID returns the id of the clip created by the split, once
// executed.
func (c *SplitClipCommand) RightID() string {
	if c.right == nil {
		return ""
	}
	return c.right.ID
}

// LeftID returns the id of the clip that was split, once executed.
func (c *SplitClipCommand) LeftID() string { return c.leftID }

// PasteCommand pastes the clipboard at the playhead.
type PasteCommand struct {
	Project   *Project
	Selection *Selection
	At        float64

	pasted   []*Clip
	targetID string
	prevSel  []string
}

var _ history.Command = (*PasteCommand)(nil)

// Execute pastes, remembering the pasted clips, the target track, and
// the prior selection.
func (c *PasteCommand) Execute(ctx context.Context) error {
	// Redo path: reinsert the same clips into the same track so ids
	// stay stable.
	if c.pasted != nil {
		target, ok := c.Project.Track(c.targetID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrTrackNotFound, c.targetID)
		}
		c.Selection.clips = make(map[string]struct{}, len(c.pasted))
		for _, clip := range c.pasted {
			target.Clips = append(target.Clips, clip)
			c.Selection.clips[clip.ID] = struct{}{}
		}
		return nil
	}

	c.prevSel = c.Selection.ClipIDs()
	target := c.Selection.pasteTarget(c.Project)
	pasted, err := c.Selection.Paste(c.Project, c.At)
	if err != nil {
		return err
	}
	c.pasted = pasted
	c.targetID = target.ID
	return nil
}

// Undo removes the pasted clips and restores the prior selection.
func (c *PasteCommand) Undo(ctx context.Context) error {
	for _, clip := range c.pasted {
		if _, _, _, err := c.Project.RemoveClip(clip.ID); err != nil {
			return err
		}
	}
	c.Selection.clips = make(map[string]struct{}, len(c.prevSel))
	for _, id := range c.prevSel {
		c.Selection.clips[id] = struct{}{}
	}
	return nil
}

// CanExecute requires a non-empty clipboard and a target track.
func (c *PasteCommand) CanExecute() bool {
	if c.Project == nil || c.Selection == nil {
		return false
	}
	if c.pasted != nil {
		return c.Selection.pasteTarget(c.Project) != nil
	}
	return c.Selection.ClipboardLen() > 0 && c.Selection.pasteTarget(c.Project) != nil
}

// CanUndo reports whether a paste was captured.
func (c *PasteCommand) CanUndo() bool { return c.pasted != nil }

func (c *PasteCommand) Type() string { return "clipboard.paste" }

func (c *PasteCommand) Description() string {
	return fmt.Sprintf("Paste at %.2fs", c.At)
}

// PastedIDs returns the ids of the pasted clips, once executed.
func (c *PasteCommand) PastedIDs() []string {
	ids := make([]string, len(c.pasted))
	for i, clip := range c.pasted {
		ids[i] = clip.ID
	}
	return ids
}

// DeleteSelectedCommand removes every selected clip.
type DeleteSelectedCommand struct {
	Project   *Project
	Selection *Selection

	removed []RemovedClip
	prevSel []string
}

var _ history.Command = (*DeleteSelectedCommand)(nil)

// Execute deletes the selected clips, remembering them with their
// positions.
func (c *DeleteSelectedCommand) Execute(ctx context.Context) error {
	// Redo path: the same clips were restored by Undo; delete them
	// again by reselecting them first.
	if c.removed != nil {
		c.Selection.clips = make(map[string]struct{}, len(c.removed))
		for _, r := range c.removed {
			c.Selection.clips[r.Clip.ID] = struct{}{}
		}
	} else {
		c.prevSel = c.Selection.ClipIDs()
	}

	removed, err := c.Selection.DeleteSelected(c.Project)
	if err != nil {
		return err
	}
	c.removed = removed
	return nil
}

// Undo restores the removed clips at their original positions and the
// selection that preceded the delete.
func (c *DeleteSelectedCommand) Undo(ctx context.Context) error {
	if err := c.Selection.Restore(c.Project, c.removed); err != nil {
		return err
	}
	c.Selection.clips = make(map[string]struct{}, len(c.prevSel))
	for _, id := range c.prevSel {
		c.Selection.clips[id] = struct{}{}
	}
	return nil
}

// CanExecute requires a non-empty selection (or captured redo state).
func (c *DeleteSelectedCommand) CanExecute() bool {
	if c.Project == nil || c.Selection == nil {
		return false
	}
	return c.removed != nil || c.Selection.ClipCount() > 0
}

// CanUndo reports whether the delete was captured.
func (c *DeleteSelectedCommand) CanUndo() bool { return c.removed != nil }

func (c *DeleteSelectedCommand) Type() string { return "clipboard.delete" }

func (c *DeleteSelectedCommand) Description() string {
	return "Delete selected clips"
}
