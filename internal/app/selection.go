package app

import (
	"context"

	"github.com/dshills/cutroom/internal/event/events"
	"github.com/dshills/cutroom/internal/timeline"
)

// SelectClip selects one clip: a plain select replaces the whole
// selection, an additive select toggles the clip's membership.
func (e *Editor) SelectClip(ctx context.Context, clipID string, additive bool) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	if additive {
		e.selection.ToggleClip(clipID)
	} else {
		e.selection.ReplaceClip(clipID)
	}
	e.mu.Unlock()

	e.emitSelection(ctx)
	return nil
}

// SelectTrack selects one track, replacing or toggling like
// SelectClip. Track selection is independent of clip selection.
func (e *Editor) SelectTrack(ctx context.Context, trackID string, additive bool) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	if additive {
		e.selection.ToggleTrack(trackID)
	} else {
		e.selection.ReplaceTrack(trackID)
	}
	e.mu.Unlock()

	e.emitSelection(ctx)
	return nil
}

// SelectAll selects every clip in the project.
func (e *Editor) SelectAll(ctx context.Context) error {
	e.mu.Lock()
	if e.project == nil {
		e.mu.Unlock()
		return ErrNoProject
	}
	e.selection.SelectAll(e.project)
	e.mu.Unlock()

	e.emitSelection(ctx)
	return nil
}

// ClearSelection deselects all clips and tracks.
func (e *Editor) ClearSelection(ctx context.Context) {
	e.mu.Lock()
	e.selection.Clear()
	e.mu.Unlock()
	e.emitSelection(ctx)
}

// Copy snapshots the selected clips onto the clipboard.
func (e *Editor) Copy() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.project == nil {
		return ErrNoProject
	}
	return e.selection.Copy(e.project)
}

// Paste materializes the clipboard at the playhead as an undoable
// edit. The selection becomes exactly the pasted clips.
func (e *Editor) Paste(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	p := e.project
	pb := e.playback
	e.mu.Unlock()
	if p == nil {
		return nil, ErrNoProject
	}

	at := pb.Time()
	cmd := &timeline.PasteCommand{Project: p, Selection: e.selection, At: at}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return nil, err
	}

	ids := cmd.PastedIDs()
	var trackID string
	if len(ids) > 0 {
		if track, _, ok := p.FindClip(ids[0]); ok {
			trackID = track.ID
		}
	}
	e.emit(ctx, events.TopicClipsPasted, events.ClipsPasted{
		TrackID: trackID,
		ClipIDs: ids,
		At:      at,
	})
	e.emitSelection(ctx)
	e.notifyHistory(ctx)
	return ids, nil
}

// DeleteSelected removes every selected clip as one undoable edit.
func (e *Editor) DeleteSelected(ctx context.Context) error {
	e.mu.Lock()
	p := e.project
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	cmd := &timeline.DeleteSelectedCommand{Project: p, Selection: e.selection}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	e.emitSelection(ctx)
	e.notifyHistory(ctx)
	return nil
}

func (e *Editor) emitSelection(ctx context.Context) {
	e.emit(ctx, events.TopicSelectionChanged, events.SelectionChanged{
		ClipIDs:  e.selection.ClipIDs(),
		TrackIDs: e.selection.TrackIDs(),
	})
}
