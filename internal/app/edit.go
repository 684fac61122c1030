package app

import (
	"context"
	"errors"

	"github.com/dshills/cutroom/internal/event/events"
	"github.com/dshills/cutroom/internal/history"
	"github.com/dshills/cutroom/internal/timeline"
)

// AddClip appends a clip to a track as an undoable edit.
func (e *Editor) AddClip(ctx context.Context, trackID string, clip *timeline.Clip) error {
	e.mu.Lock()
	p := e.project
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	cmd := &timeline.AddClipCommand{Project: p, TrackID: trackID, Clip: clip}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	e.emit(ctx, events.TopicClipAdded, events.ClipAdded{
		TrackID:   trackID,
		ClipID:    clip.ID,
		StartTime: clip.Start,
		Duration:  clip.Duration,
	})
	e.notifyHistory(ctx)
	return nil
}

// RemoveClip detaches a clip as an undoable edit.
func (e *Editor) RemoveClip(ctx context.Context, clipID string) error {
	e.mu.Lock()
	p := e.project
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	track, _, ok := p.FindClip(clipID)
	if !ok {
		return timeline.ErrClipNotFound
	}
	cmd := &timeline.RemoveClipCommand{Project: p, ClipID: clipID}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	e.emit(ctx, events.TopicClipRemoved, events.ClipRemoved{
		TrackID: track.ID,
		ClipID:  clipID,
	})
	e.notifyHistory(ctx)
	return nil
}

// MoveClip retimes a clip as an undoable edit.
func (e *Editor) MoveClip(ctx context.Context, clipID string, start float64) error {
	e.mu.Lock()
	p := e.project
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	track, clip, ok := p.FindClip(clipID)
	if !ok {
		return timeline.ErrClipNotFound
	}
	oldStart := clip.Start

	cmd := &timeline.MoveClipCommand{Project: p, ClipID: clipID, Start: start}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	e.emit(ctx, events.TopicClipMoved, events.ClipMoved{
		TrackID:  track.ID,
		ClipID:   clipID,
		OldStart: oldStart,
		NewStart: clip.Start,
	})
	e.notifyHistory(ctx)
	return nil
}

// TrimClip adjusts a clip's source window as an undoable edit.
func (e *Editor) TrimClip(ctx context.Context, clipID string, trimStart, trimEnd float64) error {
	e.mu.Lock()
	p := e.project
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	track, _, ok := p.FindClip(clipID)
	if !ok {
		return timeline.ErrClipNotFound
	}
	cmd := &timeline.TrimClipCommand{Project: p, ClipID: clipID, TrimStart: trimStart, TrimEnd: trimEnd}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	e.emit(ctx, events.TopicClipTrimmed, events.ClipTrimmed{
		TrackID:   track.ID,
		ClipID:    clipID,
		TrimStart: trimStart,
		TrimEnd:   trimEnd,
	})
	e.notifyHistory(ctx)
	return nil
}

// SplitAtPlayhead splits the clip under the playhead as an undoable
// edit. Splitting exactly at a clip boundary is rejected.
func (e *Editor) SplitAtPlayhead(ctx context.Context) error {
	e.mu.Lock()
	p := e.project
	pb := e.playback
	e.mu.Unlock()
	if p == nil {
		return ErrNoProject
	}

	at := pb.Time()
	cmd := &timeline.SplitClipCommand{Project: p, At: at}
	if err := e.history.Execute(ctx, cmd); err != nil {
		return err
	}

	var trackID string
	if track, _, ok := p.FindClip(cmd.LeftID()); ok {
		trackID = track.ID
	}
	e.emit(ctx, events.TopicClipSplit, events.ClipSplit{
		TrackID: trackID,
		LeftID:  cmd.LeftID(),
		RightID: cmd.RightID(),
		At:      at,
	})
	e.notifyHistory(ctx)
	return nil
}

// Undo reverses the most recent edit. At the start of history it
// returns false with no error.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	err := e.history.Undo(ctx)
	if errors.Is(err, history.ErrNothingToUndo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.notifyHistory(ctx)
	return true, nil
}

// Redo re-applies the most recently undone edit. At the end of history
// it returns false with no error.
func (e *Editor) Redo(ctx context.Context) (bool, error) {
	err := e.history.Redo(ctx)
	if errors.Is(err, history.ErrNothingToRedo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	e.notifyHistory(ctx)
	return true, nil
}

// BeginBatch starts grouping subsequent edits into one undo step.
func (e *Editor) BeginBatch() error {
	return e.history.StartBatch()
}

// CommitBatch closes the current batch under the given label.
func (e *Editor) CommitBatch(ctx context.Context, description string) error {
	if err := e.history.CommitBatch(description); err != nil {
		return err
	}
	e.notifyHistory(ctx)
	return nil
}

// CancelBatch abandons the current batch. Edits that already ran
// inside it are rolled back in reverse order.
func (e *Editor) CancelBatch(ctx context.Context) error {
	cancelled, err := e.history.CancelBatch()
	if err != nil {
		return err
	}
	for i := len(cancelled) - 1; i >= 0; i-- {
		if cancelled[i].CanUndo() {
			if err := cancelled[i].Undo(ctx); err != nil {
				e.log.Warn("batch rollback failed",
					"type", cancelled[i].Type(),
					"error", err)
			}
		}
	}
	return nil
}
