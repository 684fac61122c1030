package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cutroom/internal/timeline"
)

// editorModule builds the `cutroom` table binding editor operations
// into Lua. Failed operations raise Lua errors, aborting the macro so
// the engine can roll back its batch.
func (e *Engine) editorModule(ctx context.Context, L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	fns := map[string]lua.LGFunction{
		"seek": func(L *lua.LState) int {
			t, err := e.editor.Seek(ctx, float64(L.CheckNumber(1)))
			if err != nil {
				L.RaiseError("seek: %v", err)
			}
			L.Push(lua.LNumber(t))
			return 1
		},
		"play": func(L *lua.LState) int {
			if err := e.editor.Play(ctx); err != nil {
				L.RaiseError("play: %v", err)
			}
			return 0
		},
		"pause": func(L *lua.LState) int {
			if err := e.editor.Pause(ctx); err != nil {
				L.RaiseError("pause: %v", err)
			}
			return 0
		},
		"stop": func(L *lua.LState) int {
			if err := e.editor.Stop(ctx); err != nil {
				L.RaiseError("stop: %v", err)
			}
			return 0
		},
		"tick": func(L *lua.LState) int {
			t, err := e.editor.Tick(ctx)
			if err != nil {
				L.RaiseError("tick: %v", err)
			}
			L.Push(lua.LNumber(t))
			return 1
		},
		"playhead": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.editor.Playhead()))
			return 1
		},
		"timecode": func(L *lua.LState) int {
			L.Push(lua.LString(e.editor.Timecode()))
			return 1
		},
		"select_clip": func(L *lua.LState) int {
			additive := L.OptBool(2, false)
			if err := e.editor.SelectClip(ctx, L.CheckString(1), additive); err != nil {
				L.RaiseError("select_clip: %v", err)
			}
			return 0
		},
		"select_track": func(L *lua.LState) int {
			additive := L.OptBool(2, false)
			if err := e.editor.SelectTrack(ctx, L.CheckString(1), additive); err != nil {
				L.RaiseError("select_track: %v", err)
			}
			return 0
		},
		"select_all": func(L *lua.LState) int {
			if err := e.editor.SelectAll(ctx); err != nil {
				L.RaiseError("select_all: %v", err)
			}
			return 0
		},
		"clear_selection": func(L *lua.LState) int {
			e.editor.ClearSelection(ctx)
			return 0
		},
		"copy": func(L *lua.LState) int {
			if err := e.editor.Copy(); err != nil {
				L.RaiseError("copy: %v", err)
			}
			return 0
		},
		"paste": func(L *lua.LState) int {
			ids, err := e.editor.Paste(ctx)
			if err != nil {
				L.RaiseError("paste: %v", err)
			}
			out := L.NewTable()
			for _, id := range ids {
				out.Append(lua.LString(id))
			}
			L.Push(out)
			return 1
		},
		"delete_selected": func(L *lua.LState) int {
			if err := e.editor.DeleteSelected(ctx); err != nil {
				L.RaiseError("delete_selected: %v", err)
			}
			return 0
		},
		"split": func(L *lua.LState) int {
			if err := e.editor.SplitAtPlayhead(ctx); err != nil {
				L.RaiseError("split: %v", err)
			}
			return 0
		},
		"add_track": func(L *lua.LState) int {
			p := e.editor.Project()
			if p == nil {
				L.RaiseError("add_track: no project open")
			}
			track := timeline.NewTrack(L.CheckString(1), timeline.TrackType(L.CheckString(2)))
			p.AddTrack(track)
			L.Push(lua.LString(track.ID))
			return 1
		},
		"add_clip": func(L *lua.LState) int {
			clip := timeline.NewClip(
				L.CheckString(2),
				timeline.ClipType(L.CheckString(3)),
				float64(L.CheckNumber(4)),
				float64(L.CheckNumber(5)),
			)
			if err := e.editor.AddClip(ctx, L.CheckString(1), clip); err != nil {
				L.RaiseError("add_clip: %v", err)
			}
			L.Push(lua.LString(clip.ID))
			return 1
		},
		"move_clip": func(L *lua.LState) int {
			if err := e.editor.MoveClip(ctx, L.CheckString(1), float64(L.CheckNumber(2))); err != nil {
				L.RaiseError("move_clip: %v", err)
			}
			return 0
		},
		"trim_clip": func(L *lua.LState) int {
			err := e.editor.TrimClip(ctx, L.CheckString(1),
				float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
			if err != nil {
				L.RaiseError("trim_clip: %v", err)
			}
			return 0
		},
		"undo": func(L *lua.LState) int {
			done, err := e.editor.Undo(ctx)
			if err != nil {
				L.RaiseError("undo: %v", err)
			}
			L.Push(lua.LBool(done))
			return 1
		},
		"redo": func(L *lua.LState) int {
			done, err := e.editor.Redo(ctx)
			if err != nil {
				L.RaiseError("redo: %v", err)
			}
			L.Push(lua.LBool(done))
			return 1
		},
		"clip_count": func(L *lua.LState) int {
			p := e.editor.Project()
			if p == nil {
				L.Push(lua.LNumber(0))
				return 1
			}
			L.Push(lua.LNumber(p.ClipCount()))
			return 1
		},
		"tracks": func(L *lua.LState) int {
			out := L.NewTable()
			p := e.editor.Project()
			if p == nil {
				L.Push(out)
				return 1
			}
			for _, track := range p.Tracks {
				row := L.NewTable()
				L.SetField(row, "id", lua.LString(track.ID))
				L.SetField(row, "name", lua.LString(track.Name))
				L.SetField(row, "type", lua.LString(string(track.Type)))
				L.SetField(row, "clips", lua.LNumber(len(track.Clips)))
				out.Append(row)
			}
			L.Push(out)
			return 1
		},
		"clips": func(L *lua.LState) int {
			trackID := L.CheckString(1)
			out := L.NewTable()
			p := e.editor.Project()
			if p == nil {
				L.Push(out)
				return 1
			}
			track, ok := p.Track(trackID)
			if !ok {
				L.RaiseError("clips: track %s not found", trackID)
			}
			for _, clip := range track.Clips {
				row := L.NewTable()
				L.SetField(row, "id", lua.LString(clip.ID))
				L.SetField(row, "name", lua.LString(clip.Name))
				L.SetField(row, "type", lua.LString(string(clip.Type)))
				L.SetField(row, "start", lua.LNumber(clip.Start))
				L.SetField(row, "duration", lua.LNumber(clip.Duration))
				out.Append(row)
			}
			L.Push(out)
			return 1
		},
	}

	L.SetFuncs(mod, fns)
	return mod
}
