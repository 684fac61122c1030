// Package script runs Lua macros against the editor.
//
// Macros execute in a sandboxed state: os, io, require, and the code
// loaders are stripped, and each run is bounded by a best-effort
// timeout. A `cutroom` module exposes the editor's operations (seek,
// transport, selection, clipboard, clip edits, undo/redo, and
// introspection of tracks and clips).
//
// All edits a macro performs are batch-recorded, so one macro is one
// undo step. A macro that raises an error has its edits rolled back
// and reports ErrMacroFailed.
package script
