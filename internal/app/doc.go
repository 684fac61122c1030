// Package app wires the editor together: one Editor owns the event
// bus, the undo history, and the open project with its playback and
// selection state.
//
// Every user-facing operation is an Editor method that routes the
// mutation through the history manager and then publishes the
// corresponding event on the bus, so UI panels re-render by
// subscription instead of by direct reference. Undoable edits go
// through timeline command objects; transient state changes (seek,
// selection, playback transport) mutate directly and only publish.
//
// Key-binding and rendering concerns stay in the UI host; these
// methods are the domain contracts it calls.
package app
