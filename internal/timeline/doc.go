// Package timeline holds the editor's project model and the domain
// operations over it: clip editing (split, trim, move), selection and
// clipboard semantics, the playback state machine, timecode
// arithmetic, and JSON persistence.
//
// The model is Project > Track > Clip. Clip times are absolute project
// seconds; the trim window [TrimStart, TrimEnd] selects the source
// material actually played. Clips on a track may overlap, and track
// order is insertion order.
//
// Operations come in two flavors: direct mutators on Project and
// Selection, and undoable command wrappers in commands.go that
// implement the history.Command interface with exact inverses. Edit
// preconditions fail with sentinel errors (ErrInvalidSplitPosition,
// ErrEmptyClipboard, ...), never panics; the caller turns them into
// user messaging.
package timeline
