// Package events defines the event topics and payload types exchanged
// over the editor bus. Topics are hierarchical so subscribers can watch a
// whole family ("timeline.**") or a single event ("timeline.clip.split").
package events
