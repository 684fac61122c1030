// Package topic provides hierarchical event topics with wildcard matching.
//
// Topics use dot notation ("timeline.clip.added"). Subscription patterns may
// use "*" to match exactly one segment or "**" to match any number of
// segments, so "timeline.**" receives every timeline event while
// "timeline.*.added" receives additions on any timeline entity.
package topic
