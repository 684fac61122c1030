package topic

import "strings"

// Topic is a hierarchical event type using dot notation.
// Examples: "timeline.clip.added", "playback.started", "project.saved".
type Topic string

// Pattern wildcards.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split on the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Base returns the last segment of the topic.
//
// Example: "timeline.clip.added" -> "added"
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Parent returns the topic with its last segment removed,
// or an empty topic when there is no parent.
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child appends a segment to the topic.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// IsPattern reports whether the topic contains wildcard segments.
func (t Topic) IsPattern() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid reports whether the topic is well formed: non-empty, no leading,
// trailing, or doubled separators.
func (t Topic) IsValid() bool {
	s := string(t)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return false
	}
	return !strings.Contains(s, Separator+Separator)
}

// Matches reports whether the topic matches the given pattern.
// The pattern may contain wildcards: "*" matches exactly one segment,
// "**" matches zero or more segments. A pattern without wildcards
// matches only itself.
func (t Topic) Matches(pattern Topic) bool {
	if !pattern.IsPattern() {
		return t == pattern
	}
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case WildcardMulti:
			// Try consuming zero or more topic segments.
			for i := 0; i <= len(topic); i++ {
				if matchSegments(topic[i:], pattern[1:]) {
					return true
				}
			}
			return false
		case WildcardSingle:
			if len(topic) == 0 {
				return false
			}
		default:
			if len(topic) == 0 || topic[0] != pattern[0] {
				return false
			}
		}
		topic = topic[1:]
		pattern = pattern[1:]
	}
	return len(topic) == 0
}

// Join joins segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
