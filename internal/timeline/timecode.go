package timeline

import (
	"fmt"
	"math"
)

// FormatTimecode renders seconds as "MM:SS:FF", where FF is the whole
// frames elapsed within the current second at the given rate. Fields
// are zero-padded to two digits and widen past 99 rather than clamp,
// so minute values over an hour and frame counts at fps > 99 stay
// exact. Negative inputs render as zero.
func FormatTimecode(seconds float64, fps int) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if fps < 0 {
		fps = 0
	}

	whole := int(seconds)
	mins := whole / 60
	secs := whole % 60
	frames := int(math.Floor((seconds - float64(whole)) * float64(fps)))

	return fmt.Sprintf("%02d:%02d:%02d", mins, secs, frames)
}

// FrameForTime converts a time in seconds to an absolute frame number
// at the given rate.
func FrameForTime(seconds float64, fps int) int {
	if seconds < 0 || fps <= 0 {
		return 0
	}
	return int(math.Floor(seconds * float64(fps)))
}

// TimeForFrame converts an absolute frame number to seconds.
func TimeForFrame(frame, fps int) float64 {
	if frame < 0 || fps <= 0 {
		return 0
	}
	return float64(frame) / float64(fps)
}
