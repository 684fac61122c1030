package timeline

import "testing"

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     int
		want    string
	}{
		{"zero", 0, 30, "00:00:00"},
		{"reference", 125.5, 30, "02:05:15"},
		{"whole second", 61, 30, "01:01:00"},
		{"just under a second", 0.999, 30, "00:00:29"},
		{"negative clamps", -4, 30, "00:00:00"},
		{"24fps", 10.5, 24, "00:10:12"},
		{"frame field widens past 99", 1.9, 120, "00:01:108"},
		{"minutes widen past 99", 6001, 30, "100:01:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimecode(tt.seconds, tt.fps); got != tt.want {
				t.Errorf("FormatTimecode(%v, %d) = %q, want %q", tt.seconds, tt.fps, got, tt.want)
			}
		})
	}
}

func TestFrameTimeRoundTrip(t *testing.T) {
	if got := FrameForTime(2.5, 30); got != 75 {
		t.Errorf("FrameForTime(2.5, 30) = %d, want 75", got)
	}
	if got := TimeForFrame(75, 30); got != 2.5 {
		t.Errorf("TimeForFrame(75, 30) = %v, want 2.5", got)
	}
	if got := FrameForTime(-1, 30); got != 0 {
		t.Errorf("FrameForTime(-1, 30) = %d, want 0", got)
	}
}
