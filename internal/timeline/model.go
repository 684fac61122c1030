package timeline

import (
	"github.com/google/uuid"
)

// TrackType categorizes a track's editing lane.
type TrackType string

// Track types.
const (
	TrackVideo   TrackType = "video"
	TrackAudio   TrackType = "audio"
	TrackText    TrackType = "text"
	TrackEffects TrackType = "effects"
	TrackOverlay TrackType = "overlay"
)

// ClipType categorizes the media a clip carries.
type ClipType string

// Clip types.
const (
	ClipVideo  ClipType = "video"
	ClipAudio  ClipType = "audio"
	ClipImage  ClipType = "image"
	ClipText   ClipType = "text"
	ClipShape  ClipType = "shape"
	ClipAvatar ClipType = "avatar"
)

// Quality selects a preview or render fidelity level.
type Quality string

// Quality levels.
const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityUltra  Quality = "ultra"
)

// Resolution is an output frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Settings holds per-project editor preferences.
type Settings struct {
	Autosave       bool    `json:"autosave"`
	SnapToGrid     bool    `json:"snapToGrid"`
	PreviewQuality Quality `json:"previewQuality"`
	RenderQuality  Quality `json:"renderQuality"`
}

// Project is the root aggregate: an ordered set of tracks plus the
// assets they reference. Duration is not reconciled against clip end
// times automatically; callers extend it as they edit.
type Project struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Duration   float64    `json:"duration"`
	FPS        int        `json:"fps"`
	Resolution Resolution `json:"resolution"`
	Tracks     []*Track   `json:"tracks"`
	Assets     []*Asset   `json:"assets,omitempty"`
	Settings   Settings   `json:"settings"`
}

// Track is an ordered lane of clips of a common category. Clips may
// overlap in time; slice order is insertion order, not temporal order.
type Track struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    TrackType `json:"type"`
	Visible bool      `json:"visible"`
	Locked  bool      `json:"locked"`
	Clips   []*Clip   `json:"clips"`
	Effects []*Effect `json:"effects,omitempty"`
}

// Clip is a single timed element placed on a track. Start is absolute
// project time in seconds; TrimStart/TrimEnd delimit the window of
// source material actually played, so Start+Duration is the clip's end
// on the timeline and TrimEnd-TrimStart is the source consumed at
// speed 1.
type Clip struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      ClipType `json:"type"`
	AssetID   string   `json:"assetId,omitempty"`
	Start     float64  `json:"startTime"`
	Duration  float64  `json:"duration"`
	TrimStart float64  `json:"trimStart"`
	TrimEnd   float64  `json:"trimEnd"`
	Speed     float64  `json:"speed"`
	Volume    float64  `json:"volume"`
	Opacity   float64  `json:"opacity"`
	Visible   bool     `json:"visible"`
	Locked    bool     `json:"locked"`
	Selected  bool     `json:"selected,omitempty"`

	Properties  ClipProperties `json:"properties"`
	Transitions []Transition   `json:"transitions,omitempty"`
	Keyframes   []Keyframe     `json:"keyframes,omitempty"`
}

// ClipProperties holds the visual placement fields common to all clip
// types, with Extra as an open extension map for custom fields.
type ClipProperties struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	ScaleX    float64 `json:"scaleX"`
	ScaleY    float64 `json:"scaleY"`
	BlendMode string  `json:"blendMode,omitempty"`

	Filters []string       `json:"filters,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Transition is an in/out transition attached to a clip edge.
type Transition struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Edge     string  `json:"edge"`
	Duration float64 `json:"duration"`
}

// Keyframe is an animated property sample on a clip's local timeline.
type Keyframe struct {
	Time     float64 `json:"time"`
	Property string  `json:"property"`
	Value    float64 `json:"value"`
	Easing   string  `json:"easing,omitempty"`
}

// Asset is an imported media source referenced by clips.
type Asset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Type     ClipType `json:"type"`
	Duration float64 `json:"duration,omitempty"`
}

// Effect is a track-level effect with typed parameters plus an open
// extension map.
type Effect struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Enabled    bool               `json:"enabled"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Extra      map[string]any     `json:"extra,omitempty"`
}

// NewProject creates an empty project with sensible defaults.
func NewProject(name string) *Project {
	return &Project{
		ID:         uuid.NewString(),
		Name:       name,
		Duration:   60,
		FPS:        30,
		Resolution: Resolution{Width: 1920, Height: 1080},
		Settings: Settings{
			Autosave:       true,
			SnapToGrid:     true,
			PreviewQuality: QualityMedium,
			RenderQuality:  QualityHigh,
		},
	}
}

// NewTrack creates an empty, visible, unlocked track.
func NewTrack(name string, kind TrackType) *Track {
	return &Track{
		ID:      uuid.NewString(),
		Name:    name,
		Type:    kind,
		Visible: true,
	}
}

// NewClip creates a clip spanning [start, start+duration) with a trim
// window covering the same amount of source.
func NewClip(name string, kind ClipType, start, duration float64) *Clip {
	return &Clip{
		ID:       uuid.NewString(),
		Name:     name,
		Type:     kind,
		Start:    start,
		Duration: duration,
		TrimEnd:  duration,
		Speed:    1,
		Volume:   1,
		Opacity:  1,
		Visible:  true,
		Properties: ClipProperties{
			ScaleX: 1,
			ScaleY: 1,
		},
	}
}

// End returns the clip's end time on the project timeline.
func (c *Clip) End() float64 { return c.Start + c.Duration }

// Contains reports whether t lies strictly inside the clip's span.
// Exact boundaries are outside.
func (c *Clip) Contains(t float64) bool {
	return t > c.Start && t < c.End()
}

// Clone returns a deep copy of the clip: transitions, keyframes,
// filters, and the extension map are all copied, never shared.
func (c *Clip) Clone() *Clip {
	dup := *c
	if c.Transitions != nil {
		dup.Transitions = make([]Transition, len(c.Transitions))
		copy(dup.Transitions, c.Transitions)
	}
	if c.Keyframes != nil {
		dup.Keyframes = make([]Keyframe, len(c.Keyframes))
		copy(dup.Keyframes, c.Keyframes)
	}
	if c.Properties.Filters != nil {
		dup.Properties.Filters = make([]string, len(c.Properties.Filters))
		copy(dup.Properties.Filters, c.Properties.Filters)
	}
	if c.Properties.Extra != nil {
		dup.Properties.Extra = make(map[string]any, len(c.Properties.Extra))
		for k, v := range c.Properties.Extra {
			dup.Properties.Extra[k] = v
		}
	}
	return &dup
}

// Track returns the track with the given id.
func (p *Project) Track(id string) (*Track, bool) {
	for _, t := range p.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// FindClip locates a clip by id across all tracks, returning the
// owning track as well.
func (p *Project) FindClip(id string) (*Track, *Clip, bool) {
	for _, t := range p.Tracks {
		for _, c := range t.Clips {
			if c.ID == id {
				return t, c, true
			}
		}
	}
	return nil, nil, false
}

// AddTrack appends a track to the project.
func (p *Project) AddTrack(t *Track) {
	p.Tracks = append(p.Tracks, t)
}

// ClipCount returns the total number of clips across all tracks.
func (p *Project) ClipCount() int {
	n := 0
	for _, t := range p.Tracks {
		n += len(t.Clips)
	}
	return n
}
