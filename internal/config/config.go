// Package config loads and persists editor settings as a JSON
// document. A missing file yields defaults; unknown fields in the file
// are preserved on save so forward-compatible settings survive a
// round trip through an older build.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Defaults.
const (
	DefaultMaxHistory      = 100
	DefaultEventQueueSize  = 1000
	DefaultFPS             = 30
	DefaultProjectDuration = 60.0
	DefaultPreviewQuality  = "medium"
	DefaultRenderQuality   = "high"
)

// ErrBadSettings is returned for a settings file that is not valid
// JSON.
var ErrBadSettings = errors.New("settings file is not valid JSON")

// Settings holds editor preferences.
type Settings struct {
	MaxHistory      int
	EventQueueSize  int
	Autosave        bool
	SnapToGrid      bool
	PreviewQuality  string
	RenderQuality   string
	DefaultFPS      int
	DefaultDuration float64
	LogLevel        string

	// raw preserves the loaded document so fields this build does not
	// know about survive Save.
	raw []byte
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		MaxHistory:      DefaultMaxHistory,
		EventQueueSize:  DefaultEventQueueSize,
		Autosave:        true,
		SnapToGrid:      true,
		PreviewQuality:  DefaultPreviewQuality,
		RenderQuality:   DefaultRenderQuality,
		DefaultFPS:      DefaultFPS,
		DefaultDuration: DefaultProjectDuration,
		LogLevel:        "info",
	}
}

// Load reads settings from path, layering the file's values over the
// defaults. A missing file is not an error; it returns the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s", ErrBadSettings, path)
	}
	s.raw = data

	if v := gjson.GetBytes(data, "history.maxSize"); v.Exists() && v.Int() > 0 {
		s.MaxHistory = int(v.Int())
	}
	if v := gjson.GetBytes(data, "events.queueSize"); v.Exists() && v.Int() > 0 {
		s.EventQueueSize = int(v.Int())
	}
	if v := gjson.GetBytes(data, "editor.autosave"); v.Exists() {
		s.Autosave = v.Bool()
	}
	if v := gjson.GetBytes(data, "editor.snapToGrid"); v.Exists() {
		s.SnapToGrid = v.Bool()
	}
	if v := gjson.GetBytes(data, "quality.preview"); v.Exists() {
		s.PreviewQuality = v.String()
	}
	if v := gjson.GetBytes(data, "quality.render"); v.Exists() {
		s.RenderQuality = v.String()
	}
	if v := gjson.GetBytes(data, "project.fps"); v.Exists() && v.Int() > 0 {
		s.DefaultFPS = int(v.Int())
	}
	if v := gjson.GetBytes(data, "project.duration"); v.Exists() && v.Float() > 0 {
		s.DefaultDuration = v.Float()
	}
	if v := gjson.GetBytes(data, "log.level"); v.Exists() {
		s.LogLevel = v.String()
	}
	return s, nil
}

// Save writes the settings to path, creating parent directories as
// needed. Fields from the originally loaded document that this build
// does not model are preserved.
func (s *Settings) Save(path string) error {
	doc := s.raw
	if len(doc) == 0 {
		doc = []byte("{}")
	}

	var err error
	for _, field := range []struct {
		path  string
		value any
	}{
		{"history.maxSize", s.MaxHistory},
		{"events.queueSize", s.EventQueueSize},
		{"editor.autosave", s.Autosave},
		{"editor.snapToGrid", s.SnapToGrid},
		{"quality.preview", s.PreviewQuality},
		{"quality.render", s.RenderQuality},
		{"project.fps", s.DefaultFPS},
		{"project.duration", s.DefaultDuration},
		{"log.level", s.LogLevel},
	} {
		doc, err = sjson.SetBytes(doc, field.path, field.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", field.path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
