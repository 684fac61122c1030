package timeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p, clip := oneClipProject(t)
	clip.Keyframes = []Keyframe{{Time: 1, Property: "opacity", Value: 0.5, Easing: "linear"}}
	p.Assets = []*Asset{{ID: "a1", Name: "intro.mp4", Path: "/media/intro.mp4", Type: ClipVideo, Duration: 8}}

	path := filepath.Join(t.TempDir(), "project.json")
	if err := Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.ID != p.ID || loaded.Name != p.Name || loaded.FPS != p.FPS {
		t.Errorf("loaded project header differs: %+v", loaded)
	}
	if len(loaded.Tracks) != 1 || len(loaded.Tracks[0].Clips) != 1 {
		t.Fatalf("loaded %d tracks, want 1 with 1 clip", len(loaded.Tracks))
	}
	got := loaded.Tracks[0].Clips[0]
	if got.ID != clip.ID || got.Start != 2 || got.Duration != 8 {
		t.Errorf("loaded clip = %+v", got)
	}
	if len(got.Keyframes) != 1 || got.Keyframes[0].Easing != "linear" {
		t.Errorf("loaded keyframes = %+v", got.Keyframes)
	}
	if len(loaded.Assets) != 1 || loaded.Assets[0].Path != "/media/intro.mp4" {
		t.Errorf("loaded assets = %+v", loaded.Assets)
	}
}

func TestUnmarshal_Rejections(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); !errors.Is(err, ErrBadDocument) {
		t.Errorf("invalid JSON err = %v, want ErrBadDocument", err)
	}
	if _, err := Unmarshal([]byte(`{"project":{}}`)); !errors.Is(err, ErrBadDocument) {
		t.Errorf("missing version err = %v, want ErrBadDocument", err)
	}
	if _, err := Unmarshal([]byte(`{"version":99,"project":{}}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("future version err = %v, want ErrUnsupportedVersion", err)
	}
	if _, err := Unmarshal([]byte(`{"version":1}`)); !errors.Is(err, ErrBadDocument) {
		t.Errorf("missing project err = %v, want ErrBadDocument", err)
	}
}

func TestUnmarshal_NormalizesDefaults(t *testing.T) {
	doc := []byte(`{"version":1,"project":{"id":"p1","name":"n","tracks":[
		{"id":"t1","name":"V1","type":"video","clips":[
			{"id":"c1","name":"c","type":"video","startTime":0,"duration":2}]}]}}`)

	p, err := Unmarshal(doc)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.FPS != 30 {
		t.Errorf("FPS = %d, want default 30", p.FPS)
	}
	if got := p.Tracks[0].Clips[0].Speed; got != 1 {
		t.Errorf("clip speed = %v, want default 1", got)
	}
}

func TestPatchField(t *testing.T) {
	p, _ := oneClipProject(t)
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	patched, err := PatchField(data, "project.name", "renamed")
	if err != nil {
		t.Fatalf("PatchField: %v", err)
	}
	if got := gjson.GetBytes(patched, "project.name").String(); got != "renamed" {
		t.Errorf("patched name = %q, want %q", got, "renamed")
	}
	// The rest of the document is untouched.
	if got := gjson.GetBytes(patched, "project.id").String(); got != p.ID {
		t.Errorf("patched id = %q, want %q", got, p.ID)
	}

	if _, err := PatchField([]byte("nope"), "project.name", "x"); !errors.Is(err, ErrBadDocument) {
		t.Errorf("invalid doc err = %v, want ErrBadDocument", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want fs not-exist", err)
	}
}
