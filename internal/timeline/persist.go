package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FormatVersion is the project document format written by Save.
const FormatVersion = 1

// Persistence errors.
var (
	// ErrBadDocument is returned for files that are not valid project
	// JSON.
	ErrBadDocument = errors.New("not a valid project document")

	// ErrUnsupportedVersion is returned for documents written by a
	// newer format than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported project format version")
)

// projectFile is the on-disk document: a version header wrapping the
// project so future formats can be detected before unmarshaling.
type projectFile struct {
	Version int      `json:"version"`
	Project *Project `json:"project"`
}

// Marshal encodes a project into its versioned document form.
func Marshal(p *Project) ([]byte, error) {
	data, err := json.MarshalIndent(projectFile{Version: FormatVersion, Project: p}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a versioned project document, probing the version
// header before committing to a full parse.
func Unmarshal(data []byte) (*Project, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrBadDocument
	}
	version := gjson.GetBytes(data, "version")
	if !version.Exists() {
		return nil, fmt.Errorf("%w: missing version", ErrBadDocument)
	}
	if v := version.Int(); v > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	var file projectFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if file.Project == nil {
		return nil, fmt.Errorf("%w: missing project", ErrBadDocument)
	}
	normalize(file.Project)
	return file.Project, nil
}

// Save writes the project document to path.
func Save(path string, p *Project) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project document from path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return Unmarshal(data)
}

// PatchField sets a single field in a project document without a full
// decode/encode round trip, for collaborators that update documents
// surgically (e.g. renaming a project in a picker). The path uses
// dotted syntax rooted at the document, e.g. "project.name".
func PatchField(data []byte, path string, value any) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrBadDocument
	}
	out, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", path, err)
	}
	return out, nil
}

// normalize back-fills zero-valued fields that older or hand-written
// documents may omit but the model treats as having defaults.
func normalize(p *Project) {
	if p.FPS <= 0 {
		p.FPS = 30
	}
	for _, track := range p.Tracks {
		for _, clip := range track.Clips {
			if clip.Speed <= 0 {
				clip.Speed = 1
			}
		}
	}
}
