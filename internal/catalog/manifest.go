package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	schemafiles "github.com/jonathan/resume-studio/schemas"
)

// MaxManifestSize bounds a single manifest file.
const MaxManifestSize = 1 << 20

// Manifest is the on-disk description of an external template.
type Manifest struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Preset       string     `json:"preset"`
	Category     string     `json:"category,omitempty"`
	Component    string     `json:"component"`
	Description  string     `json:"description,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	Features     []string   `json:"features,omitempty"`
	ATSOptimized bool       `json:"atsOptimized,omitempty"`
	Popular      bool       `json:"popular,omitempty"`
	Featured     bool       `json:"featured,omitempty"`
	Premium      bool       `json:"premium,omitempty"`
	Config       merge.Tree `json:"config,omitempty"`
}

// ManifestError reports a manifest that could not be turned into a template.
type ManifestError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ManifestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Message)
}

func (e *ManifestError) Unwrap() error {
	return e.Cause
}

// LoadDir loads every manifest in dir, in file name order. Files with other
// extensions are ignored.
func LoadDir(dir string) ([]types.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isManifest(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]types.Template, 0, len(names))
	for _, name := range names {
		t, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func isManifest(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// LoadFile reads one manifest and composes its config over its preset.
func LoadFile(path string) (types.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Template{}, &ManifestError{Path: path, Message: "read failed", Cause: err}
	}
	if len(raw) > MaxManifestSize {
		return types.Template{}, &ManifestError{Path: path, Message: fmt.Sprintf("exceeds %d bytes", MaxManifestSize)}
	}

	doc, err := normalize(filepath.Ext(path), raw)
	if err != nil {
		return types.Template{}, &ManifestError{Path: path, Message: "parse failed", Cause: err}
	}
	return ParseManifest(path, doc)
}

// ParseManifest validates a JSON manifest document and builds its template.
// source names the document in errors.
func ParseManifest(source string, doc []byte) (types.Template, error) {
	if err := schemas.Validate(schemafiles.TemplateManifest, doc); err != nil {
		return types.Template{}, &ManifestError{Path: source, Message: "does not match manifest schema", Cause: err}
	}

	var m Manifest
	if err := json.Unmarshal(doc, &m); err != nil {
		return types.Template{}, &ManifestError{Path: source, Message: "decode failed", Cause: err}
	}
	return m.Template()
}

// Template composes the manifest config and returns the registry value.
func (m Manifest) Template() (types.Template, error) {
	category := m.Category
	if category == "" {
		category = m.Preset
	}

	override := merge.Merge(m.Config, merge.Tree{"id": m.ID, "category": category})
	cfg, err := design.Compose(override, m.Preset)
	if err != nil {
		return types.Template{}, &ManifestError{Path: m.ID, Message: "config does not compose", Cause: err}
	}

	features := m.Features
	if features == nil {
		features = []string{}
	}
	return types.Template{
		ID:           m.ID,
		Name:         m.Name,
		Category:     category,
		Component:    m.Component,
		Config:       cfg,
		Thumbnail:    m.Thumbnail,
		Description:  m.Description,
		Features:     features,
		ATSOptimized: m.ATSOptimized,
		Popular:      m.Popular,
		Featured:     m.Featured,
		Premium:      m.Premium,
	}, nil
}

// normalize converts a YAML or TOML manifest into JSON so every format is
// checked against the same schema.
func normalize(ext string, raw []byte) ([]byte, error) {
	var doc map[string]any

	switch strings.ToLower(ext) {
	case ".json":
		return raw, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q", ext)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert manifest to JSON: %w", err)
	}
	return out, nil
}
