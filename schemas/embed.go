// Package schemas embeds the JSON Schema documents shipped with resume-studio.
package schemas

import "embed"

// Schema file names.
const (
	ResumeData       = "resume_data.schema.json"
	TemplateManifest = "template_manifest.schema.json"
)

//go:embed *.schema.json
var FS embed.FS

// Read returns the raw bytes of an embedded schema.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
