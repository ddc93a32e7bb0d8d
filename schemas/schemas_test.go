package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{ResumeData, TemplateManifest}, files)

	for _, schemaFile := range files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Read(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare type and $schema")
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, schemaFile := range []string{ResumeData, TemplateManifest} {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Read(schemaFile)
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err)
		})
	}
}

func TestRead_Unknown(t *testing.T) {
	_, err := Read("missing.schema.json")
	assert.Error(t, err)
}
