// Package schemas holds validation tests for the JSON Schemas shipped with
// the auditor.
package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const taxonomySchemaPath = "../internal/taxonomy/taxonomy.schema.json"

func TestTaxonomySchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(taxonomySchemaPath)
	require.NoError(t, err, "should be able to read schema file")

	var v interface{}
	err = json.Unmarshal(data, &v)
	assert.NoError(t, err, "schema file should be valid JSON")
}

func TestTaxonomySchema_ValidJSONSchema(t *testing.T) {
	data, err := os.ReadFile(taxonomySchemaPath)
	require.NoError(t, err)

	var schemaObj map[string]interface{}
	err = json.Unmarshal(data, &schemaObj)
	require.NoError(t, err)

	_, hasType := schemaObj["type"]
	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasType && hasSchema && hasProps,
		"schema should declare type, $schema and properties")

	// The schema must itself compile.
	_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	assert.NoError(t, err, "schema should compile")
}

func TestTaxonomySchema_AcceptsFixture(t *testing.T) {
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + mustAbs(t, taxonomySchemaPath))
	docLoader := gojsonschema.NewReferenceLoader("file://" + mustAbs(t, "../internal/taxonomy/testdata/taxonomy.json"))

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	require.NoError(t, err)
	assert.True(t, result.Valid(), "fixture should satisfy the schema: %v", result.Errors())
}

func TestTaxonomySchema_RejectsMissingResources(t *testing.T) {
	data, err := os.ReadFile(taxonomySchemaPath)
	require.NoError(t, err)

	doc := `{"areas":[{"id":1,"name":"Diseño de formación"}],"cycles":[{"id":1,"name":"Ciclo 1"}]}`
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(data),
		gojsonschema.NewStringLoader(doc),
	)
	require.NoError(t, err)
	assert.False(t, result.Valid(), "cycle without resources should be rejected")
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := os.Getwd()
	require.NoError(t, err)
	return abs + "/" + path
}
