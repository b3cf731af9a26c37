package codex

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputSchemaFor(t *testing.T) {
	type answer struct {
		Summary    string `json:"summary" jsonschema:"required,description=One-line summary"`
		Confidence int    `json:"confidence"`
	}

	raw := OutputSchemaFor[answer]()

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "summary")
	assert.Contains(t, props, "confidence")

	summary, ok := props["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "One-line summary", summary["description"])

	// Inlined, not referenced.
	assert.NotContains(t, schema, "$ref")
}

func TestWriteSchemaFile_Nil(t *testing.T) {
	path, cleanup, err := writeSchemaFile(nil)
	require.NoError(t, err)
	assert.Equal(t, "", path)
	cleanup()
}

func TestWriteSchemaFile_RawMessage(t *testing.T) {
	raw := json.RawMessage(`{"type":"object"}`)

	path, cleanup, err := writeSchemaFile(raw)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object"}`, string(data))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSchemaFile_MarshalsValue(t *testing.T) {
	schema := map[string]any{"type": "object", "additionalProperties": false}

	path, cleanup, err := writeSchemaFile(schema)
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","additionalProperties":false}`, string(data))
}

func TestWriteSchemaFile_CleanupIdempotent(t *testing.T) {
	path, cleanup, err := writeSchemaFile(json.RawMessage(`{}`))
	require.NoError(t, err)
	require.NotEmpty(t, path)

	cleanup()
	cleanup()
}

func TestWriteSchemaFile_UnmarshalableValue(t *testing.T) {
	_, _, err := writeSchemaFile(make(chan int))
	require.Error(t, err)
}
