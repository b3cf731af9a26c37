package codex

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
)

// OutputSchemaFor generates a JSON schema for T from its struct tags, for
// use as TurnOptions.OutputSchema. T should carry json and jsonschema tags:
//
//	type Answer struct {
//	    Summary string `json:"summary" jsonschema:"required,description=One-line summary"`
//	}
func OutputSchemaFor[T any]() json.RawMessage {
	reflector := &jsonschema.Reflector{
		DoNotReference: true, // Inline all definitions instead of using $ref
		ExpandedStruct: true, // Don't use $ref for struct types
	}

	var zero T
	schema := reflector.Reflect(zero)

	bytes, err := json.Marshal(schema)
	if err != nil {
		// This should never happen with valid types
		panic(fmt.Sprintf("failed to generate schema for type %T: %v", zero, err))
	}

	return json.RawMessage(bytes)
}

// writeSchemaFile persists a structured-output schema to a transient file
// for the duration of one turn. It returns the file path ("" when schema is
// nil) and a cleanup function that is safe to call on every exit path.
func writeSchemaFile(schema any) (string, func(), error) {
	if schema == nil {
		return "", func() {}, nil
	}

	data, err := marshalSchema(schema)
	if err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "codex-output-schema-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create schema file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write schema file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("failed to write schema file: %w", err)
	}

	path := f.Name()
	return path, func() { os.Remove(path) }, nil
}

// marshalSchema accepts raw JSON as-is and marshals anything else.
func marshalSchema(schema any) ([]byte, error) {
	switch s := schema.(type) {
	case json.RawMessage:
		return s, nil
	case []byte:
		return s, nil
	default:
		data, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal output schema: %w", err)
		}
		return data, nil
	}
}
