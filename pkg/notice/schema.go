package notice

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON Schema notices are exported against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("notice.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load notice schema: %w", err)
	}
	schema, err := compiler.Compile("notice.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile notice schema: %w", err)
	}
	return schema, nil
})

// ValidateJSON checks exported notice JSON against the notice schema.
func ValidateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("failed to decode notice JSON: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return fmt.Errorf("notice does not match schema: %w", err)
	}
	return nil
}

// Validate marshals the notice and validates it against the notice schema.
func (n *Notice) Validate() error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notice: %w", err)
	}
	return ValidateJSON(data)
}
