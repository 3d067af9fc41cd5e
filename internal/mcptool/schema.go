package mcptool

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// JSONSchemaValidator checks decoded tool arguments against a JSON Schema
// document using github.com/santhosh-tekuri/jsonschema/v6. A fresh
// compiler/schema pair is built per call: descriptor schemas are small and
// validated only once per tool invocation, so there's no caching payoff
// worth the added bookkeeping.
type JSONSchemaValidator struct{}

// NewJSONSchemaValidator builds the default schema validator shared by
// every plugin tool that declares an input_schema.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// Validate reports whether args conforms to schema. schema and args are
// both already-decoded JSON values (map[string]any / []any / scalars), as
// produced by encoding/json.
func (v *JSONSchemaValidator) Validate(schema map[string]any, args map[string]any) error {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schema); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := compiled.Validate(args); err != nil {
		return err
	}
	return nil
}
