package mcptool

import "testing"

func TestJSONSchemaValidator_Valid(t *testing.T) {
	v := NewJSONSchemaValidator()
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	}

	if err := v.Validate(schema, map[string]any{"name": "ada"}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestJSONSchemaValidator_MissingRequired(t *testing.T) {
	v := NewJSONSchemaValidator()
	schema := map[string]any{
		"type":     "object",
		"required": []any{"name"},
	}

	if err := v.Validate(schema, map[string]any{}); err == nil {
		t.Error("Validate() error = nil, want schema violation")
	}
}

func TestJSONSchemaValidator_WrongType(t *testing.T) {
	v := NewJSONSchemaValidator()
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"count": map[string]any{"type": "integer"}},
	}

	if err := v.Validate(schema, map[string]any{"count": "not a number"}); err == nil {
		t.Error("Validate() error = nil, want type violation")
	}
}
