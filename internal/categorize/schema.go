package categorize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const noDelimiter = `^[^,\r\n]*\S[^,\r\n]*$`

// FileJSONSchema describes the category file.
func FileJSONSchema() map[string]any {
	name := map[string]any{"type": "string", "pattern": noDelimiter}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"categories": map[string]any{
				"type":        "array",
				"items":       name,
				"uniqueItems": true,
			},
			"overrides": map[string]any{
				"type":                 "object",
				"additionalProperties": name,
			},
		},
	}
}

// validateJSON validates data against schemaMap.
func validateJSON(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("categories.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("categories.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("does not match schema: %w", err)
	}
	return nil
}
