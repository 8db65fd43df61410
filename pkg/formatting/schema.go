package formatting

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordsSchema = `{"type": "array", "items": {"type": "object"}}`

var schemas sync.Map

// EnvelopeSchema returns the JSON Schema a strict record envelope must
// satisfy: an object whose key field is an array of objects.
func EnvelopeSchema(key string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{key},
		"properties": map[string]any{
			key: map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
	}
}

func validateEnvelope(key string, doc map[string]any) error {
	raw, err := json.Marshal(EnvelopeSchema(key))
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	schema, err := compile("envelope-"+key+".json", string(raw))
	if err != nil {
		return err
	}

	return schema.Validate(doc)
}

func validateRecords(items []any) error {
	schema, err := compile("records.json", recordsSchema)
	if err != nil {
		return err
	}
	return schema.Validate(items)
}

func compile(url, source string) (*jsonschema.Schema, error) {
	if cached, ok := schemas.Load(url); ok {
		return cached.(*jsonschema.Schema), nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	actual, _ := schemas.LoadOrStore(url, schema)
	return actual.(*jsonschema.Schema), nil
}
