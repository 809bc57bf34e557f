package bank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchema is the structural shape every ingested question object must
// satisfy. Anything beyond shape (e.g. the answer index being in range) is
// checked in code.
var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type": []any{"string", "integer"},
		},
		"question": map[string]any{
			"type": "string",
		},
		"options": map[string]any{
			"type":     "array",
			"minItems": 2,
			"items":    map[string]any{"type": "string"},
		},
		"correct_option_id": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"term":        map[string]any{"type": "string"},
		"subject":     map[string]any{"type": "string"},
		"lesson":      map[string]any{"type": "string"},
		"chapter":     map[string]any{"type": "string"},
		"explanation": map[string]any{"type": "string"},
	},
	"required": []any{"id", "question", "options", "correct_option_id"},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compiledQuestionSchema compiles the question schema once and caches it.
func compiledQuestionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		defBytes, err := json.Marshal(questionSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal question schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(defBytes, &parsed); err != nil {
			schemaErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
