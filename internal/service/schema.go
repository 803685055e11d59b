package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSchema is the shape every generated question must have. topic may be
// a single string or a list; it is normalised to a list after validation.
const questionSchema = `{
  "type": "object",
  "required": ["question", "options", "answer"],
  "properties": {
    "type": {"type": "string"},
    "skill": {"type": "string"},
    "topic": {
      "anyOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "question": {"type": "string", "minLength": 1},
    "options": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 4,
      "maxItems": 4
    },
    "answer": {"type": "string", "minLength": 1},
    "explanation": {"type": "string"}
  }
}`

// analysisSchema is deliberately loose: only the fields the merge relies on are
// typed. Anything the model adds beyond them is ignored.
const analysisSchema = `{
  "type": "object",
  "properties": {
    "post_test_level": {"type": "string"},
    "current_level": {"type": "string"},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "weak_topics_refined": {"type": "array", "items": {"type": "string"}},
    "personalized_plan": {
      "type": "object",
      "properties": {
        "progress_speed": {"type": "object"},
        "weekly_goals": {"type": "array", "items": {"type": "object"}}
      }
    },
    "proficiency_prediction": {
      "type": "object",
      "properties": {
        "skill_estimates": {"type": "array", "items": {"type": "object"}}
      }
    },
    "monitoring_alerts": {"type": "array", "items": {"type": "string"}}
  }
}`

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiledSchema(name, definition string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(definition), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add schema resource %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateAgainst checks raw JSON against a named schema.
func validateAgainst(name, definition string, raw []byte) error {
	schema, err := compiledSchema(name, definition)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	return nil
}
