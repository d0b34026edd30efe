package api

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionSetSchema is the contract for GET /quiz/questions/:lang.
const questionSetSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "total": {"type": "integer", "minimum": 0},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "question", "options", "correct", "skill", "difficulty"],
        "properties": {
          "id": {"type": "integer"},
          "question": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
          "correct": {"type": "integer", "minimum": 0},
          "skill": {"type": "string", "minLength": 1},
          "difficulty": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var questionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSetSchema))
	if err != nil {
		return nil, fmt.Errorf("parse question schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://question-set.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// validateQuestionSet checks a decoded JSON document against the schema.
func validateQuestionSet(doc any) error {
	sch, err := questionSchema()
	if err != nil {
		return err
	}
	return sch.Validate(doc)
}
