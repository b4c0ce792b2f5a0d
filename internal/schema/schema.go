package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/HammerMeetNail/swasthyasaathi/internal/models"
)

// ErrInvalidPayload wraps every shape violation. Field rules such as the age
// range are the form validator's job, not the schema's.
var ErrInvalidPayload = errors.New("invalid request payload")

const maxTextLength = 2000

type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func compile(name string, doc map[string]interface{}) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Validate checks a raw JSON body against the schema.
func (s *Schema) Validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(errs, "; "))
	}
	return nil
}

func (s *Schema) Name() string {
	return s.name
}

func categoryIDs() []interface{} {
	ids := make([]interface{}, 0, len(models.Categories))
	for _, c := range models.Categories {
		ids = append(ids, string(c.ID))
	}
	return ids
}

func detailsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"age":    map[string]interface{}{"type": "string", "maxLength": 16},
			"gender": map[string]interface{}{"type": "string", "maxLength": 16},
		},
		"additionalProperties": false,
	}
}

func formProperties() map[string]interface{} {
	return map[string]interface{}{
		"details":       detailsSchema(),
		"customProblem": map[string]interface{}{"type": "string", "maxLength": maxTextLength},
	}
}

var (
	// Advice is the body of the stateless validate and advice endpoints.
	Advice = compile("advice", map[string]interface{}{
		"type": "object",
		"properties": func() map[string]interface{} {
			props := formProperties()
			props["category"] = map[string]interface{}{"type": "string", "enum": categoryIDs()}
			return props
		}(),
		"required":             []interface{}{"category"},
		"additionalProperties": false,
	})

	// Category is the body of the session category selection.
	Category = compile("category", map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"category": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 32},
		},
		"required":             []interface{}{"category"},
		"additionalProperties": false,
	})

	// Form is the body of session form updates and submits.
	Form = compile("form", map[string]interface{}{
		"type":                 "object",
		"properties":           formProperties(),
		"additionalProperties": false,
	})
)
