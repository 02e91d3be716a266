package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks decoded documents against JSON schemas.
// Compiled schemas are cached by their source text.
type Validator struct {
	cache sync.Map // map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks doc (any JSON-marshalable value, typically a decoded YAML
// document) against the schema given as JSON text.
func (v *Validator) Validate(schemaJSON string, doc any) error {
	s, err := v.compile(schemaJSON)
	if err != nil {
		return fmt.Errorf("invalid schema definition: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation execution failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", summarize(errs))
}

func (v *Validator) compile(schemaJSON string) (*gojsonschema.Schema, error) {
	if val, ok := v.cache.Load(schemaJSON); ok {
		return val.(*gojsonschema.Schema), nil
	}
	if !json.Valid([]byte(schemaJSON)) {
		return nil, fmt.Errorf("schema is not valid JSON")
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}
	v.cache.Store(schemaJSON, s)
	return s, nil
}

// summarize keeps the first three errors to avoid massive output.
func summarize(errs []string) string {
	if len(errs) <= 3 {
		return strings.Join(errs, "; ")
	}
	return strings.Join(errs[:3], "; ") + fmt.Sprintf("; ... and %d more", len(errs)-3)
}
