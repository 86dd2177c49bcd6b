package richtext

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidDocument is returned when a document violates the node schema.
var ErrInvalidDocument = errors.New("invalid rich text document")

//go:embed schema.json
var documentSchema []byte

const schemaURL = "document.schema.json"

// SchemaValidator checks documents against the embedded node schema.
// It is immutable after construction and safe for concurrent use.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded document schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("failed to load document schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile document schema: %w", err)
	}

	return &SchemaValidator{schema: schema}, nil
}

// Validate returns an error wrapping ErrInvalidDocument when doc does not
// satisfy the schema.
func (v *SchemaValidator) Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	if err := v.schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrInvalidDocument, firstCause(validationErr))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return nil
}

// firstCause descends to the innermost validation failure, which names the
// offending node location.
func firstCause(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return fmt.Sprintf("%s: %s", err.InstanceLocation, err.Message)
}
