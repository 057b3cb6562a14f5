// Package validation checks catalog documents against the bundled JSON schema
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/osse101/posrelay/internal/domain"
)

//go:embed schemas/catalog.schema.json
var catalogSchema []byte

// CatalogSchemaURL identifies the bundled catalog schema
const CatalogSchemaURL = "https://posrelay.local/schemas/catalog.schema.json"

// SchemaValidator validates raw documents against one compiled schema
type SchemaValidator interface {
	ValidateJSON(data []byte) error
	ValidateYAML(data []byte) error
}

type validator struct {
	schema *jsonschema.Schema
}

// NewCatalogValidator compiles the bundled catalog schema
func NewCatalogValidator() (SchemaValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(CatalogSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(CatalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

// ValidateJSON validates a JSON document
func (v *validator) ValidateJSON(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: failed to parse JSON data: %v", domain.ErrInvalidCatalog, err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateYAML converts a YAML document to JSON and validates it.
// JSON input is accepted too since JSON is a subset of YAML.
func (v *validator) ValidateYAML(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: failed to parse YAML data: %v", domain.ErrInvalidCatalog, err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		// non-string mapping keys
		return fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return v.ValidateJSON(raw)
}

// formatValidationError lists every failing location, wrapped in domain.ErrInvalidCatalog
func formatValidationError(err error) error {
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		var problems []string
		collectErrors(validationErr, &problems)
		return fmt.Errorf("%w: schema validation failed:\n%s", domain.ErrInvalidCatalog, strings.Join(problems, "\n"))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
}

// collectErrors walks the cause tree, keeping leaves only
func collectErrors(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		*problems = append(*problems, formatError(err))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, problems)
	}
}

func formatError(err *jsonschema.ValidationError) string {
	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil {
		if keywords := err.ErrorKind.KeywordPath(); len(keywords) > 0 {
			return fmt.Sprintf("  - at %s: %s validation failed", location, strings.Join(keywords, "."))
		}
	}
	return fmt.Sprintf("  - at %s: validation failed", location)
}
