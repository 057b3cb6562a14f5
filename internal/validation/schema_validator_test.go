package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/osse101/posrelay/internal/domain"
)

func TestCatalogValidator_ValidateJSON(t *testing.T) {
	v, err := NewCatalogValidator()
	if err != nil {
		t.Fatalf("NewCatalogValidator: %v", err)
	}

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid catalog",
			data: `[{"id":"c1","label":"Bebidas","products":[{"id":"p1","name":"Agua","pricePerUnit":500,"unitType":"unit"}]}]`,
		},
		{
			name: "empty catalog",
			data: `[]`,
		},
		{
			name:      "missing products",
			data:      `[{"id":"c1","label":"Bebidas"}]`,
			wantError: true,
			errorMsg:  "/0",
		},
		{
			name:      "unknown unit type",
			data:      `[{"id":"c1","label":"x","products":[{"id":"p1","name":"Agua","pricePerUnit":5,"unitType":"box"}]}]`,
			wantError: true,
			errorMsg:  "/0/products/0/unitType",
		},
		{
			name:      "negative price",
			data:      `[{"id":"c1","label":"x","products":[{"id":"p1","name":"Agua","pricePerUnit":-1,"unitType":"unit"}]}]`,
			wantError: true,
			errorMsg:  "pricePerUnit",
		},
		{
			name:      "unknown field",
			data:      `[{"id":"c1","label":"x","products":[],"color":"red"}]`,
			wantError: true,
			errorMsg:  "additionalProperties",
		},
		{
			name:      "not an array",
			data:      `{"categories":[]}`,
			wantError: true,
			errorMsg:  "(root)",
		},
		{
			name:      "invalid JSON",
			data:      `[{"id": }]`,
			wantError: true,
			errorMsg:  "parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateJSON([]byte(tt.data))

			if tt.wantError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if !errors.Is(err, domain.ErrInvalidCatalog) {
					t.Errorf("Expected ErrInvalidCatalog, got: %v", err)
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain %q, got: %v", tt.errorMsg, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestCatalogValidator_ValidateYAML(t *testing.T) {
	v, err := NewCatalogValidator()
	if err != nil {
		t.Fatalf("NewCatalogValidator: %v", err)
	}

	valid := `
- id: fiambres
  label: Fiambres
  products:
    - id: jamon
      name: Jamón cocido
      pricePerUnit: 9000
      unitType: weight
`
	if err := v.ValidateYAML([]byte(valid)); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	invalid := `
- id: fiambres
  label: Fiambres
  products:
    - id: jamon
      pricePerUnit: "cheap"
      unitType: weight
`
	err = v.ValidateYAML([]byte(invalid))
	if err == nil {
		t.Fatal("Expected error but got none")
	}
	if !strings.Contains(err.Error(), "/0/products/0") {
		t.Errorf("Expected error to locate the product, got: %v", err)
	}
}
