package validation

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// SchemaValidator validates API request bodies against the embedded JSON
// schemas. Schemas ship inside the binary so validation never depends on
// deployment layout.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}

	schemaFiles := map[string]string{
		"recommendation-request": "schemas/recommendation-request.json",
		"interaction-request":    "schemas/interaction-request.json",
		"search-request":         "schemas/search-request.json",
		"sentiment-request":      "schemas/sentiment-request.json",
	}

	for name, path := range schemaFiles {
		raw, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}

		sv.schemas[name] = schema
	}

	return sv, nil
}

// ValidationResult is the outcome of validating one request body.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

func (sv *SchemaValidator) ValidateRecommendationRequest(body []byte) *ValidationResult {
	return sv.validate("recommendation-request", body)
}

func (sv *SchemaValidator) ValidateInteractionRequest(body []byte) *ValidationResult {
	return sv.validate("interaction-request", body)
}

func (sv *SchemaValidator) ValidateSearchRequest(body []byte) *ValidationResult {
	return sv.validate("search-request", body)
}

func (sv *SchemaValidator) ValidateSentimentRequest(body []byte) *ValidationResult {
	return sv.validate("sentiment-request", body)
}

func (sv *SchemaValidator) validate(schemaName string, body []byte) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("schema %q not found", schemaName),
			}},
		}
	}

	if !json.Valid(body) {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "body",
				Message: "request body is not valid JSON",
			}},
		}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "body",
				Message: err.Error(),
			}},
		}
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, validationErr := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   validationErr.Field(),
			Message: validationErr.Description(),
		})
	}

	return vr
}
