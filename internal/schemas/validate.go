// Package schemas validates selector input and candidate banks against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const (
	recordSetName     = "record_set.schema.json"
	candidateBankName = "candidate_bank.schema.json"
)

//go:embed record_set.schema.json
var recordSetSchema []byte

//go:embed candidate_bank.schema.json
var candidateBankSchema []byte

var (
	compileRecordSet     = sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(recordSetName, recordSetSchema) })
	compileCandidateBank = sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(candidateBankName, candidateBankSchema) })
)

// ValidationError lists every schema violation found in a document
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is one violation. Field is a dotted path such as "projects.0.title",
// or "(root)" for the top level.
type FieldError struct {
	Field   string
	Type    string // gojsonschema error type, e.g. "required" or "invalid_type"
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:", strings.TrimSuffix(ve.Schema, ".schema.json"))
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError reports a schema that does not compile or a document that is not JSON
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateRecordSet checks selector input: both collections present and every record
// carrying a title, an integer keyword_count and a numeric similarity.
func ValidateRecordSet(data []byte) error {
	return validate(recordSetName, compileRecordSet, data)
}

// ValidateCandidateBank checks a candidate bank file before scoring
func ValidateCandidateBank(data []byte) error {
	return validate(candidateBankName, compileCandidateBank, data)
}

func compile(name string, schema []byte) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "failed to compile", Cause: err}
	}
	return s, nil
}

func validate(name string, schema func() (*gojsonschema.Schema, error), data []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{Schema: name, Message: "document is not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   desc.Field(),
			Type:    desc.Type(),
			Message: desc.Description(),
		})
	}
	return validationErr
}
