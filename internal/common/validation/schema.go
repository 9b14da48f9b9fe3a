// Package validation checks Zeebe job variables against per-task JSON schemas.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins every error into one line for logs and BPMN error details.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Validator holds compiled schemas keyed by task type.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the given task type to schema document set.
func NewValidator(documents map[string]string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(documents))}
	for taskType, doc := range documents {
		if err := v.Register(taskType, doc); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Register compiles and stores the schema for taskType.
func (v *Validator) Register(taskType, document string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", taskType, err)
	}

	v.mu.Lock()
	v.schemas[taskType] = schema
	v.mu.Unlock()
	return nil
}

// Validate checks raw job variables. Task types without a schema always pass.
func (v *Validator) Validate(taskType, variables string) (*ValidationResult, error) {
	v.mu.RLock()
	schema, ok := v.schemas[taskType]
	v.mu.RUnlock()
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return nil, fmt.Errorf("validate %s variables: %w", taskType, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns the validator loaded with the built-in task schemas.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = NewValidator(TaskSchemas)
	})
	return defaultValidator, defaultErr
}
