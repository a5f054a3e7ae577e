package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Error returns a combined error wrapping ErrValidation, or nil.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, v.ErrorMessage())
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// Required - Common validation rules
func Required(fieldName string, value interface{}) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
		}
	case []string:
		if len(v) == 0 {
			return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
		}
		for _, s := range v {
			if strings.TrimSpace(s) == "" {
				return &ValidationError{Field: fieldName, Value: value, Message: "must not contain blank entries"}
			}
		}
	}
	return nil
}

// NoDelimiter rejects values that would break a CSV row: commas and line breaks.
func NoDelimiter(fieldName string, value interface{}) *ValidationError {
	var values []string
	switch v := value.(type) {
	case string:
		values = []string{v}
	case []string:
		values = v
	default:
		return nil
	}
	for _, s := range values {
		if strings.ContainsAny(s, ",\r\n") {
			return &ValidationError{Field: fieldName, Value: value, Message: "must not contain commas or line breaks"}
		}
	}
	return nil
}

// DecimalString requires a plain non-negative decimal such as "1250.00".
func DecimalString(fieldName string, value interface{}) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a string"}
	}
	if strings.ContainsAny(str, "$,") {
		return &ValidationError{Field: fieldName, Value: value, Message: "must not contain currency symbols or separators"}
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a decimal number"}
	}
	if d.IsNegative() {
		return &ValidationError{Field: fieldName, Value: value, Message: "must not be negative"}
	}
	return nil
}

// DateYMD requires a YYYY-MM-DD calendar date.
func DateYMD(fieldName string, value interface{}) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a string"}
	}
	if _, err := time.Parse("2006-01-02", str); err != nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a YYYY-MM-DD date"}
	}
	return nil
}

// MinItems requires a []string with at least n entries.
func MinItems(n int) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		items, ok := value.([]string)
		if !ok {
			return &ValidationError{Field: fieldName, Value: value, Message: "must be a list"}
		}
		if len(items) < n {
			return &ValidationError{Field: fieldName, Value: value, Message: fmt.Sprintf("must have at least %d entries", n)}
		}
		return nil
	}
}
