package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/modeloptions/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks on values that carry no struct tags,
// config sections mostly. Checks chain and never stop early.
type Validator struct {
	failed []FieldError
}

func New() *Validator { return &Validator{} }

// AddError records a failure on field.
func (v *Validator) AddError(field, message string) {
	v.failed = append(v.failed, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool      { return len(v.failed) > 0 }
func (v *Validator) Errors() []FieldError { return v.failed }

// Custom records message when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	return v.Custom(len(value) <= maxLen, field, fmt.Sprintf("must be at most %d characters", maxLen))
}

func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.Custom(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// Between checks lo <= value <= hi.
func (v *Validator) Between(field string, value, lo, hi float64) *Validator {
	return v.Custom(value >= lo && value <= hi, field, fmt.Sprintf("must be between %g and %g", lo, hi))
}

func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.Custom(slices.Contains(allowed, value), field, "must be one of: "+strings.Join(allowed, ", "))
}

// Duration checks that value parses with time.ParseDuration and is not
// negative. An empty value passes unless required is set.
func (v *Validator) Duration(field, value string, required bool) *Validator {
	if value == "" && !required {
		return v
	}
	d, err := time.ParseDuration(value)
	return v.Custom(err == nil && d >= 0, field, "must be a non-negative duration like 5m or 200ms")
}

// Err returns nil when every check passed, otherwise an INVALID_INPUT
// AppError listing the failures under details["fields"].
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return fieldErrors(v.failed)
}

func fieldErrors(fields []FieldError) *errors.AppError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}
