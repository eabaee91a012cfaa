package controller

import (
	"strings"
)

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Invalid returns a ValidationError for field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// field pairs a form label with its value for requireFields.
type field struct {
	name  string
	label string
	value string
}

// requireFields reports the first blank field, in order.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return Invalid(f.name, f.label+" is required")
		}
	}
	return nil
}
