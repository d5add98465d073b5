package snapshot

import (
	"fmt"
	"strings"
)

// FieldError is one form field that could not be parsed.
type FieldError struct {
	// Field is the dotted path, e.g. "inference.pue" or "devices.devices.laptop.users".
	Field string

	// Value is the raw text.
	Value string

	Err error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, e.Value)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every unparsable field of a snapshot.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid snapshot: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// Warning is a non-fatal note produced while parsing, such as an unknown
// model name or a device mix that does not add up to 100%.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
