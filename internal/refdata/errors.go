package refdata

import (
	"errors"
	"fmt"
)

// ErrUnknownLookupKey is returned (wrapped in a *LookupError) when a model name,
// device category, provider, region, task or unit is not present in the catalog.
// Callers in the calculation path treat it as a zero contribution, never as a failure.
var ErrUnknownLookupKey = errors.New("unknown lookup key")

// LookupError describes which table a key was missing from.
type LookupError struct {
	// Kind names the table or enum, e.g. "device category" or "datacenter".
	Kind string

	// Key is the raw key as supplied by the caller.
	Key string
}

// NewLookupError returns a *LookupError for kind and key.
func NewLookupError(kind, key string) *LookupError {
	return &LookupError{Kind: kind, Key: key}
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnknownLookupKey.Error(), e.Kind, e.Key)
}

// Unwrap makes errors.Is(err, ErrUnknownLookupKey) succeed.
func (e *LookupError) Unwrap() error {
	return ErrUnknownLookupKey
}

// IsUnknownKey reports whether err is (or wraps) ErrUnknownLookupKey.
func IsUnknownKey(err error) bool {
	return errors.Is(err, ErrUnknownLookupKey)
}
