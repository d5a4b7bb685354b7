package avrokit

import (
	"errors"
	"fmt"
)

// ErrNotRecord is returned by NewRecord when the schema is not a record.
var ErrNotRecord = errors.New("avrokit: schema is not a record")

// ResolutionError reports why a value could not be reconciled with a schema.
type ResolutionError struct {
	Path    string // JSON Pointer of the offending node (for example: /items/2/price); empty at the root.
	Message string
	Cause   error // Optional: underlying error (UTF-8 or time parse failure).
}

func (e *ResolutionError) Error() string {
	if e.Path == "" {
		return "decoding error: " + e.Message
	}
	return "decoding error: " + e.Message + " at " + e.Path
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// AsResolutionError extracts a *ResolutionError from an error using errors.As.
func AsResolutionError(err error) (*ResolutionError, bool) {
	if err == nil {
		return nil, false
	}
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func resolutionErrorf(format string, args ...any) error {
	return &ResolutionError{Message: fmt.Sprintf(format, args...)}
}

func resolutionCause(cause error, format string, args ...any) error {
	return &ResolutionError{Message: fmt.Sprintf(format, args...), Cause: cause}
}
