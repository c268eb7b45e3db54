package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the ledger has no row for a player handle.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected inbound field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DecodeError reports a request identifier that cannot be parsed back into a
// donation request.
type DecodeError struct {
	ID     string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed request id %q: %s", e.ID, e.Reason)
}
