package card

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every document decoding failure.
var ErrMalformed = errors.New("malformed card document")

// MalformedError describes why a document was rejected.
type MalformedError struct {
	DocumentID string
	Reason     string
	Err        error
}

func (e *MalformedError) Error() string {
	msg := "malformed card document"
	if e.DocumentID != "" {
		msg += fmt.Sprintf(" %q", e.DocumentID)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

func malformed(id, reason string, err error) *MalformedError {
	return &MalformedError{DocumentID: id, Reason: reason, Err: err}
}
