package state

import (
	"errors"
	"fmt"
)

// Two failure classes cross this package's API. Validation errors are
// recoverable preconditions: the caller drops the instruction or retries
// next tick. Invariant errors mean the entity maps and location indexes
// disagree; continuing would corrupt the run, so callers must abort.

// ValidationError reports a violated precondition.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// InvariantError reports index/map desynchronization.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string { return e.msg }

// Invariantf builds an InvariantError.
func Invariantf(format string, args ...any) error {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvariant reports whether err is (or wraps) an invariant violation.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
