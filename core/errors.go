package core

import "github.com/pkg/errors"

type (
	// FieldError reports a problem with a single named field of a request
	// payload, keyed by its json name.
	FieldError struct {
		Field string
		Error string
	}

	// ValidationError carries an optional top-level error plus any number
	// of per-field errors.
	ValidationError struct {
		Err    error
		Fields []FieldError
	}
)

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error as unrecoverable; the server stops once it is seen.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
