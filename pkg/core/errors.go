package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Resolution and invocation errors
var (
	ErrNilTarget        = errors.New("thinware: target is nil")
	ErrNotCallable      = errors.New("thinware: target is not a function")
	ErrInvalidModuleID  = errors.New("thinware: invalid module identifier")
	ErrModuleIDTooLong  = errors.New("thinware: module identifier too long")
	ErrModuleNotFound   = errors.New("thinware: module not found")
	ErrArgumentMismatch = errors.New("thinware: arguments do not match target signature")
	ErrTooManyArguments = errors.New("thinware: too many arguments")
	ErrTargetPanicked   = errors.New("thinware: target panicked")
	ErrModulePanicked   = errors.New("thinware: module load panicked")
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// StatusError attaches an HTTP status code to an error.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the carried status.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// WithStatus wraps an error with a status code.
func WithStatus(status int, err error) error {
	return &StatusError{Status: status, Err: err}
}

// Errorf formats an error message and attaches a status code to it.
func Errorf(status int, format string, args ...any) error {
	return &StatusError{Status: status, Err: fmt.Errorf(format, args...)}
}

// StatusOf returns the first status carried anywhere in err's chain, or 0.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}
