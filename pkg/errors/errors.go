package errors

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy
var (
	// ErrArchiveRead marks an unreadable or unparsable required archive
	// fragment. Fatal before any processing starts.
	ErrArchiveRead = errors.New("archive read error")

	// ErrOrderingViolation marks a self-quote or reply reference to a source
	// post that has no migrated counterpart yet. Degraded, never fatal.
	ErrOrderingViolation = errors.New("ordering violation")

	// ErrSubmission marks a failed blob upload or record creation. Fatal to
	// the current run; the checkpoint write still happens.
	ErrSubmission = errors.New("submission error")

	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsArchiveRead returns true if the error came from archive loading
func IsArchiveRead(err error) bool {
	return errors.Is(err, ErrArchiveRead)
}

// IsSubmission returns true if the error came from upload or record creation
func IsSubmission(err error) bool {
	return errors.Is(err, ErrSubmission)
}

// IsOrderingViolation returns true if a cross-reference resolved out of order
func IsOrderingViolation(err error) bool {
	return errors.Is(err, ErrOrderingViolation)
}
