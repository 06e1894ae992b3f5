package repository

import (
	"errors"
	"fmt"
)

// InvocationErrorCode categorizes invocation errors.
type InvocationErrorCode string

const (
	// ErrCodeUnknownMethod indicates the repository or method cannot be resolved.
	ErrCodeUnknownMethod InvocationErrorCode = "UNKNOWN_METHOD"

	// ErrCodeArityMismatch indicates the arguments do not fit the method's parameters.
	ErrCodeArityMismatch InvocationErrorCode = "ARITY_MISMATCH"

	// ErrCodeNoResult indicates a single-result call matched no row.
	ErrCodeNoResult InvocationErrorCode = "NO_RESULT"

	// ErrCodeNonUniqueResult indicates a single-result call matched several rows.
	ErrCodeNonUniqueResult InvocationErrorCode = "NON_UNIQUE_RESULT"

	// ErrCodeExecutionFailed indicates the statement could not be built or run.
	ErrCodeExecutionFailed InvocationErrorCode = "EXECUTION_FAILED"
)

// InvocationError is returned by Registry.Lookup and Executor.Invoke.
type InvocationError struct {
	Code       InvocationErrorCode
	Repository string
	Method     string
	Message    string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s: %s (repository=%s, method=%s)", e.Code, e.Message, e.Repository, e.Method)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsInvocationError reports whether err is an InvocationError with code.
func IsInvocationError(err error, code InvocationErrorCode) bool {
	var ie *InvocationError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// Errors splits an error returned by Bootstrap into the individual
// method errors.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
