package derive

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes method expression errors.
type ErrorCode string

const (
	// ErrCodeNoClause indicates the method name encodes no predicate and no ordering.
	ErrCodeNoClause ErrorCode = "E201"

	// ErrCodeUnknownProperty indicates an attribute path the entity does not have.
	ErrCodeUnknownProperty ErrorCode = "E202"

	// ErrCodeEmptyFragment indicates a connective with nothing on one side,
	// e.g. "findByAndName" or "findByNameOr".
	ErrCodeEmptyFragment ErrorCode = "E203"

	// ErrCodeInvalidOrderBy indicates an ordering clause that names no attribute.
	ErrCodeInvalidOrderBy ErrorCode = "E204"
)

// MethodExpressionError reports a repository method whose name cannot be
// compiled into a query.
type MethodExpressionError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Repository names the repository that declares the method.
	Repository string

	// Method is the full method name, prefix included.
	Method string

	// Path is the offending attribute path, if any.
	Path string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *MethodExpressionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s %q (repository=%s, method=%s)", e.Code, e.Message, e.Path, e.Repository, e.Method)
	}
	return fmt.Sprintf("%s: %s (repository=%s, method=%s)", e.Code, e.Message, e.Repository, e.Method)
}

// IsUnknownPropertyError reports whether err names an attribute the entity lacks.
func IsUnknownPropertyError(err error) bool {
	var me *MethodExpressionError
	if errors.As(err, &me) {
		return me.Code == ErrCodeUnknownProperty
	}
	return false
}

// IsNoClauseError reports whether err is raised for a method name encoding nothing derivable.
func IsNoClauseError(err error) bool {
	var me *MethodExpressionError
	if errors.As(err, &me) {
		return me.Code == ErrCodeNoClause
	}
	return false
}
