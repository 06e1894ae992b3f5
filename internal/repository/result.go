package repository

import (
	"fmt"

	"github.com/roach88/methodql/internal/derive"
)

// Row is one entity, keyed by property path.
type Row map[string]any

// Result is the outcome of an invocation.
type Result struct {
	id     string
	method *Method
	rows   []Row
	count  int64
}

// InvocationID returns the id the invocation was logged and traced under.
func (r *Result) InvocationID() string { return r.id }

// Method returns the invoked method.
func (r *Result) Method() *Method { return r.method }

// Kind returns the query kind of the invoked method.
func (r *Result) Kind() derive.QueryKind { return r.method.Kind() }

// List returns every row of a select.
func (r *Result) List() []Row { return r.rows }

// Count returns the count of a count query or the rows affected by a delete.
func (r *Result) Count() int64 { return r.count }

// Single returns one row according to the method's single-result style:
//   - strict: error when no row or several rows match
//   - optional: nil when no row matches, error when several do
//   - any: the first row, or nil
func (r *Result) Single() (Row, error) {
	fail := func(code InvocationErrorCode, msg string) error {
		return &InvocationError{Code: code, Repository: r.method.Repository, Method: r.method.Name, Message: msg}
	}

	if r.Kind() != derive.KindSelect {
		return nil, fail(ErrCodeExecutionFailed, fmt.Sprintf("%s query has no rows", r.Kind()))
	}

	switch r.method.Root.Prefix().SingleResult() {
	case derive.SingleAny:
		if len(r.rows) == 0 {
			return nil, nil
		}
		return r.rows[0], nil
	case derive.SingleOptional:
		switch len(r.rows) {
		case 0:
			return nil, nil
		case 1:
			return r.rows[0], nil
		}
	default:
		switch len(r.rows) {
		case 0:
			return nil, fail(ErrCodeNoResult, "no entity found for query")
		case 1:
			return r.rows[0], nil
		}
	}
	return nil, fail(ErrCodeNonUniqueResult, fmt.Sprintf("%d entities found for single result query", len(r.rows)))
}
