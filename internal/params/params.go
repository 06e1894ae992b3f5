package params

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/methodql/internal/derive"
)

// MaxResults limits the number of rows a select returns.
type MaxResults int

// FirstResult skips rows before the first returned one.
type FirstResult int

var (
	// ErrArityMismatch is returned when the positional argument count
	// differs from the query's parameter count.
	ErrArityMismatch = errors.New("params: argument count does not match parameter count")

	// ErrInvalidRestriction is returned for negative or repeated size restrictions.
	ErrInvalidRestriction = errors.New("params: invalid size restriction")
)

// Parameters are the values bound to one query execution.
type Parameters struct {
	values      []any
	maxResults  int
	firstResult int
}

// Bind separates size restrictions from positional arguments and checks
// the positional count against count. defaultMax applies when no
// MaxResults argument is given; 0 means unlimited.
func Bind(count int, args []any, defaultMax int) (*Parameters, error) {
	p := &Parameters{
		values:     make([]any, 0, count),
		maxResults: defaultMax,
	}

	var hasMax, hasFirst bool
	for _, arg := range args {
		switch v := arg.(type) {
		case MaxResults:
			if hasMax || v < 0 {
				return nil, fmt.Errorf("%w: MaxResults(%d)", ErrInvalidRestriction, v)
			}
			hasMax = true
			p.maxResults = int(v)
		case FirstResult:
			if hasFirst || v < 0 {
				return nil, fmt.Errorf("%w: FirstResult(%d)", ErrInvalidRestriction, v)
			}
			hasFirst = true
			p.firstResult = int(v)
		default:
			p.values = append(p.values, arg)
		}
	}

	if len(p.values) != count {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArityMismatch, len(p.values), count)
	}
	return p, nil
}

// Apply runs the parameter transforms against the bound values. Only
// string values are transformed; other types pass through unchanged.
func (p *Parameters) Apply(transforms []derive.ParameterTransform) error {
	for _, tr := range transforms {
		i := tr.Index - 1
		if i < 0 || i >= len(p.values) {
			return fmt.Errorf("params: transform %s references parameter ?%d of %d", tr.Kind, tr.Index, len(p.values))
		}
		switch tr.Kind {
		case derive.TransformUppercase:
			if s, ok := p.values[i].(string); ok {
				p.values[i] = Upper(s)
			}
		default:
			return fmt.Errorf("params: unsupported transform %s", tr.Kind)
		}
	}
	return nil
}

// Upper is the case mapping applied to IgnoreCase parameters. Databases
// must apply the same mapping in upper() on the column side; store
// registers it on sqlite3 connections. A Caser is not safe for
// concurrent use, so one is built per call.
func Upper(s string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(s))
}

// Values returns the positional values in parameter order.
func (p *Parameters) Values() []any {
	out := make([]any, len(p.values))
	copy(out, p.values)
	return out
}

// Value returns the value of 1-based parameter index.
func (p *Parameters) Value(index int) (any, bool) {
	if index < 1 || index > len(p.values) {
		return nil, false
	}
	return p.values[index-1], true
}

// Len returns the number of positional values.
func (p *Parameters) Len() int { return len(p.values) }

// MaxResults returns the row limit; 0 means unlimited.
func (p *Parameters) MaxResults() int { return p.maxResults }

// FirstResult returns the row offset.
func (p *Parameters) FirstResult() int { return p.firstResult }
