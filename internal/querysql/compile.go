package querysql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/params"
)

// Schema resolves property paths to storage. *entity.Model satisfies it.
type Schema interface {
	Table() string
	Column(path string) (string, bool)
	Columns() []string
}

// Compiler renders derived query trees as parameterized SQL.
//
// Values are never interpolated: every bound parameter becomes a ? placeholder.
type Compiler struct {
	Dialect Dialect
}

// NewCompiler returns a Compiler for dialect.
func NewCompiler(dialect Dialect) *Compiler {
	return &Compiler{Dialect: dialect}
}

// Compile converts root to SQL for schema. Select statements list every
// column in schema order.
//
// bound may be nil when only the statement text is wanted; list
// parameters then render as a single placeholder and no args are returned.
func (c *Compiler) Compile(root *derive.Root, schema Schema, bound *params.Parameters) (string, []any, error) {
	if root == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	if schema == nil {
		return "", nil, fmt.Errorf("cannot compile %s without a schema", root.Method())
	}
	if bound != nil && bound.Len() != root.ParameterCount() {
		return "", nil, fmt.Errorf("%s: %w: got %d, want %d",
			root.Method(), params.ErrArityMismatch, bound.Len(), root.ParameterCount())
	}

	s := &statement{c: c, schema: schema, bound: bound}

	switch root.Kind() {
	case derive.KindSelect:
		s.compileSelect(root)
	case derive.KindCount:
		s.sql.WriteString("SELECT COUNT(*) FROM " + c.Dialect.Quote(schema.Table()))
		s.compileWhere(root)
	case derive.KindDelete:
		// order by is ignored for counts and deletes
		s.sql.WriteString("DELETE FROM " + c.Dialect.Quote(schema.Table()))
		s.compileWhere(root)
	default:
		return "", nil, fmt.Errorf("unsupported query kind: %s", root.Kind())
	}

	if s.err != nil {
		return "", nil, fmt.Errorf("%s: %w", root.Method(), s.err)
	}
	return s.sql.String(), s.args, nil
}

// statement accumulates the SQL text and args of one compilation.
type statement struct {
	c      *Compiler
	schema Schema
	bound  *params.Parameters
	sql    strings.Builder
	args   []any
	param  int
	err    error
}

func (s *statement) compileSelect(root *derive.Root) {
	cols := s.schema.Columns()
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = s.c.Dialect.Quote(col)
	}
	s.sql.WriteString("SELECT " + strings.Join(quoted, ", ") + " FROM " + s.c.Dialect.Quote(s.schema.Table()))

	s.compileWhere(root)

	if ob := root.OrderBy(); ob != nil {
		s.compileOrderBy(ob)
	}

	if s.bound != nil {
		clause, args := s.c.Dialect.Paginate(s.bound.MaxResults(), s.bound.FirstResult())
		s.sql.WriteString(clause)
		s.args = append(s.args, args...)
	}
}

// compileWhere renders predicates in the same order the derived query
// allocated its parameters, so the nth value consumed is parameter ?n.
func (s *statement) compileWhere(root *derive.Root) {
	preds := root.Predicates()
	if len(preds) == 0 {
		return
	}
	s.sql.WriteString(" WHERE ")
	for _, or := range preds {
		if !or.First() {
			s.sql.WriteString(" OR ")
		}
		for _, and := range or.Children() {
			if !and.First() {
				s.sql.WriteString(" AND ")
			}
			for _, prop := range and.Children() {
				s.compileProperty(prop)
			}
		}
	}
}

func (s *statement) compileOrderBy(ob *derive.OrderByPart) {
	attrs := ob.Attributes()
	terms := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		col := s.column(attr.Path)
		switch attr.Direction {
		case derive.DirectionAsc:
			col += " ASC"
		case derive.DirectionDesc:
			col += " DESC"
		}
		terms = append(terms, col)
	}
	s.sql.WriteString(" ORDER BY " + strings.Join(terms, ", "))
}

func (s *statement) column(path string) string {
	col, ok := s.schema.Column(path)
	if !ok {
		if s.err == nil {
			s.err = fmt.Errorf("no column mapped for property %q", path)
		}
		return path
	}
	return s.c.Dialect.Quote(col)
}

// next consumes the next positional parameter and binds its value.
func (s *statement) next() (any, bool) {
	s.param++
	if s.bound == nil {
		return nil, false
	}
	return s.bound.Value(s.param)
}

// placeholder consumes the next parameter as a single ? placeholder.
func (s *statement) placeholder() string {
	if v, ok := s.next(); ok {
		s.args = append(s.args, v)
	}
	return "?"
}

func (s *statement) compileProperty(prop *derive.PropertyPart) {
	col := s.column(prop.Path())
	d := s.c.Dialect

	var sql string
	switch op := prop.Comparator().Op; op {
	case derive.OpEqual:
		sql = col + " = " + s.placeholder()
	case derive.OpNotEqual:
		sql = col + " <> " + s.placeholder()
	case derive.OpEqualIgnoreCase, derive.OpIgnoreCase:
		sql = "UPPER(" + col + ") = UPPER(" + s.placeholder() + ")"
	case derive.OpNotEqualIgnoreCase:
		sql = "UPPER(" + col + ") <> UPPER(" + s.placeholder() + ")"
	case derive.OpLike:
		sql = col + " LIKE " + s.placeholder()
	case derive.OpNotLike:
		sql = col + " NOT LIKE " + s.placeholder()
	case derive.OpLikeIgnoreCase:
		sql = "UPPER(" + col + ") LIKE " + s.placeholder()
	case derive.OpLessThan:
		sql = col + " < " + s.placeholder()
	case derive.OpLessThanEquals:
		sql = col + " <= " + s.placeholder()
	case derive.OpGreaterThan:
		sql = col + " > " + s.placeholder()
	case derive.OpGreaterThanEquals:
		sql = col + " >= " + s.placeholder()
	case derive.OpBetween:
		lo := s.placeholder()
		hi := s.placeholder()
		sql = col + " BETWEEN " + lo + " AND " + hi
	case derive.OpIsNull:
		sql = col + " IS NULL"
	case derive.OpIsNotNull:
		sql = col + " IS NOT NULL"
	case derive.OpTrue:
		sql = col + " = " + d.Bool(true)
	case derive.OpFalse:
		sql = col + " = " + d.Bool(false)
	case derive.OpIn:
		sql = s.compileIn(col, "IN", "1 = 0")
	case derive.OpNotIn:
		sql = s.compileIn(col, "NOT IN", "1 = 1")
	case derive.OpContaining:
		sql = col + " LIKE " + d.Concat("'%'", s.placeholder(), "'%'")
	case derive.OpStartingWith:
		sql = col + " LIKE " + d.Concat(s.placeholder(), "'%'")
	case derive.OpEndingWith:
		sql = col + " LIKE " + d.Concat("'%'", s.placeholder())
	default:
		if s.err == nil {
			s.err = fmt.Errorf("unsupported operator %s", op)
		}
	}
	s.sql.WriteString(sql)
}

// compileIn expands a slice argument to one placeholder per element.
// An empty slice renders the constant predicate empty instead.
func (s *statement) compileIn(col, op, empty string) string {
	v, ok := s.next()
	if !ok {
		return col + " " + op + " (?)"
	}

	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().Elem().Kind() == reflect.Uint8 {
		s.args = append(s.args, v)
		return col + " " + op + " (?)"
	}
	if rv.Len() == 0 {
		return empty
	}

	marks := make([]string, rv.Len())
	for i := range marks {
		marks[i] = "?"
		s.args = append(s.args, rv.Index(i).Interface())
	}
	return col + " " + op + " (" + strings.Join(marks, ", ") + ")"
}
