package entity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Type is the storage type of a property.
type Type string

const (
	TypeAny    Type = ""
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeTime   Type = "time"
	TypeBytes  Type = "bytes"
)

// ParseType parses a property type name. The empty string is TypeAny.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeAny, TypeString, TypeInt, TypeFloat, TypeBool, TypeTime, TypeBytes:
		return t, nil
	default:
		return "", fmt.Errorf("entity: unknown property type %q", s)
	}
}

// Property is a persisted attribute reachable by a dotted path.
type Property struct {
	Path   string
	Column string
	Type   Type
}

// DefaultAlias qualifies attribute paths when a model sets no alias.
const DefaultAlias = "e"

// Model is the metadata of one entity.
type Model struct {
	name       string
	alias      string
	table      string
	properties []Property
	byPath     map[string]int
	byColumn   map[string]int
}

// Option customizes a Model.
type Option func(m *Model) error

// NewModel builds a model from properties in declaration order. A
// property without a column is stored in the underscore form of its path
// ("embedded.zipCode" -> "embedded_zip_code").
func NewModel(name string, properties []Property, opts ...Option) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("entity: model name is required")
	}
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProperties, name)
	}

	m := &Model{
		name:  name,
		alias: DefaultAlias,
		table: underscoreName(name),
	}
	for _, p := range properties {
		if p.Path == "" {
			return nil, fmt.Errorf("entity: %s: property path is required", name)
		}
		if p.Column == "" {
			p.Column = columnName(p.Path)
		}
		m.properties = append(m.properties, p)
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if err := m.index(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) index() error {
	m.byPath = make(map[string]int, len(m.properties))
	m.byColumn = make(map[string]int, len(m.properties))
	for i, p := range m.properties {
		if _, dup := m.byPath[p.Path]; dup {
			return newErrDuplicatePath(p.Path)
		}
		if _, dup := m.byColumn[p.Column]; dup {
			return newErrDuplicateColumn(p.Column)
		}
		m.byPath[p.Path] = i
		m.byColumn[p.Column] = i
	}
	return nil
}

// WithAlias sets the query alias.
func WithAlias(alias string) Option {
	return func(m *Model) error {
		if alias != "" {
			m.alias = alias
		}
		return nil
	}
}

// WithTableName sets the table name.
func WithTableName(table string) Option {
	return func(m *Model) error {
		if table != "" {
			m.table = table
		}
		return nil
	}
}

// WithColumnName overrides the column of the property at path.
func WithColumnName(path, column string) Option {
	return func(m *Model) error {
		for i := range m.properties {
			if m.properties[i].Path == path {
				m.properties[i].Column = column
				return nil
			}
		}
		return newErrUnknownPath(path)
	}
}

// EntityName returns the entity name used in query text.
func (m *Model) EntityName() string { return m.name }

// Alias returns the query alias.
func (m *Model) Alias() string { return m.alias }

// Table returns the table name.
func (m *Model) Table() string { return m.table }

// IsValidPath reports whether path names a property.
func (m *Model) IsValidPath(path string) bool {
	_, ok := m.byPath[path]
	return ok
}

// Property returns the property at path.
func (m *Model) Property(path string) (Property, bool) {
	i, ok := m.byPath[path]
	if !ok {
		return Property{}, false
	}
	return m.properties[i], true
}

// Column returns the column of the property at path.
func (m *Model) Column(path string) (string, bool) {
	p, ok := m.Property(path)
	return p.Column, ok
}

// PathForColumn returns the property path stored in column.
func (m *Model) PathForColumn(column string) (string, bool) {
	i, ok := m.byColumn[column]
	if !ok {
		return "", false
	}
	return m.properties[i].Path, true
}

// Properties returns the properties in declaration order.
func (m *Model) Properties() []Property {
	out := make([]Property, len(m.properties))
	copy(out, m.properties)
	return out
}

// Columns returns the columns in declaration order.
func (m *Model) Columns() []string {
	out := make([]string, len(m.properties))
	for i, p := range m.properties {
		out[i] = p.Column
	}
	return out
}

// columnName joins the underscore form of every path segment:
// "homeAddress.zipCode" -> "home_address_zip_code".
func columnName(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = underscoreName(seg)
	}
	return strings.Join(segments, "_")
}

// underscoreName converts a Go or camel-case name to snake case:
// "UserName" -> "user_name", "camelCase" -> "camel_case".
func underscoreName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i != 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lowerFirst lower-cases the first letter: "CamelCase" -> "camelCase".
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
