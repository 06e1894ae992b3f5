package repository

import (
	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/entity"
)

// Method is a compiled repository method.
type Method struct {
	Repository string
	Name       string

	// Declared is false for methods compiled on first lookup.
	Declared bool

	Root  *derive.Root
	Model *entity.Model
}

// Kind returns the query kind selected by the method prefix.
func (m *Method) Kind() derive.QueryKind { return m.Root.Kind() }

// Query returns the derived query text.
func (m *Method) Query() string { return m.Root.Query() }

// metadata presents a model and a repository prefix as derive.Metadata.
type metadata struct {
	*entity.Model
	prefix string
}

func (m metadata) MethodPrefix() string { return m.prefix }
