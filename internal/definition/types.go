package definition

import (
	"fmt"

	"github.com/roach88/methodql/internal/entity"
)

// File is the top-level document of a definition file.
type File struct {
	Repositories []Repository `yaml:"repositories" json:"repositories"`
}

// Repository declares a repository over one entity.
type Repository struct {
	// Name identifies the repository (e.g. "SimpleRepository").
	Name string `yaml:"name" json:"name"`

	// Prefix is an optional custom method prefix. When a method starts
	// with it, it is stripped instead of the known prefixes.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	Entity Entity `yaml:"entity" json:"entity"`

	// Methods are the derived query method names compiled at bootstrap.
	Methods []string `yaml:"methods" json:"methods"`

	// Source is the file the repository was loaded from.
	Source string `yaml:"-" json:"-"`
}

// Entity declares the metadata of the persisted entity.
type Entity struct {
	Name       string     `yaml:"name" json:"name"`
	Alias      string     `yaml:"alias,omitempty" json:"alias,omitempty"`
	Table      string     `yaml:"table,omitempty" json:"table,omitempty"`
	Properties []Property `yaml:"properties" json:"properties"`
}

// Property declares one dotted property path.
type Property struct {
	Path   string `yaml:"path" json:"path"`
	Column string `yaml:"column,omitempty" json:"column,omitempty"`
	Type   string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Model builds the entity model the repository queries against.
func (r *Repository) Model() (*entity.Model, error) {
	props := make([]entity.Property, 0, len(r.Entity.Properties))
	for _, p := range r.Entity.Properties {
		typ, err := entity.ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Path, err)
		}
		props = append(props, entity.Property{Path: p.Path, Column: p.Column, Type: typ})
	}
	return entity.NewModel(r.Entity.Name, props,
		entity.WithAlias(r.Entity.Alias),
		entity.WithTableName(r.Entity.Table),
	)
}

// validate checks a repository in isolation.
func (r *Repository) validate() error {
	if r.Name == "" {
		return fmt.Errorf("repository name is required")
	}
	if r.Entity.Name == "" {
		return fmt.Errorf("repository %s: entity name is required", r.Name)
	}
	if _, err := r.Model(); err != nil {
		return fmt.Errorf("repository %s: %w", r.Name, err)
	}
	if len(r.Methods) == 0 {
		return fmt.Errorf("repository %s: methods list is required and must be non-empty", r.Name)
	}
	seen := make(map[string]bool, len(r.Methods))
	for i, m := range r.Methods {
		if m == "" {
			return fmt.Errorf("repository %s: methods[%d]: method name is required", r.Name, i)
		}
		if seen[m] {
			return fmt.Errorf("repository %s: duplicate method %q", r.Name, m)
		}
		seen[m] = true
	}
	return nil
}
