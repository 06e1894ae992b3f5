package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/methodql/internal/entity"
)

// CreateTableSQL returns the CREATE TABLE IF NOT EXISTS statement for model.
func (s *Store) CreateTableSQL(model *entity.Model) string {
	props := model.Properties()
	cols := make([]string, len(props))
	for i, p := range props {
		col := s.dialect.Quote(p.Column)
		if typ := s.dialect.ColumnType(p.Type); typ != "" {
			col += " " + typ
		}
		cols[i] = col
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		s.dialect.Quote(model.Table()), strings.Join(cols, ", "))
}

// Migrate creates the tables of models that do not exist yet.
// Running it again is a no-op.
func (s *Store) Migrate(ctx context.Context, models ...*entity.Model) error {
	for _, m := range models {
		if _, err := s.db.ExecContext(ctx, s.CreateTableSQL(m)); err != nil {
			return fmt.Errorf("migrate %s: %w", m.EntityName(), err)
		}
	}
	return nil
}

// Insert stores one entity. values are keyed by property path; missing
// properties are left to the column default.
func (s *Store) Insert(ctx context.Context, model *entity.Model, values map[string]any) error {
	paths := make([]string, 0, len(values))
	for path := range values {
		if !model.IsValidPath(path) {
			return fmt.Errorf("insert %s: unknown property %q", model.EntityName(), path)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return fmt.Errorf("insert %s: no values", model.EntityName())
	}
	// Sort for deterministic statements
	sort.Strings(paths)

	cols := make([]string, len(paths))
	marks := make([]string, len(paths))
	args := make([]any, len(paths))
	for i, path := range paths {
		col, _ := model.Column(path)
		cols[i] = s.dialect.Quote(col)
		marks[i] = "?"
		args[i] = values[path]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.Quote(model.Table()), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", model.EntityName(), err)
	}
	return nil
}
