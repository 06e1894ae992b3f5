package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/methodql/internal/entity"
)

// Dialect covers the SQL differences between supported databases.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string

	// Quote quotes an identifier.
	Quote(ident string) string

	// Concat joins string expressions.
	Concat(exprs ...string) string

	// Bool renders a boolean literal.
	Bool(v bool) string

	// Paginate renders the LIMIT/OFFSET clause for a limit (0 = none)
	// and offset, returning the values bound to its placeholders.
	Paginate(limit, offset int) (string, []any)

	// ColumnType maps a property type to a column type for DDL.
	ColumnType(t entity.Type) string
}

var (
	SQLite Dialect = sqliteDialect{}
	MySQL  Dialect = mysqlDialect{}
)

// DialectFor returns the dialect of a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return nil, fmt.Errorf("querysql: unsupported driver %q", driver)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (sqliteDialect) Concat(exprs ...string) string {
	return strings.Join(exprs, " || ")
}

func (sqliteDialect) Bool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (sqliteDialect) Paginate(limit, offset int) (string, []any) {
	switch {
	case limit > 0 && offset > 0:
		return " LIMIT ? OFFSET ?", []any{limit, offset}
	case limit > 0:
		return " LIMIT ?", []any{limit}
	case offset > 0:
		// sqlite requires a LIMIT before OFFSET; -1 means no limit
		return " LIMIT -1 OFFSET ?", []any{offset}
	default:
		return "", nil
	}
}

func (sqliteDialect) ColumnType(t entity.Type) string {
	switch t {
	case entity.TypeString:
		return "TEXT"
	case entity.TypeInt:
		return "INTEGER"
	case entity.TypeFloat:
		return "REAL"
	case entity.TypeBool:
		return "BOOLEAN"
	case entity.TypeTime:
		return "TIMESTAMP"
	case entity.TypeBytes:
		return "BLOB"
	default:
		return ""
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (mysqlDialect) Concat(exprs ...string) string {
	return "CONCAT(" + strings.Join(exprs, ", ") + ")"
}

func (mysqlDialect) Bool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// maxUnsignedBigint stands in for "no limit" in MySQL.
const maxUnsignedBigint = "18446744073709551615"

func (mysqlDialect) Paginate(limit, offset int) (string, []any) {
	switch {
	case limit > 0 && offset > 0:
		return " LIMIT ? OFFSET ?", []any{limit, offset}
	case limit > 0:
		return " LIMIT ?", []any{limit}
	case offset > 0:
		return " LIMIT " + maxUnsignedBigint + " OFFSET ?", []any{offset}
	default:
		return "", nil
	}
}

func (mysqlDialect) ColumnType(t entity.Type) string {
	switch t {
	case entity.TypeString:
		return "VARCHAR(255)"
	case entity.TypeInt:
		return "BIGINT"
	case entity.TypeFloat:
		return "DOUBLE"
	case entity.TypeBool:
		return "BOOLEAN"
	case entity.TypeTime:
		return "DATETIME(6)"
	case entity.TypeBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}
