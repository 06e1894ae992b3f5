package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/roach88/methodql/internal/params"
	"github.com/roach88/methodql/internal/querysql"
)

// sqliteDriver is go-sqlite3 with upper() replaced by the Unicode case
// mapping IgnoreCase parameters are transformed with. The built-in upper()
// only folds ASCII.
const sqliteDriver = "sqlite3_methodql"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("upper", upperValue, true)
		},
	})
}

// upperValue upper-cases text and passes other values (NULL included)
// through unchanged.
func upperValue(v any) any {
	if s, ok := v.(string); ok {
		return params.Upper(s)
	}
	return v
}

// Store wraps the database connection and its SQL dialect.
type Store struct {
	db      *sql.DB
	dialect querysql.Dialect
}

// Open connects to the database named by driver ("sqlite3" or "mysql")
// and dsn. For sqlite3, dsn is a file path or ":memory:".
//
// sqlite3 connections are limited to one open connection so an in-memory
// database is shared by every query.
func Open(driver, dsn string) (*Store, error) {
	dialect, err := querysql.DialectFor(driver)
	if err != nil {
		return nil, err
	}

	driverName := dialect.Name()
	if dialect == querysql.SQLite {
		driverName = sqliteDriver
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == querysql.SQLite {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return &Store{db: db, dialect: dialect}, nil
}

// New wraps an existing connection, e.g. one from sqlmock.
func New(db *sql.DB, dialect querysql.Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect of the connection.
func (s *Store) Dialect() querysql.Dialect {
	return s.dialect
}

// QueryContext executes a query. Callers close the returned rows.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement without returning rows.
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
