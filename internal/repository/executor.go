package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/entity"
	"github.com/roach88/methodql/internal/params"
	"github.com/roach88/methodql/internal/querysql"
)

// DB runs statements. *sql.DB, *sql.Tx and *store.Store satisfy it.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Invocation is the middleware context of one repository call. The SQL
// and its args are final by the time middlewares see them.
type Invocation struct {
	// ID identifies the call in logs and traces.
	ID string

	Method *Method
	SQL    string
	Args   []any
}

// Outcome is what a Handler produces for an Invocation.
type Outcome struct {
	// Rows holds the scanned rows of a select.
	Rows []Row

	// Count holds the count of a count query or the rows affected by a delete.
	Count int64

	Err error
}

// Handler executes an Invocation.
type Handler func(ctx context.Context, inv *Invocation) *Outcome

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Executor invokes repository methods against a database.
type Executor struct {
	registry *Registry
	db       DB
	compiler *querysql.Compiler
	handler  Handler
	ids      IDGenerator
	logger   *zap.Logger

	middlewares []Middleware
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithMiddlewares appends middlewares. The first one given is the outermost.
func WithMiddlewares(ms ...Middleware) ExecutorOption {
	return func(e *Executor) {
		e.middlewares = append(e.middlewares, ms...)
	}
}

// WithIDGenerator sets the invocation id generator.
func WithIDGenerator(g IDGenerator) ExecutorOption {
	return func(e *Executor) {
		if g != nil {
			e.ids = g
		}
	}
}

// WithExecutorLogger sets the logger. nil keeps the no-op logger.
func WithExecutorLogger(logger *zap.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor returns an Executor running registry methods on db.
func NewExecutor(registry *Registry, db DB, dialect querysql.Dialect, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		db:       db,
		compiler: querysql.NewCompiler(dialect),
		ids:      UUIDv7Generator{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	root := e.execute
	for i := len(e.middlewares) - 1; i >= 0; i-- {
		root = e.middlewares[i](root)
	}
	e.handler = root
	return e
}

// Invoke binds args to the method's parameters, executes it and shapes
// the result by the method's prefix. params.MaxResults and
// params.FirstResult arguments restrict a select.
func (e *Executor) Invoke(ctx context.Context, repository, method string, args ...any) (*Result, error) {
	m, err := e.registry.Lookup(repository, method)
	if err != nil {
		return nil, err
	}

	fail := func(code InvocationErrorCode, msg string, cause error) error {
		return &InvocationError{Code: code, Repository: repository, Method: method, Message: msg, Err: cause}
	}

	bound, err := params.Bind(m.Root.ParameterCount(), args, m.Root.Prefix().MaxResults())
	if err != nil {
		return nil, fail(ErrCodeArityMismatch, "arguments do not match parameters", err)
	}
	if err := bound.Apply(m.Root.ParameterTransforms()); err != nil {
		return nil, fail(ErrCodeArityMismatch, "parameter transform failed", err)
	}

	query, sqlArgs, err := e.compiler.Compile(m.Root, m.Model, bound)
	if err != nil {
		return nil, fail(ErrCodeExecutionFailed, "statement could not be built", err)
	}

	inv := &Invocation{
		ID:     e.ids.Generate(),
		Method: m,
		SQL:    query,
		Args:   sqlArgs,
	}
	out := e.handler(ctx, inv)
	if out == nil {
		out = &Outcome{Err: fmt.Errorf("middleware returned no outcome")}
	}
	if out.Err != nil {
		e.logger.Debug("invocation failed",
			zap.String("invocation_id", inv.ID),
			zap.String("repository", repository),
			zap.String("method", method),
			zap.Error(out.Err))
		return nil, fail(ErrCodeExecutionFailed, "statement failed", out.Err)
	}

	return &Result{
		id:     inv.ID,
		method: m,
		rows:   out.Rows,
		count:  out.Count,
	}, nil
}

// execute is the innermost Handler.
func (e *Executor) execute(ctx context.Context, inv *Invocation) *Outcome {
	switch inv.Method.Kind() {
	case derive.KindSelect:
		rows, err := e.db.QueryContext(ctx, inv.SQL, inv.Args...)
		if err != nil {
			return &Outcome{Err: err}
		}
		defer rows.Close()
		scanned, err := readRows(e.logger, inv.Method.Model, rows)
		return &Outcome{Rows: scanned, Err: err}

	case derive.KindCount:
		rows, err := e.db.QueryContext(ctx, inv.SQL, inv.Args...)
		if err != nil {
			return &Outcome{Err: err}
		}
		defer rows.Close()
		var n int64
		if rows.Next() {
			if err := rows.Scan(&n); err != nil {
				return &Outcome{Err: err}
			}
		}
		return &Outcome{Count: n, Err: rows.Err()}

	case derive.KindDelete:
		res, err := e.db.ExecContext(ctx, inv.SQL, inv.Args...)
		if err != nil {
			return &Outcome{Err: err}
		}
		n, err := res.RowsAffected()
		return &Outcome{Count: n, Err: err}

	default:
		return &Outcome{Err: fmt.Errorf("unsupported query kind: %s", inv.Method.Kind())}
	}
}

// readRows scans rows into maps keyed by property path.
func readRows(logger *zap.Logger, model *entity.Model, rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			path, ok := model.PathForColumn(col)
			if !ok {
				logger.Warn("Column not mapped to a property, using column name", zap.String("column", col))
				row[col] = values[i]
				continue
			}
			prop, _ := model.Property(path)
			row[path] = convertValue(prop.Type, values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}

// convertValue normalizes driver values: mysql returns text as []byte and
// sqlite may return booleans as integers.
func convertValue(t entity.Type, v any) any {
	switch val := v.(type) {
	case []byte:
		if t == entity.TypeBytes {
			return val
		}
		return string(val)
	case int64:
		if t == entity.TypeBool {
			return val != 0
		}
	}
	return v
}
