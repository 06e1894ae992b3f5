// Package querylog logs every statement a repository executes.
package querylog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/methodql/internal/repository"
)

// MiddlewareBuilder builds the query logging middleware.
type MiddlewareBuilder struct {
	logger  *zap.Logger
	logArgs bool
}

// NewBuilder logs to logger at Debug level. nil means a no-op logger.
func NewBuilder(logger *zap.Logger) *MiddlewareBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MiddlewareBuilder{logger: logger, logArgs: true}
}

// LogArgs controls whether bound values are logged. Disable it when
// arguments may carry sensitive data.
func (b *MiddlewareBuilder) LogArgs(enabled bool) *MiddlewareBuilder {
	b.logArgs = enabled
	return b
}

// Build returns the middleware.
func (b *MiddlewareBuilder) Build() repository.Middleware {
	return func(next repository.Handler) repository.Handler {
		return func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
			start := time.Now()
			out := next(ctx, inv)

			fields := []zap.Field{
				zap.String("invocation_id", inv.ID),
				zap.String("repository", inv.Method.Repository),
				zap.String("method", inv.Method.Name),
				zap.String("sql", inv.SQL),
				zap.Duration("elapsed", time.Since(start)),
			}
			if b.logArgs {
				fields = append(fields, zap.Any("args", inv.Args))
			}
			if out != nil && out.Err != nil {
				b.logger.Error("Statement failed", append(fields, zap.Error(out.Err))...)
				return out
			}
			b.logger.Debug("Executed statement", fields...)
			return out
		}
	}
}
