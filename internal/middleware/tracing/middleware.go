// Package tracing wraps every repository invocation in an OpenTelemetry span.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/methodql/internal/repository"
)

const instrumentationName = "github.com/roach88/methodql/internal/middleware/tracing"

// MiddlewareBuilder builds the tracing middleware.
type MiddlewareBuilder struct {
	// Tracer defaults to a tracer from the global provider.
	Tracer trace.Tracer
}

// Build returns the middleware. Spans are named "Repository.method".
func (m *MiddlewareBuilder) Build() repository.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next repository.Handler) repository.Handler {
		return func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
			ctx, span := m.Tracer.Start(ctx, inv.Method.Repository+"."+inv.Method.Name,
				trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(
				attribute.String("methodql.invocation_id", inv.ID),
				attribute.String("methodql.kind", inv.Method.Kind().String()),
				attribute.String("methodql.query", inv.Method.Query()),
				attribute.String("db.statement", inv.SQL),
				attribute.String("db.sql.table", inv.Method.Model.Table()),
			)

			out := next(ctx, inv)
			if out == nil {
				return out
			}
			if out.Err != nil {
				span.RecordError(out.Err)
				span.SetStatus(codes.Error, out.Err.Error())
				return out
			}
			span.SetAttributes(attribute.Int("methodql.rows", len(out.Rows)))
			return out
		}
	}
}
