package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/methodql/internal/repository"
	"github.com/roach88/methodql/internal/testutil"
)

func invocation(t *testing.T, method string) *repository.Invocation {
	t.Helper()
	reg := repository.New()
	require.NoError(t, reg.RegisterModel("SimpleRepository", "", testutil.SimpleModel(t)))
	m, err := reg.Lookup("SimpleRepository", method)
	require.NoError(t, err)
	return &repository.Invocation{
		ID:     "inv-1",
		Method: m,
		SQL:    `SELECT "id" FROM "simple" WHERE "name" = ?`,
	}
}

func newBuilder() (*MiddlewareBuilder, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return &MiddlewareBuilder{Tracer: tp.Tracer("test")}, sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestMiddlewareBuilder_RecordsSpan(t *testing.T) {
	b, sr := newBuilder()

	var inner trace.SpanContext
	next := func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
		inner = trace.SpanContextFromContext(ctx)
		return &repository.Outcome{Rows: []repository.Row{{"id": 1}, {"id": 2}}}
	}
	b.Build()(next)(context.Background(), invocation(t, "findByName"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "SimpleRepository.findByName", span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())
	assert.Equal(t, span.SpanContext().SpanID(), inner.SpanID(), "handler runs inside the span")

	a := attrs(span)
	assert.Equal(t, "inv-1", a["methodql.invocation_id"].AsString())
	assert.Equal(t, "select", a["methodql.kind"].AsString())
	assert.Equal(t, "select e from Simple e where e.name = ?1", a["methodql.query"].AsString())
	assert.Equal(t, "simple", a["db.sql.table"].AsString())
	assert.Equal(t, int64(2), a["methodql.rows"].AsInt64())
}

func TestMiddlewareBuilder_RecordsError(t *testing.T) {
	b, sr := newBuilder()

	next := func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
		return &repository.Outcome{Err: errors.New("boom")}
	}
	b.Build()(next)(context.Background(), invocation(t, "deleteByCounterLessThan"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestMiddlewareBuilder_DefaultTracer(t *testing.T) {
	b := &MiddlewareBuilder{}
	mw := b.Build()
	require.NotNil(t, b.Tracer)

	out := mw(func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
		return &repository.Outcome{Count: 3}
	})(context.Background(), invocation(t, "countByEnabledTrue"))
	assert.Equal(t, int64(3), out.Count)
}
