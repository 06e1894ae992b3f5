// Package metrics records repository invocation latency in Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/methodql/internal/repository"
)

// MiddlewareBuilder builds the metrics middleware. Latency is observed in
// milliseconds on a summary labelled by repository, method, kind and
// status ("ok" or "error").
type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Build registers the summary vector and returns the middleware. It
// panics if a collector with the same name is already registered.
func (m MiddlewareBuilder) Build() repository.Middleware {
	vector := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: m.Namespace,
		Subsystem: m.Subsystem,
		Name:      m.Name,
		Help:      m.Help,
		Objectives: map[float64]float64{
			0.5:   0.01,
			0.75:  0.01,
			0.90:  0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"repository", "method", "kind", "status"})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vector)

	return func(next repository.Handler) repository.Handler {
		return func(ctx context.Context, inv *repository.Invocation) *repository.Outcome {
			start := time.Now()
			out := next(ctx, inv)

			status := "ok"
			if out == nil || out.Err != nil {
				status = "error"
			}
			elapsed := float64(time.Since(start).Microseconds()) / 1000
			vector.WithLabelValues(inv.Method.Repository, inv.Method.Name,
				inv.Method.Kind().String(), status).Observe(elapsed)
			return out
		}
	}
}
