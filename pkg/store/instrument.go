package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentConfig configures Instrument.
type InstrumentConfig struct {
	// Namespace is the metrics namespace (default: "dgrid").
	Namespace string

	// Registry receives the collectors (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for operation latency.
	Buckets []float64

	// TracerName is the OpenTelemetry tracer name (default: "dgrid/store").
	TracerName string
}

// InstrumentOption configures Instrument.
type InstrumentOption func(*InstrumentConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Registry = registry
	}
}

// WithBuckets sets the latency histogram buckets.
func WithBuckets(buckets []float64) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Buckets = buckets
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.TracerName = name
	}
}

// Metrics holds the collectors shared by every handle derived from one
// Instrument call.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    prometheus.Histogram
	tracer   trace.Tracer
}

// NewMetrics registers the store collectors.
func NewMetrics(opts ...InstrumentOption) *Metrics {
	config := InstrumentConfig{
		Namespace:  "dgrid",
		Registry:   prometheus.DefaultRegisterer,
		Buckets:    prometheus.DefBuckets,
		TracerName: "dgrid/store",
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind and outcome",
		}, []string{"op", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency in seconds",
			Buckets:   config.Buckets,
		}, []string{"op"}),

		items: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "store",
			Name:      "fetched_items",
			Help:      "Items returned per fetch",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
		}),

		tracer: otel.Tracer(config.TracerName),
	}
}

// Instrumented wraps a Store, recording metrics and spans for Fetch and
// Update. Sort and Range return instrumented handles.
type Instrumented struct {
	inner   Store
	metrics *Metrics
}

// Instrument wraps s with freshly registered metrics.
func Instrument(s Store, opts ...InstrumentOption) *Instrumented {
	return InstrumentWith(s, NewMetrics(opts...))
}

// InstrumentWith wraps s reusing m.
func InstrumentWith(s Store, m *Metrics) *Instrumented {
	if in, ok := s.(*Instrumented); ok {
		s = in.inner
	}
	return &Instrumented{inner: s, metrics: m}
}

// Unwrap returns the wrapped store.
func (s *Instrumented) Unwrap() Store { return s.inner }

// Sort implements Store.
func (s *Instrumented) Sort(field string, descending bool) Store {
	return &Instrumented{inner: s.inner.Sort(field, descending), metrics: s.metrics}
}

// Range implements Store.
func (s *Instrumented) Range(start, count int) Store {
	return &Instrumented{inner: s.inner.Range(start, count), metrics: s.metrics}
}

// Fetch implements Store.
func (s *Instrumented) Fetch(ctx context.Context) (Result, error) {
	ctx, span := s.metrics.tracer.Start(ctx, "store.Fetch",
		trace.WithAttributes(attribute.String("dgrid.query", describe(s.inner))))
	defer span.End()

	start := time.Now()
	res, err := s.inner.Fetch(ctx)
	s.record("fetch", start, err, span)
	if err == nil {
		s.metrics.items.Observe(float64(len(res.Items)))
		span.SetAttributes(
			attribute.Int("dgrid.items", len(res.Items)),
			attribute.Int("dgrid.total", res.Total),
		)
	}
	return res, err
}

// Update implements Store.
func (s *Instrumented) Update(ctx context.Context, id, field string, value any) error {
	ctx, span := s.metrics.tracer.Start(ctx, "store.Update",
		trace.WithAttributes(
			attribute.String("dgrid.row_id", id),
			attribute.String("dgrid.field", field),
		))
	defer span.End()

	start := time.Now()
	err := s.inner.Update(ctx, id, field, value)
	s.record("update", start, err, span)
	return err
}

func (s *Instrumented) record(op string, start time.Time, err error, span trace.Span) {
	s.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = errorStatus(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	s.metrics.ops.WithLabelValues(op, status).Inc()
}

// errorStatus keeps label cardinality bounded.
func errorStatus(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}

func describe(s Store) string {
	if st, ok := s.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", s)
}
