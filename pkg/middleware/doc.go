// Package middleware provides observability middleware for the dgrid HTTP
// server.
//
// This package includes:
//   - Prometheus metrics for HTTP requests and live grid sessions
//   - OpenTelemetry tracing for HTTP requests and grid events
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("dgrid"))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// Requests are labelled by chi route pattern, not raw path, to keep label
// cardinality bounded.
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("dgrid")))
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// EventTracer traces grid events received over a live session.
package middleware
