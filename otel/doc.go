// Package otel provides OpenTelemetry integration for triton metrics.
//
// # Overview
//
// This package implements the triton.MetricsCollector interface using
// OpenTelemetry, enabling automatic percentile calculation (p50, p95,
// p99) and multi-backend export (Prometheus, Jaeger, DataDog, Grafana).
//
// The package is a separate module so the triton core stays free of
// OTEL dependencies. Applications that don't configure a
// MetricsCollector never link the OTEL SDK.
//
// # Installation
//
//	go get github.com/agilira/triton/otel
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/triton"
//	    tritonotel "github.com/agilira/triton/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	metricsCollector, err := tritonotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dict, _ := triton.New[string, int64](triton.Config{
//	    MetricsCollector: metricsCollector,
//	}, nil)
//
//	dict.Set("requests", 1)
//	dict.Get("requests")
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Histograms (with automatic percentiles):
//   - triton_get_latency_ns
//   - triton_set_latency_ns
//   - triton_delete_latency_ns
//   - triton_cas_latency_ns
//   - triton_reduce_latency_ns
//
// Counters:
//   - triton_get_hits_total / triton_get_misses_total
//   - triton_cas_succeeded_total / triton_cas_failed_total
//   - triton_reduce_entries_total
//   - triton_migrations_total (labeled direction=grow|shrink)
//   - triton_migration_slots_total
//
// # Configuration
//
// Custom meter name (useful for distinguishing multiple Dict instances):
//
//	collector, err := tritonotel.NewOTelMetricsCollector(
//	    provider,
//	    tritonotel.WithMeterName("myapp_session_dict"),
//	)
//
// Custom histogram buckets for better percentile accuracy at a given
// latency scale:
//
//	provider := metric.NewMeterProvider(
//	    metric.WithReader(exporter),
//	    metric.WithView(metric.NewView(
//	        metric.Instrument{Name: "triton_get_latency_ns"},
//	        metric.Stream{
//	            Aggregation: metric.AggregationExplicitBucketHistogram{
//	                Boundaries: []float64{50, 100, 200, 500, 1000, 2000, 5000},
//	            },
//	        },
//	    )),
//	)
//
// # Prometheus Queries
//
// P95 Get latency over the last 5 minutes:
//
//	histogram_quantile(0.95, rate(triton_get_latency_ns_bucket[5m]))
//
// Hit ratio:
//
//	rate(triton_get_hits_total[5m]) /
//	(rate(triton_get_hits_total[5m]) + rate(triton_get_misses_total[5m]))
//
// Migration rate by direction:
//
//	rate(triton_migrations_total[5m])
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│       triton.Dict (Core Module)     │
//	│  • No OTEL dependencies             │
//	│  • MetricsCollector interface       │
//	│  • NoOpMetricsCollector (default)   │
//	└──────────────┬──────────────────────┘
//	               │ implements
//	               ▼
//	┌─────────────────────────────────────┐
//	│    triton/otel (This Package)       │
//	│  • OTelMetricsCollector             │
//	│  • Histograms + Counters            │
//	└──────────────┬──────────────────────┘
//	               │ exports to
//	               ▼
//	        OTEL MeterProvider
//	     ┌─────────┴──────┬────────┐
//	     ▼                ▼        ▼
//	Prometheus        Jaeger   DataDog
//
// # Thread Safety
//
// All methods are safe for concurrent use; the underlying OTEL
// instruments handle their own synchronization. None of them block,
// so calling them from the hot path adds no lock contention.
//
// # Compatibility
//
//   - Go 1.25+
//   - OpenTelemetry v1.31.0+
//
// # License
//
// Same as the triton core (see LICENSE in the main repository).
package otel
