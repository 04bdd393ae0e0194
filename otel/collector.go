// Package otel provides OpenTelemetry integration for triton metrics.
//
// This package implements the triton.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation (p50, p95, p99) and
// multi-backend export (Prometheus, Jaeger, DataDog, Grafana) without
// the core package taking a dependency on the OTEL SDK.
//
// # Usage
//
//	import (
//	    "github.com/agilira/triton"
//	    tritonotel "github.com/agilira/triton/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	metricsCollector, _ := tritonotel.NewOTelMetricsCollector(provider)
//
//	dict, _ := triton.New[string, int64](triton.Config{
//	    MetricsCollector: metricsCollector,
//	}, nil)
//
// # Metrics Exposed
//
//   - triton_get_latency_ns: Histogram of Get operation latencies
//   - triton_set_latency_ns: Histogram of Set/Insert operation latencies
//   - triton_delete_latency_ns: Histogram of Delete operation latencies
//   - triton_cas_latency_ns: Histogram of CompareAndSet/CompareAndDelete latencies
//   - triton_reduce_latency_ns: Histogram of Reduce-family call latencies
//   - triton_get_hits_total / triton_get_misses_total: Get outcome counters
//   - triton_cas_succeeded_total / triton_cas_failed_total: CompareAndSet outcome counters
//   - triton_reduce_entries_total: Sum of entries processed across Reduce calls
//   - triton_migrations_total: Counter of completed migrations, by direction
//   - triton_migration_slots_total: Sum of old-generation slots migrated across all migrations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/triton"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements triton.MetricsCollector using
// OpenTelemetry instruments. Every method is safe for concurrent use
// and non-blocking, matching the interface's hot-path contract.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	casLatency    metric.Int64Histogram
	reduceLatency metric.Int64Histogram

	hits        metric.Int64Counter
	misses      metric.Int64Counter
	casOK       metric.Int64Counter
	casFailed   metric.Int64Counter
	reduceCount metric.Int64Counter

	migrations     metric.Int64Counter
	migrationSlots metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/triton"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing
// metrics from multiple Dict instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a collector backed by provider.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/triton"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &OTelMetricsCollector{}

	var err error
	if c.getLatency, err = meter.Int64Histogram(
		"triton_get_latency_ns",
		metric.WithDescription("Latency of Get/GetOrDefault/Has operations"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.setLatency, err = meter.Int64Histogram(
		"triton_set_latency_ns",
		metric.WithDescription("Latency of Set/Insert operations"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.deleteLatency, err = meter.Int64Histogram(
		"triton_delete_latency_ns",
		metric.WithDescription("Latency of Delete operations"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.casLatency, err = meter.Int64Histogram(
		"triton_cas_latency_ns",
		metric.WithDescription("Latency of CompareAndSet/CompareAndDelete operations"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.reduceLatency, err = meter.Int64Histogram(
		"triton_reduce_latency_ns",
		metric.WithDescription("Latency of Reduce-family operations"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}

	if c.hits, err = meter.Int64Counter(
		"triton_get_hits_total",
		metric.WithDescription("Total number of Get hits"),
	); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter(
		"triton_get_misses_total",
		metric.WithDescription("Total number of Get misses"),
	); err != nil {
		return nil, err
	}
	if c.casOK, err = meter.Int64Counter(
		"triton_cas_succeeded_total",
		metric.WithDescription("Total number of CompareAndSet/CompareAndDelete successes"),
	); err != nil {
		return nil, err
	}
	if c.casFailed, err = meter.Int64Counter(
		"triton_cas_failed_total",
		metric.WithDescription("Total number of CompareAndSet/CompareAndDelete expectation failures"),
	); err != nil {
		return nil, err
	}
	if c.reduceCount, err = meter.Int64Counter(
		"triton_reduce_entries_total",
		metric.WithDescription("Total entries processed across Reduce-family calls"),
	); err != nil {
		return nil, err
	}
	if c.migrations, err = meter.Int64Counter(
		"triton_migrations_total",
		metric.WithDescription("Total completed migrations, by direction"),
	); err != nil {
		return nil, err
	}
	if c.migrationSlots, err = meter.Int64Counter(
		"triton_migration_slots_total",
		metric.WithDescription("Total old-generation slots migrated across all migrations"),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordGet implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordDelete implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordCompareAndSet implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordCompareAndSet(latencyNs int64, succeeded bool) {
	ctx := context.Background()
	c.casLatency.Record(ctx, latencyNs)
	if succeeded {
		c.casOK.Add(ctx, 1)
	} else {
		c.casFailed.Add(ctx, 1)
	}
}

// RecordReduce implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordReduce(latencyNs int64, approxCount int) {
	ctx := context.Background()
	c.reduceLatency.Record(ctx, latencyNs)
	c.reduceCount.Add(ctx, int64(approxCount))
}

// RecordMigration implements triton.MetricsCollector.
func (c *OTelMetricsCollector) RecordMigration(grow bool, slotsMigrated int) {
	ctx := context.Background()
	direction := "shrink"
	if grow {
		direction = "grow"
	}
	c.migrations.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction)))
	c.migrationSlots.Add(ctx, int64(slotsMigrated))
}

// Compile-time interface check.
var _ triton.MetricsCollector = (*OTelMetricsCollector)(nil)
