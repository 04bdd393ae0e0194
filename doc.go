// Package triton provides a concurrent, almost-lock-free hash map for
// many-writer, many-reader Go workloads.
//
// # Overview
//
// Triton is built around three ideas:
//
//   - Two-level storage: a compact index of tagged slot words
//     (internal/index) sits over an append-only array of entry
//     records (internal/store), so the index can be rebuilt by
//     migration without ever moving an entry's address.
//   - Robin-Hood probing: every slot word carries a probe distance,
//     letting lookups stop as soon as distance strictly decreases
//     instead of scanning to an empty slot.
//   - Cooperative migration: growing or shrinking the index publishes
//     a successor generation and lets every operation that touches
//     the old one help copy a bounded chunk forward, rather than
//     blocking behind a dedicated resize goroutine.
//
// # Quick Start
//
//	d, err := triton.New[string, int](triton.DefaultConfig(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d.Set("requests", 1)
//	if v, ok := d.Get("requests"); ok {
//	    fmt.Println(v)
//	}
//
//	if err := d.CompareAndSet("requests", 1, 2); err != nil {
//	    if triton.IsExpectationFailed(err) {
//	        // someone else updated it first
//	    }
//	}
//
// # Compare-and-set and deletion
//
// CompareAndSet and CompareAndDelete require V to satisfy comparable,
// so the engine can check the expected value with a plain == rather
// than calling back into user code (see DESIGN.md for why this
// departs from a fully dynamic value type). Delete and
// CompareAndDelete return a structured, coded error
// (ErrCodeKeyNotFound / ErrCodeExpectationFailed) rather than a bare
// bool, following the same go-errors idiom as every other Triton
// error.
//
// # Bulk operations
//
//	d.BatchGetItem(batch, -1)                 // rewrite a map in place
//	triton.ReduceSum(intDict, stream)          // fast integer accumulation
//	d.Reduce(stream, func(k string, cur, in int) int { return cur + in })
//	d.UpdateBy(func(k string, v int) (int, bool) { return v + 1, true })
//
// FastIter partitions the live entries across N goroutines by
// entry-store position range (stable across migrations, unlike index
// slots):
//
//	seq, _ := d.FastIter(4, partitionIndex)
//	for k, v := range seq {
//	    process(k, v)
//	}
//
// # Concurrency model
//
// Every structural mutation is a single-word compare-and-swap against
// a slot word or an entry's flags/value; no mutex is ever held across
// an operation. Reads and writes on a generation mid-migration help
// that migration forward before proceeding, rather than blocking.
// Single-key operations are linearizable; BatchGetItem, Reduce, and
// UpdateBy are linearizable per element but not as a whole. Len() is
// exact but O(n); ApproxLen()/LenBounds() are O(1) and eventually
// consistent.
//
// # Observability
//
//	metricsCollector, _ := tritonotel.NewOTelMetricsCollector(provider)
//	d, _ := triton.New[string, int](triton.Config{
//	    MetricsCollector: metricsCollector,
//	}, nil)
//
// The core triton package has no OpenTelemetry dependency; github.com/agilira/triton/otel
// is a separate module implementing MetricsCollector.
//
// # Error handling
//
// Every error Triton returns is a structured github.com/agilira/go-errors
// value with a stable ErrCode* constant, optional context fields, and
// (where applicable) AsRetryable()/WithSeverity() metadata. See
// errors.go for the full list and the Is*/GetErrorCode/GetErrorContext
// helpers.
//
// # Packages
//
//   - github.com/agilira/triton: the core map, AtomicEvent and
//     CountDownLatch.
//   - github.com/agilira/triton/atomicint, github.com/agilira/triton/atomicref:
//     the overflow-checked atomic integer and the atomic reference cell.
//   - github.com/agilira/triton/atomiccache: the memoizing cache layered
//     on top of the core map.
//   - github.com/agilira/triton/otel: OpenTelemetry MetricsCollector
//     (separate module).
//
// # License
//
// See LICENSE file in the repository.
package triton
