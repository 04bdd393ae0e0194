// reduce.go: Reduce, its integer fast paths, and UpdateBy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

// Reduce applies fn to every (key, incoming) pair in stream, combining
// it with the entry's current value (or V's zero value, for a key not
// yet present) and installing the result. Stream entries sharing a
// key are first locally combined via fn in stream order, so the map
// itself only ever sees one CAS-retry loop per distinct key rather
// than one per stream element — the contention-minimizing strategy
// the distilled spec calls for. Call order across goroutines running
// concurrent Reduce calls is unspecified (§9); within one call,
// same-key entries combine in the order they appear in stream.
func (d *Dict[K, V]) Reduce(stream []KV[K, V], fn ReduceFunc[K, V]) error {
	if err := d.checkOpen("reduce"); err != nil {
		return err
	}
	start := d.config.TimeProvider.Now()

	acc := make(map[K]V, len(stream))
	order := make([]K, 0, len(stream))
	for _, kv := range stream {
		if cur, ok := acc[kv.Key]; ok {
			acc[kv.Key] = fn(kv.Key, cur, kv.Value)
		} else {
			acc[kv.Key] = kv.Value
			order = append(order, kv.Key)
		}
	}

	var firstErr error
	for _, key := range order {
		if err := d.reduceOne(key, acc[key], fn); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	d.config.MetricsCollector.RecordReduce(d.config.TimeProvider.Now()-start, len(stream))
	return firstErr
}

func (d *Dict[K, V]) reduceOne(key K, incoming V, fn ReduceFunc[K, V]) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = NewErrPanicRecovered("Reduce", p)
		}
	}()

	slot := d.enter()
	defer d.exit(slot)

	hash := d.hasher(key)
	for {
		gen := d.resolve()
		r := d.probe(gen, hash, key)
		if r.found {
			cur, _ := r.entry.Value()
			next := fn(key, cur, incoming)
			if r.entry.CompareAndSwapValue(cur, next) {
				return nil
			}
			continue
		}

		var zero V
		next := fn(key, zero, incoming)
		if d.Insert(key, next) {
			return nil
		}
		// A concurrent writer installed key between our probe and the
		// Insert attempt; loop and fold incoming into its value instead.
	}
}

// ReduceSum combines stream into d by addition, installing
// current+incoming for every key in stream (current is 0 if absent).
func ReduceSum[K comparable](d *Dict[K, int64], stream []KV[K, int64]) error {
	return d.Reduce(stream, func(_ K, current, incoming int64) int64 {
		return current + incoming
	})
}

// ReduceMin installs min(current, incoming) for every key in stream
// (current is treated as +incoming, i.e. incoming wins, when absent).
// Absent keys are first seeded with a stream value, so Reduce's zero
// value for a missing key never enters the minimum.
func ReduceMin[K comparable](d *Dict[K, int64], stream []KV[K, int64]) error {
	for _, kv := range stream {
		d.Insert(kv.Key, kv.Value)
	}
	return d.Reduce(stream, func(_ K, current, incoming int64) int64 {
		if incoming < current {
			return incoming
		}
		return current
	})
}

// ReduceMax installs max(current, incoming) for every key in stream.
// Absent keys are first seeded with a stream value, so Reduce's zero
// value for a missing key never enters the maximum.
func ReduceMax[K comparable](d *Dict[K, int64], stream []KV[K, int64]) error {
	for _, kv := range stream {
		d.Insert(kv.Key, kv.Value)
	}
	return d.Reduce(stream, func(_ K, current, incoming int64) int64 {
		if incoming > current {
			return incoming
		}
		return current
	})
}

// ReduceAnd installs current&incoming for every key in stream
// (absent keys are seeded with incoming, i.e. incoming wins).
func ReduceAnd[K comparable](d *Dict[K, uint64], stream []KV[K, uint64]) error {
	for _, kv := range stream {
		d.Insert(kv.Key, kv.Value)
	}
	return d.Reduce(stream, func(_ K, current, incoming uint64) uint64 {
		return current & incoming
	})
}

// ReduceOr installs current|incoming for every key in stream.
func ReduceOr[K comparable](d *Dict[K, uint64], stream []KV[K, uint64]) error {
	return d.Reduce(stream, func(_ K, current, incoming uint64) uint64 {
		return current | incoming
	})
}

// UpdateBy applies fn to every live entry currently in the map,
// installing the returned value unless fn's second return is false
// (skip this entry). fn may be called more than once per key if its
// CAS loses a race against a concurrent writer.
func (d *Dict[K, V]) UpdateBy(fn UpdateFunc[K, V]) (err error) {
	if err := d.checkOpen("updateBy"); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			err = NewErrPanicRecovered("UpdateBy", p)
		}
	}()

	slot := d.enter()
	defer d.exit(slot)

	n := d.store.Len()
	for pos := uint64(0); pos < n; pos++ {
		e := d.store.EntryAt(pos)
		for {
			if !e.Flags().Live() {
				break
			}
			cur, _ := e.Value()
			next, ok := fn(e.Key(), cur)
			if !ok {
				break
			}
			if e.CompareAndSwapValue(cur, next) {
				break
			}
		}
	}
	return nil
}
