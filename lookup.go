// lookup.go: Get/Has and the shared Robin-Hood probe routine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"github.com/agilira/triton/internal/index"
	"github.com/agilira/triton/internal/store"
)

// probeResult carries what a probe found (or where an absent key
// would be inserted).
type probeResult[K comparable, V comparable] struct {
	slot  uint64
	word  index.Word
	entry *store.Entry[K, V]
	found bool
}

// probe walks gen's Robin-Hood chain for (hash, key) starting at its
// home slot, stopping as soon as the Robin-Hood ordering (a slot whose
// stored distance is below the current probe distance implies absence)
// lets it conclude the key is not present. It never
// mutates gen; callers needing to install, replace, or delete perform
// their own CAS against the returned slot/word.
func (d *Dict[K, V]) probe(gen *index.Generation, hash uint64, key K) probeResult[K, V] {
	tag := index.TagOf(hash)
	mask := gen.Mask()
	i := gen.Home(hash)
	dist := uint8(0)

	for {
		w := gen.Load(i)
		if w.IsEmpty() {
			return probeResult[K, V]{slot: i, word: w}
		}
		if !w.IsTombstone() && w.Tag() == tag {
			e := d.store.EntryAt(w.EntryIndexPlus1() - 1)
			if e.Flags().Live() && e.Key() == key {
				return probeResult[K, V]{slot: i, word: w, entry: e, found: true}
			}
		}
		if w.Distance() < dist {
			return probeResult[K, V]{slot: i, word: w}
		}
		i = (i + 1) & mask
		dist++
		if dist > index.MaxDistance {
			return probeResult[K, V]{slot: i, word: w}
		}
	}
}

// resolve returns the generation an operation should actually probe:
// the current generation after helping any in-progress migration by
// one bounded chunk. While that migration is unfinished this is still
// the old generation, which stays valid to query until every slot has
// been migrated.
func (d *Dict[K, V]) resolve() *index.Generation {
	return d.helpMigrate(d.currentGeneration())
}

// Get returns the value mapped to key, and whether it was present.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	start := d.config.TimeProvider.Now()
	slot := d.enter()
	defer d.exit(slot)

	gen := d.resolve()
	hash := d.hasher(key)
	r := d.probe(gen, hash, key)

	d.config.MetricsCollector.RecordGet(d.config.TimeProvider.Now()-start, r.found)
	if !r.found {
		var zero V
		return zero, false
	}
	v, _ := r.entry.Value()
	return v, true
}

// GetOrDefault returns the value mapped to key, or def if absent.
func (d *Dict[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present, without retrieving its value.
func (d *Dict[K, V]) Has(key K) bool {
	_, ok := d.Get(key)
	return ok
}
