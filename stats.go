// stats.go: size estimation, compaction, and operation statistics
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"math"

	"github.com/agilira/triton/internal/index"
	"github.com/agilira/triton/internal/migrate"
)

// DictStats reports a point-in-time snapshot of a Dict's internal
// bookkeeping, grounded on the teacher's CacheStats (size/hit/miss
// atomic counters in cache.go), extended with migration-relevant
// fields the cache had no equivalent of.
type DictStats struct {
	// ApproxLive is the optimistically maintained live-entry count
	// (adjusted on every insert/delete; only Compact reconciles it
	// against a full scan).
	ApproxLive int64

	// AllocatedEntries is the number of entry-store positions ever
	// allocated, including tombstoned ones.
	AllocatedEntries uint64

	// IndexCapacity is the current generation's slot count.
	IndexCapacity uint64

	// GenerationState is the current generation's migration state
	// (0 Active, 1 Resizing, 2 Published, 3 Retired).
	GenerationState uint32
}

// LenBounds returns a cheap lower and upper bound on the number of
// live entries: the optimistic counter floored at zero, and the
// number of store positions ever allocated. The true count always
// lies in [lo, hi].
func (d *Dict[K, V]) LenBounds() (lo, hi int) {
	live := d.live.Load()
	if live < 0 {
		live = 0
	}
	return int(live), int(d.store.Len())
}

// ApproxLen returns the optimistically maintained live-entry count,
// O(1) and without synchronizing with in-flight writers.
func (d *Dict[K, V]) ApproxLen() int {
	live := d.live.Load()
	if live < 0 {
		return 0
	}
	return int(live)
}

// Len returns the exact number of live entries via a full scan over
// every allocated store position. O(n); prefer ApproxLen on the hot
// path.
func (d *Dict[K, V]) Len() int {
	slot := d.enter()
	defer d.exit(slot)

	n := d.store.Len()
	count := 0
	for pos := uint64(0); pos < n; pos++ {
		if d.store.EntryAt(pos).Flags().Live() {
			count++
		}
	}
	return count
}

// Compact forces reconstruction of the index, dropping every
// tombstoned slot it holds: it publishes a fresh successor generation
// sized to the current live count and spins on helpMigrate until that
// migration is fully retired before returning, then reconciles the
// optimistic live counter against a full scan. Unlike maybeGrow/
// maybeShrink, which only ever publish a successor opportunistically
// on insert/delete and let ordinary operations carry it to completion
// one bounded chunk at a time, Compact always forces the rebuild and
// drains every remaining chunk itself rather than waiting for other
// callers to. If a concurrent migration wins the race to publish a
// successor first, Compact simply helps that migration instead of
// starting its own (the entry store itself is append-only and never
// shrinks; only index tombstones and probe-chain length are reclaimed
// here).
func (d *Dict[K, V]) Compact() {
	slot := d.enter()
	defer d.exit(slot)

	gen := d.resolve()
	live := uint64(d.Len())
	growHighWater := math.Float64frombits(d.growLoadFactor.Load())
	minLogSize := d.minLogSize.Load()
	newLogSize := migrate.NextLogSize(live, minLogSize, growHighWater)

	next := index.New(newLogSize)
	gen.PublishNext(next)
	for gen.State() != index.Active {
		gen = d.helpMigrate(gen)
	}
	d.live.Store(int64(d.Len()))
}

// Stats returns a snapshot of Dict's internal bookkeeping.
func (d *Dict[K, V]) Stats() DictStats {
	gen := d.currentGeneration()
	return DictStats{
		ApproxLive:       d.live.Load(),
		AllocatedEntries: d.store.Len(),
		IndexCapacity:    gen.Capacity(),
		GenerationState:  uint32(gen.State()),
	}
}
