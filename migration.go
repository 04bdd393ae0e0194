// migration.go: grow/shrink orchestration and epoch slot management
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/agilira/triton/internal/index"
	"github.com/agilira/triton/internal/migrate"
)

// epochSlotPool hands out small integer slots to goroutines that need
// to register with a migrate.Epoch, reusing released slots instead of
// growing without bound. Grounded on the teacher's loading.go
// singleflight map, generalized from a key-keyed sync.Map to a
// counter-keyed free-list since here identity is the goroutine's
// call stack, not a cache key.
var (
	epochSlotNext  atomic.Uint32
	epochSlotFree  = sync.Pool{New: func() any { return epochSlotNext.Add(1) - 1 }}
	epochSlotLocal = func() uint32 { return epochSlotFree.Get().(uint32) }
)

// epochSlot reserves an epoch slot for the duration of one operation.
// Callers must release it by returning it to the pool once they exit
// (see Dict.exit); this keeps registration O(1) without needing Go
// goroutine-local storage, at the cost of slot reuse being
// best-effort rather than strictly per-goroutine.
func epochSlot() uint32 {
	return epochSlotLocal()
}

// releaseEpochSlot returns slot to the free pool. Called by Dict.exit.
func releaseEpochSlot(slot uint32) {
	epochSlotFree.Put(slot)
}

// helpMigrate cooperatively advances any in-progress generation
// transition reachable from gen by at most one bounded chunk (§4.5),
// publishing and retiring generations once migration completes. It
// returns the generation the caller should now operate against: gen
// itself, still Resizing, if this call's chunk did not exhaust the old
// generation (so the caller keeps reading/writing through the
// not-yet-fully-migrated old index rather than an incomplete dst —
// store entries never move, so old remains fully correct to query
// throughout), or the new generation once the old one is fully
// retired.
func (d *Dict[K, V]) helpMigrate(gen *index.Generation) *index.Generation {
	for {
		switch gen.State() {
		case index.Active:
			return gen
		case index.Resizing:
			dst := gen.Next()
			if dst == nil {
				return gen
			}
			chunk := uint64(d.migrationChunkSize.Load())
			if migrate.HelpChunk(gen, dst, d.store, chunk) {
				return gen
			}
			// Every chunk is claimed, but another helper may still be
			// copying one; the old generation stays current until every
			// slot carries the Migrated marker.
			for i := uint64(0); i < gen.Capacity(); i++ {
				if !gen.Load(i).Migrated() {
					return gen
				}
			}
			gen.MarkPublished()
			epoch := d.epoch.Advance()
			gen.MarkRetired(epoch)
			if d.gen.CompareAndSwap(gen, dst) {
				d.config.MetricsCollector.RecordMigration(dst.Capacity() > gen.Capacity(), int(gen.Capacity()))
			}
			gen = dst
		case index.Published, index.Retired:
			if next := gen.Next(); next != nil {
				gen = next
				continue
			}
			return gen
		}
	}
}

// maybeGrow publishes a successor generation once the live generation
// has crossed the configured high-water mark, or a Robin-Hood
// insertion has exhausted the slot word's distance range. Only one
// goroutine wins the race to publish; losers simply help the winner's
// migration on their next operation.
func (d *Dict[K, V]) maybeGrow(gen *index.Generation, inserted uint64, distance uint8) {
	growHighWater := math.Float64frombits(d.growLoadFactor.Load())
	if !migrate.ShouldGrow(inserted, gen.Capacity(), distance, growHighWater) {
		return
	}
	next := index.New(gen.LogSize() + 1)
	gen.PublishNext(next)
}

// maybeShrink publishes a smaller successor generation once the live
// fraction has dropped below the configured low-water mark. A shrink
// is only ever a hint (§9): nothing forces the map back down if
// writers keep it above the floor.
func (d *Dict[K, V]) maybeShrink(gen *index.Generation) {
	live := uint64(d.live.Load())
	minLogSize := d.minLogSize.Load()
	shrinkLowWater := math.Float64frombits(d.shrinkLoadFactor.Load())
	growHighWater := math.Float64frombits(d.growLoadFactor.Load())
	if !migrate.ShouldShrink(live, gen.Capacity(), gen.LogSize(), minLogSize, shrinkLowWater) {
		return
	}
	newLogSize := migrate.NextLogSize(live, minLogSize, growHighWater)
	if newLogSize >= gen.LogSize() {
		return
	}
	next := index.New(newLogSize)
	gen.PublishNext(next)
}

func log2(n int) int {
	l := 0
	for 1<<l < n {
		l++
	}
	return l
}
