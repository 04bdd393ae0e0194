// migrate.go: grow/shrink migration state machine for the triton index
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package migrate implements component C5's migration half: the
// help-driven copy from one index generation to another of a
// different size (S0 ACTIVE -> S1 RESIZING -> S2 PUBLISHED -> S3
// RETIRED), plus the growth/shrink triggers and an epoch-based
// reclamation register for retired generations.
//
// The package deliberately knows nothing about key or value types: it
// only ever moves (entryIndexPlus1, hash) pairs, so it is not generic
// over the map's K/V and can be shared by every instantiation of
// Dict[K, V].
package migrate

import (
	"sync/atomic"

	"github.com/agilira/triton/internal/index"
)

// HashSource reports the hash of a live entry at a store position,
// and whether that position is currently live at all. It is
// implemented by store.Store[K, V] without either package depending
// on the other's type parameters.
type HashSource interface {
	HashAt(pos uint64) (hash uint64, live bool)
}

// ChunkSize bounds how much migration work a single helper performs
// before retrying its own operation, capping the worst-case latency
// any one call can incur (§4.5).
const ChunkSize = 256

// GrowHighWater is the load fraction at which an insertion schedules
// a grow migration.
const GrowHighWater = 7.0 / 8.0

// ShrinkLowWater is the live fraction below which a deletion schedules
// a shrink migration, provided the generation is above MinLogSize.
const ShrinkLowWater = 1.0 / 8.0

// MinLogSize is the smallest generation size the map will shrink to.
const MinLogSize = 4 // capacity 16

// ShouldGrow reports whether inserted/capacity has crossed
// growHighWater, or distance has already exhausted the slot word's
// range. growHighWater is caller-supplied (Config.GrowLoadFactor, live
// via hotreload.go) rather than the GrowHighWater constant, so a
// hot-reloaded threshold takes effect on the very next insert.
func ShouldGrow(inserted, capacity uint64, distance uint8, growHighWater float64) bool {
	if distance >= index.MaxDistance {
		return true
	}
	return float64(inserted) >= growHighWater*float64(capacity)
}

// ShouldShrink reports whether live/capacity has dropped below
// shrinkLowWater and the generation is larger than the configured
// floor.
func ShouldShrink(live, capacity uint64, logSize, minLogSize uint32, shrinkLowWater float64) bool {
	if logSize <= minLogSize {
		return false
	}
	return float64(live) < shrinkLowWater*float64(capacity)
}

// NextLogSize picks a target generation size for live elements,
// rounded up to the next power of two and inflated so the new
// generation starts below growHighWater.
func NextLogSize(live uint64, minLogSize uint32, growHighWater float64) uint32 {
	target := uint64(float64(live) / growHighWater)
	if target < 1<<minLogSize {
		target = 1 << minLogSize
	}
	logSize := minLogSize
	for uint64(1)<<logSize < target {
		logSize++
	}
	return logSize
}

// HelpChunk copies up to chunkSize old-generation slots into dst,
// stamping every visited old slot Migrated (dropping tombstones and
// entries the HashSource reports as no longer live). It returns false
// once the old generation has no unclaimed work left, at which point
// the caller should call old.MarkPublished().
func HelpChunk(old, dst *index.Generation, src HashSource, chunkSize uint64) bool {
	start, end, ok := old.NextMigrateChunk(chunkSize)
	if !ok {
		return false
	}
	for i := start; i < end; i++ {
		migrateSlot(old, dst, src, i)
	}
	return true
}

func migrateSlot(old, dst *index.Generation, src HashSource, i uint64) {
	for {
		w := old.Load(i)
		if w.Migrated() {
			return
		}
		if w.IsEmpty() || w.IsTombstone() {
			if old.CompareAndSwap(i, w, w.WithMigrated()) {
				return
			}
			continue
		}

		hash, live := src.HashAt(w.EntryIndexPlus1() - 1)
		if live {
			index.PlaceEntry(dst, w.EntryIndexPlus1(), hash)
		}
		if old.CompareAndSwap(i, w, w.WithMigrated()) {
			return
		}
		// Lost the race (another helper advanced this slot, or a
		// writer mutated it before observing the generation was
		// resizing); reload and retry. If the slot is now Migrated
		// by someone else we return on the next loop iteration; if a
		// writer raced ahead of migration it will itself observe
		// Resizing on its next step and help, so no entry is lost.
	}
}

// EpochSlots bounds how many concurrent operations can register with
// an Epoch register. The root package assigns one slot per in-flight
// Dict operation via epochSlot/releaseEpochSlot; EpochSlots is
// generous enough for realistic goroutine-pool sizes without growing
// dynamically.
const EpochSlots = 4096

// idleEpoch is the sentinel stored in a slot that is not currently
// inside any operation.
const idleEpoch = ^uint64(0)

// Epoch is a process-wide epoch counter used for reclaiming retired
// generations. Every operation that might dereference a generation
// registers the current epoch on entry (Enter) and clears it on exit
// (Exit); Safe reports whether every still-registered operation has
// since moved past a given retirement epoch, meaning the generation
// retired at that epoch can no longer be observed and is safe to
// release.
type Epoch struct {
	counter atomic.Uint64
	slots   [EpochSlots]atomic.Uint64
}

// NewEpoch constructs an empty epoch register.
func NewEpoch() *Epoch {
	e := &Epoch{}
	for i := range e.slots {
		e.slots[i].Store(idleEpoch)
	}
	return e
}

// Enter registers the calling goroutine's handle slot as observing
// the current epoch.
func (e *Epoch) Enter(slot uint32) {
	e.slots[slot%EpochSlots].Store(e.counter.Load())
}

// Exit clears the calling goroutine's registration, signaling it can
// no longer be holding a reference into any retired generation.
func (e *Epoch) Exit(slot uint32) {
	e.slots[slot%EpochSlots].Store(idleEpoch)
}

// Advance bumps the global epoch, called whenever a generation is
// retired so that subsequent Enter calls are stamped past it. It
// returns the epoch in effect before the bump, which is the retirement
// epoch to record for that generation.
func (e *Epoch) Advance() uint64 {
	return e.counter.Add(1) - 1
}

// Safe reports whether every currently-registered slot has an epoch
// strictly greater than retiredAt (or is idle), meaning no one can
// still be dereferencing the generation retired at that epoch.
func (e *Epoch) Safe(retiredAt uint64) bool {
	for i := range e.slots {
		v := e.slots[i].Load()
		if v != idleEpoch && v <= retiredAt {
			return false
		}
	}
	return true
}
