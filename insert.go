// insert.go: Set/Insert/Delete/CompareAndSet/CompareAndDelete
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"github.com/agilira/triton/internal/index"
	"github.com/agilira/triton/internal/store"
)

type insertPolicy int

const (
	policyReplace insertPolicy = iota
	policyInsertOnly
	policyCompareAndSet
)

// Set installs value for key unconditionally, replacing any existing
// mapping.
func (d *Dict[K, V]) Set(key K, value V) {
	start := d.config.TimeProvider.Now()
	d.write(key, value, value, policyReplace)
	d.config.MetricsCollector.RecordSet(d.config.TimeProvider.Now() - start)
}

// Insert installs value for key only if key is absent, reporting
// whether it did so.
func (d *Dict[K, V]) Insert(key K, value V) bool {
	start := d.config.TimeProvider.Now()
	inserted, _ := d.write(key, value, value, policyInsertOnly)
	d.config.MetricsCollector.RecordSet(d.config.TimeProvider.Now() - start)
	return inserted
}

// CompareAndSet installs desired for key only if its current value
// equals expected, returning an ErrCodeExpectationFailed error
// otherwise. A missing key is treated as an expectation mismatch.
func (d *Dict[K, V]) CompareAndSet(key K, expected, desired V) error {
	start := d.config.TimeProvider.Now()
	ok, err := d.write(key, expected, desired, policyCompareAndSet)
	d.config.MetricsCollector.RecordCompareAndSet(d.config.TimeProvider.Now()-start, ok)
	return err
}

// write is the single entry point for Set/Insert/CompareAndSet. For
// policyCompareAndSet, matchValue holds the expected value; for the
// others it is ignored.
func (d *Dict[K, V]) write(key K, matchValue, value V, policy insertPolicy) (bool, error) {
	if err := d.checkOpen("write"); err != nil {
		return false, err
	}
	slot := d.enter()
	defer d.exit(slot)

	hash := d.hasher(key)

	for attempt := 0; ; attempt++ {
		gen := d.resolve()
		r := d.probe(gen, hash, key)

		if r.found {
			switch policy {
			case policyInsertOnly:
				return false, nil
			case policyCompareAndSet:
				if r.entry.CompareAndSwapValue(matchValue, value) {
					return true, nil
				}
				return false, NewErrExpectationFailed(key)
			default:
				r.entry.StoreValue(value)
				return true, nil
			}
		}

		if policy == policyCompareAndSet {
			return false, NewErrExpectationFailed(key)
		}

		pos := d.store.AllocateEntry()
		e := d.store.EntryAt(pos)
		e.Reserve(key, hash)

		placed, distance, regrow := d.placeNew(gen, pos, hash, key)
		if placed {
			// Only install the value once this entry has actually won a
			// slot in the index: installing (i.e. setting Inserted, which
			// makes the entry Live) before that would leave a same-key
			// race's loser permanently Live but unreferenced by any index
			// slot, since a lost race never un-Installs. Store-scanning
			// callers (FastIter, UpdateBy, Len) key liveness off Flags()
			// alone, so a prematurely-Live loser would surface as a
			// phantom duplicate of the winner's entry.
			e.Install(value)
			d.live.Add(1)
			d.maybeGrow(gen, uint64(d.live.Load()), distance)
			return true, nil
		}
		if regrow {
			d.maybeGrow(gen, gen.Capacity(), index.MaxDistance)
		}
		// Lost the race to a migration, to exhausting the probe distance
		// on this generation, or to a concurrent writer installing the
		// same key first; the reservation made above is simply abandoned
		// at Reserved-only (append-only store, never reused for a
		// different key, and never Live so Lookup/FastIter/UpdateBy skip
		// it) and the whole operation retries against whatever
		// generation is current now.
	}
}

// placeNew Robin-Hood-inserts (pos+1, hash) into gen, starting from
// its home slot. It detects a concurrent duplicate insert of the same
// key (another writer won the race after this call's probe) and
// reports it as found-via-retry by returning placed=false with
// regrow=false; the caller's outer loop re-probes and discovers the
// winner's entry. Returns regrow=true when probing exhausted
// MaxDistance, signaling the caller should request a grow migration
// before retrying.
func (d *Dict[K, V]) placeNew(gen *index.Generation, pos, hash uint64, key K) (placed bool, distance uint8, regrow bool) {
	tag := index.TagOf(hash)
	mask := gen.Mask()
	i := gen.Home(hash)
	dist := uint8(0)
	curIndex, curTag := pos+1, tag

	for {
		w := gen.Load(i)

		if w.Migrated() {
			return false, 0, false
		}

		if !w.IsTombstone() && !w.IsEmpty() && w.Tag() == tag {
			e := d.store.EntryAt(w.EntryIndexPlus1() - 1)
			if e.Flags().Live() && e.Key() == key {
				return false, 0, false
			}
		}

		if w.IsEmpty() {
			if gen.CompareAndSwap(i, w, index.Pack(curIndex, curTag, dist, false)) {
				return true, dist, false
			}
			continue
		}

		if w.Distance() < dist {
			if !gen.CompareAndSwap(i, w, index.Pack(curIndex, curTag, dist, false)) {
				continue
			}
			curIndex, curTag, dist = w.EntryIndexPlus1(), w.Tag(), w.Distance()
		}

		i = (i + 1) & mask
		dist++
		if dist > index.MaxDistance {
			return false, 0, true
		}
	}
}

// Delete removes key's mapping, tombstoning its slot while preserving
// probe continuity (I4). Returns ErrCodeKeyNotFound if key is absent.
func (d *Dict[K, V]) Delete(key K) error {
	start := d.config.TimeProvider.Now()
	err := d.remove(key, nil, false)
	d.config.MetricsCollector.RecordDelete(d.config.TimeProvider.Now() - start)
	return err
}

// CompareAndDelete removes key's mapping only if its current value
// equals expected, returning an ErrCodeExpectationFailed error
// otherwise, or an ErrCodeKeyNotFound error if key is absent.
func (d *Dict[K, V]) CompareAndDelete(key K, expected V) error {
	start := d.config.TimeProvider.Now()
	err := d.remove(key, &expected, true)
	d.config.MetricsCollector.RecordCompareAndSet(d.config.TimeProvider.Now()-start, err == nil)
	return err
}

func (d *Dict[K, V]) remove(key K, expected *V, checkExpected bool) error {
	if err := d.checkOpen("delete"); err != nil {
		return err
	}
	slot := d.enter()
	defer d.exit(slot)

	hash := d.hasher(key)
	gen := d.resolve()
	r := d.probe(gen, hash, key)
	if !r.found {
		return NewErrKeyNotFound(key)
	}

	if checkExpected {
		cur, _ := r.entry.Value()
		if cur != *expected {
			return NewErrExpectationFailed(key)
		}
	}

	r.entry.SetFlag(store.Tombstone)
	for {
		w := gen.Load(r.slot)
		if w.IsTombstone() || w.Migrated() {
			break
		}
		if gen.CompareAndSwap(r.slot, w, index.Tombstone(w.Distance())) {
			break
		}
	}

	d.live.Add(-1)
	d.maybeShrink(gen)
	return nil
}
