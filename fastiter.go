// fastiter.go: partitioned live-entry iteration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import "iter"

// FastIter returns an iterator over the live (key, value) pairs held
// in the thisPartition-th of partitions contiguous slices of entry-store
// positions, letting callers scan the whole map with N goroutines
// touching disjoint position ranges — not disjoint index slots, since
// the store's position space is stable across migrations while the
// index is not. Entries tombstoned or still mid-reservation while the
// scan passes them are simply skipped; an entry inserted concurrently
// may or may not be observed, matching the distilled spec's
// non-snapshot iteration contract.
func (d *Dict[K, V]) FastIter(partitions, thisPartition int) (iter.Seq2[K, V], error) {
	if partitions <= 0 || thisPartition < 0 || thisPartition >= partitions {
		return nil, NewErrInvalidPartitions(partitions, thisPartition)
	}
	if err := d.checkOpen("fastIter"); err != nil {
		return nil, err
	}

	n := d.store.Len()
	chunk := n / uint64(partitions)
	start := uint64(thisPartition) * chunk
	end := start + chunk
	if thisPartition == partitions-1 {
		end = n
	}

	return func(yield func(K, V) bool) {
		slot := d.enter()
		defer d.exit(slot)

		for pos := start; pos < end; pos++ {
			e := d.store.EntryAt(pos)
			if !e.Flags().Live() {
				continue
			}
			v, ok := e.Value()
			if !ok {
				continue
			}
			if !yield(e.Key(), v) {
				return
			}
		}
	}, nil
}
