// batch.go: BatchGetItem bulk lookup
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

// BatchGetItem rewrites batch in place: for every key already present
// as a map key, its value becomes the looked-up value if found, or
// notFound otherwise. Each lookup is independently linearizable; the
// batch as a whole is not (§5).
func (d *Dict[K, V]) BatchGetItem(batch map[K]V, notFound V) {
	slot := d.enter()
	defer d.exit(slot)

	gen := d.resolve()
	for key := range batch {
		hash := d.hasher(key)
		r := d.probe(gen, hash, key)
		if r.found {
			v, _ := r.entry.Value()
			batch[key] = v
		} else {
			batch[key] = notFound
		}
	}
}
