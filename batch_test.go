// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import "testing"

func TestBatchGetItemMixedPresence(t *testing.T) {
	d, _ := New[string, int](DefaultConfig(), nil)
	d.Set("a", 1)
	d.Set("b", 2)

	batch := map[string]int{"a": 0, "b": 0, "c": 0}
	d.BatchGetItem(batch, -1)

	if batch["a"] != 1 {
		t.Errorf("batch[a] = %d, want 1", batch["a"])
	}
	if batch["b"] != 2 {
		t.Errorf("batch[b] = %d, want 2", batch["b"])
	}
	if batch["c"] != -1 {
		t.Errorf("batch[c] = %d, want -1 (notFound sentinel)", batch["c"])
	}
}

func TestBatchGetItemEmptyBatch(t *testing.T) {
	d, _ := New[string, int](DefaultConfig(), nil)
	batch := map[string]int{}
	d.BatchGetItem(batch, -1) // must not panic on an empty batch
	if len(batch) != 0 {
		t.Errorf("len(batch) = %d, want 0", len(batch))
	}
}

func TestBatchGetItemAllMissing(t *testing.T) {
	d, _ := New[string, int](DefaultConfig(), nil)
	batch := map[string]int{"x": 1, "y": 2}
	d.BatchGetItem(batch, -1)
	if batch["x"] != -1 || batch["y"] != -1 {
		t.Errorf("batch = %v, want every entry set to the notFound sentinel", batch)
	}
}
