// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import "testing"

func TestFastIterRejectsInvalidPartitions(t *testing.T) {
	d, _ := New[string, int](DefaultConfig(), nil)
	if _, err := d.FastIter(0, 0); err == nil {
		t.Error("expected FastIter(0, 0) to reject a non-positive partition count")
	}
	if _, err := d.FastIter(4, 4); err == nil {
		t.Error("expected FastIter(4, 4) to reject an out-of-range partition index")
	}
	if _, err := d.FastIter(4, -1); err == nil {
		t.Error("expected FastIter(4, -1) to reject a negative partition index")
	}
}

func TestFastIterSinglePartitionSeesEverything(t *testing.T) {
	d, _ := New[int, int](DefaultConfig(), nil)
	const n = 500
	for i := 0; i < n; i++ {
		d.Set(i, i*2)
	}

	seq, err := d.FastIter(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]int)
	for k, v := range seq {
		seen[k] = v
	}
	if len(seen) != n {
		t.Fatalf("observed %d entries, want %d", len(seen), n)
	}
	for i := 0; i < n; i++ {
		if seen[i] != i*2 {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], i*2)
		}
	}
}

func TestFastIterPartitionsCoverDisjointlyAndCompletely(t *testing.T) {
	d, _ := New[int, int](DefaultConfig(), nil)
	const n = 800
	for i := 0; i < n; i++ {
		d.Set(i, i)
	}

	const parts = 4
	seen := make(map[int]int)
	for p := 0; p < parts; p++ {
		seq, err := d.FastIter(parts, p)
		if err != nil {
			t.Fatal(err)
		}
		for k, v := range seq {
			if _, dup := seen[k]; dup {
				t.Fatalf("key %d observed in more than one partition", k)
			}
			seen[k] = v
		}
	}
	if len(seen) != n {
		t.Fatalf("observed %d entries across all partitions, want %d", len(seen), n)
	}
}

func TestFastIterSkipsDeletedEntries(t *testing.T) {
	d, _ := New[int, int](DefaultConfig(), nil)
	for i := 0; i < 10; i++ {
		d.Set(i, i)
	}
	if err := d.Delete(5); err != nil {
		t.Fatal(err)
	}

	seq, err := d.FastIter(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	for k := range seq {
		if k == 5 {
			t.Error("expected deleted key 5 to be skipped by FastIter")
		}
	}
}

func TestFastIterEarlyStop(t *testing.T) {
	d, _ := New[int, int](DefaultConfig(), nil)
	for i := 0; i < 100; i++ {
		d.Set(i, i)
	}
	seq, err := d.FastIter(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for range seq {
		count++
		if count == 5 {
			break
		}
	}
	if count != 5 {
		t.Errorf("count = %d, want 5 (yield should stop iteration when the consumer breaks)", count)
	}
}

func TestFastIterOnClosedDict(t *testing.T) {
	d, _ := New[int, int](DefaultConfig(), nil)
	_ = d.Close()
	if _, err := d.FastIter(1, 0); err == nil {
		t.Error("expected FastIter on a closed Dict to fail")
	}
}
