// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package index

import "testing"

func TestPackRoundTrip(t *testing.T) {
	w := Pack(42, 0xAB, 7, false)
	if got := w.EntryIndexPlus1(); got != 42 {
		t.Errorf("EntryIndexPlus1() = %d, want 42", got)
	}
	if got := w.Tag(); got != 0xAB {
		t.Errorf("Tag() = %x, want ab", got)
	}
	if got := w.Distance(); got != 7 {
		t.Errorf("Distance() = %d, want 7", got)
	}
	if w.Migrated() {
		t.Error("expected Migrated() false")
	}
}

func TestPackMigrated(t *testing.T) {
	w := Pack(1, 0, 0, true)
	if !w.Migrated() {
		t.Error("expected Migrated() true")
	}
}

func TestWithMigratedPreservesFields(t *testing.T) {
	w := Pack(99, 5, 3, false)
	m := w.WithMigrated()
	if !m.Migrated() {
		t.Error("expected Migrated() true after WithMigrated")
	}
	if m.EntryIndexPlus1() != 99 || m.Tag() != 5 || m.Distance() != 3 {
		t.Errorf("WithMigrated altered other fields: %+v", m)
	}
}

func TestEmptyWord(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Error("expected the zero Word to be empty")
	}
	if Empty.IsTombstone() {
		t.Error("the zero Word must not be a tombstone")
	}
}

func TestTombstone(t *testing.T) {
	ts := Tombstone(12)
	if !ts.IsTombstone() {
		t.Fatal("expected IsTombstone() true")
	}
	if ts.IsEmpty() {
		t.Error("a tombstone must not report as empty")
	}
	if ts.Distance() != 12 {
		t.Errorf("Distance() = %d, want 12 (probe continuity must survive tombstoning)", ts.Distance())
	}
}

func TestMaxDistanceFitsInField(t *testing.T) {
	w := Pack(1, 0, MaxDistance, false)
	if w.Distance() != MaxDistance {
		t.Errorf("Distance() = %d, want %d", w.Distance(), MaxDistance)
	}
}

func TestTagOfDeterministic(t *testing.T) {
	if TagOf(0x1234) != TagOf(0x1234) {
		t.Error("TagOf must be a pure function of its input")
	}
}
