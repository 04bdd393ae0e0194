// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package migrate

import (
	"testing"

	"github.com/agilira/triton/internal/index"
)

func TestShouldGrowByLoadFactor(t *testing.T) {
	if migrate := ShouldGrow(6, 8, 0, 0.75); !migrate {
		t.Error("expected ShouldGrow at 6/8 against a 0.75 high-water mark")
	}
	if ShouldGrow(5, 8, 0, 0.75) {
		t.Error("expected ShouldGrow false below the high-water mark")
	}
}

func TestShouldGrowByDistanceSaturation(t *testing.T) {
	if !ShouldGrow(1, 1000, index.MaxDistance, 0.75) {
		t.Error("expected ShouldGrow true once probe distance saturates, regardless of load")
	}
}

func TestShouldShrinkRespectsFloor(t *testing.T) {
	if ShouldShrink(1, 16, MinLogSize, MinLogSize, 0.125) {
		t.Error("expected ShouldShrink false at the configured size floor")
	}
	if !ShouldShrink(1, 16, MinLogSize+1, MinLogSize, 0.125) {
		t.Error("expected ShouldShrink true above the floor when live/capacity is low")
	}
}

func TestNextLogSizeRoundsUpAndInflates(t *testing.T) {
	got := NextLogSize(100, MinLogSize, GrowHighWater)
	if (uint64(1) << got) < 100 {
		t.Errorf("NextLogSize capacity %d too small for 100 live entries", uint64(1)<<got)
	}
	cap := float64(uint64(1) << got)
	if 100 >= GrowHighWater*cap {
		t.Errorf("NextLogSize(100) = %d puts live load at/above the grow high-water mark", got)
	}
}

func TestNextLogSizeNeverBelowFloor(t *testing.T) {
	if got := NextLogSize(0, MinLogSize, GrowHighWater); got != MinLogSize {
		t.Errorf("NextLogSize(0) = %d, want floor %d", got, MinLogSize)
	}
}

type fakeHashSource struct {
	live map[uint64]uint64
}

func (f fakeHashSource) HashAt(pos uint64) (uint64, bool) {
	h, ok := f.live[pos]
	return h, ok
}

func TestHelpChunkMigratesLiveEntries(t *testing.T) {
	old := index.New(4)
	dst := index.New(5)
	index.PlaceEntry(old, 1, 0xAAAA)
	index.PlaceEntry(old, 2, 0xBBBB)

	src := fakeHashSource{live: map[uint64]uint64{0: 0xAAAA, 1: 0xBBBB}}

	for HelpChunk(old, dst, src, 4) {
	}

	occupied := 0
	for i := uint64(0); i < dst.Capacity(); i++ {
		if !dst.Load(i).IsEmpty() {
			occupied++
		}
	}
	if occupied != 2 {
		t.Errorf("dst occupied = %d, want 2", occupied)
	}
	for i := uint64(0); i < old.Capacity(); i++ {
		if !old.Load(i).Migrated() {
			t.Errorf("old slot %d not marked Migrated after HelpChunk exhausted", i)
		}
	}
}

func TestHelpChunkDropsDeadEntries(t *testing.T) {
	old := index.New(4)
	dst := index.New(5)
	index.PlaceEntry(old, 1, 0xCCCC)

	src := fakeHashSource{live: map[uint64]uint64{}} // entry at pos 0 is reported dead

	for HelpChunk(old, dst, src, 4) {
	}

	for i := uint64(0); i < dst.Capacity(); i++ {
		if !dst.Load(i).IsEmpty() {
			t.Error("expected no entries copied into dst when the source reports them dead")
		}
	}
}

func TestHelpChunkReturnsFalseWhenExhausted(t *testing.T) {
	old := index.New(2) // capacity 4
	dst := index.New(3)
	src := fakeHashSource{live: map[uint64]uint64{}}

	for HelpChunk(old, dst, src, 4) {
	}
	if HelpChunk(old, dst, src, 4) {
		t.Error("expected HelpChunk to return false once every old slot is claimed")
	}
}

func TestEpochEnterExitAndSafe(t *testing.T) {
	e := NewEpoch()
	if !e.Safe(0) {
		t.Fatal("a fresh epoch register with no entrants must be safe for any retirement epoch")
	}

	e.Enter(0)
	retiredAt := e.Advance()
	if e.Safe(retiredAt) {
		t.Error("expected Safe false while a slot is still registered at or before the retirement epoch")
	}

	e.Enter(0) // re-enter at the new epoch, as a real caller would on its next operation
	if !e.Safe(retiredAt) {
		t.Error("expected Safe true once the slot has moved past the retirement epoch")
	}

	e.Exit(0)
	if !e.Safe(retiredAt) {
		t.Error("expected Safe true once the slot has exited")
	}
}

func TestEpochIdleSlotsAreAlwaysSafe(t *testing.T) {
	e := NewEpoch()
	retiredAt := e.Advance()
	if !e.Safe(retiredAt) {
		t.Error("idle slots must never block reclamation")
	}
}
