// generation.go: a single index generation and its migration state
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package index

import "sync/atomic"

// State is the migration state of a generation, per the specification's
// S0..S3 state machine.
type State uint32

const (
	// Active is the normal, steady-state generation that reads and
	// writes operate against.
	Active State = iota
	// Resizing means a successor generation has been allocated and
	// slots are being progressively copied into it.
	Resizing
	// Published means the successor generation is now the one new
	// operations should start from; stragglers that still hold this
	// generation must retry on the successor once they observe a
	// Migrated marker.
	Published
	// Retired means this generation is no longer reachable from any
	// live operation and its storage may be reclaimed once all
	// epochs that could have observed it have advanced.
	Retired
)

// Generation is a single array of slot words plus the bookkeeping
// needed to grow or shrink it without blocking readers/writers.
type Generation struct {
	logSize uint32
	slots   []atomic.Uint64

	state State32
	next  atomic.Pointer[Generation]

	// migrateCursor is the next old-generation slot index a helper
	// should copy; used to divide migration work among cooperating
	// goroutines without overlap.
	migrateCursor atomic.Uint64

	// retiredEpoch is set once the generation transitions to Retired,
	// recording the epoch at which it became unreachable.
	retiredEpoch atomic.Uint64
}

// State32 is a tiny atomic wrapper around State, kept as its own type
// so call sites read as state.Load()/state.Store() rather than a bare
// atomic.Uint32.
type State32 struct {
	v atomic.Uint32
}

func (s *State32) Load() State         { return State(s.v.Load()) }
func (s *State32) Store(st State)      { s.v.Store(uint32(st)) }
func (s *State32) CAS(old, new State) bool {
	return s.v.CompareAndSwap(uint32(old), uint32(new))
}

// New allocates a fresh Active generation of size 1<<logSize.
func New(logSize uint32) *Generation {
	g := &Generation{
		logSize: logSize,
		slots:   make([]atomic.Uint64, uint64(1)<<logSize),
	}
	g.state.Store(Active)
	return g
}

// LogSize returns log2 of the generation's capacity.
func (g *Generation) LogSize() uint32 { return g.logSize }

// Capacity returns the number of slots in the generation.
func (g *Generation) Capacity() uint64 { return uint64(1) << g.logSize }

// Home returns the canonical probe start for hash: its top logSize
// bits.
func (g *Generation) Home(hash uint64) uint64 {
	return hash >> (64 - g.logSize)
}

// Mask returns capacity-1, used to wrap probe sequences.
func (g *Generation) Mask() uint64 { return g.Capacity() - 1 }

// Load atomically reads the slot word at i.
func (g *Generation) Load(i uint64) Word {
	return Word(g.slots[i].Load())
}

// CompareAndSwap attempts to install new at slot i if it currently
// holds old; this is the engine's sole structural linearization
// point (§5).
func (g *Generation) CompareAndSwap(i uint64, old, new Word) bool {
	return g.slots[i].CompareAndSwap(uint64(old), uint64(new))
}

// Next returns the successor generation, if one has been published
// (non-nil once state >= Resizing).
func (g *Generation) Next() *Generation {
	return g.next.Load()
}

// PublishNext installs succ as this generation's successor,
// transitioning Active -> Resizing. Returns false if a successor was
// already installed by a concurrent migrator (the caller should help
// the winner's migration instead of starting its own).
func (g *Generation) PublishNext(succ *Generation) bool {
	if !g.next.CompareAndSwap(nil, succ) {
		return false
	}
	g.state.CAS(Active, Resizing)
	return true
}

// MarkPublished transitions Resizing -> Published once every old slot
// has been copied or stamped Migrated.
func (g *Generation) MarkPublished() {
	g.state.CAS(Resizing, Published)
}

// MarkRetired transitions Published -> Retired, stamping the epoch at
// which it became unreachable, for comparison against in-flight
// readers via migrate.Epoch.Safe.
func (g *Generation) MarkRetired(epoch uint64) {
	if g.state.CAS(Published, Retired) {
		g.retiredEpoch.Store(epoch)
	}
}

// RetiredEpoch returns the epoch recorded by MarkRetired.
func (g *Generation) RetiredEpoch() uint64 { return g.retiredEpoch.Load() }

// State returns the generation's current migration state.
func (g *Generation) State() State { return g.state.Load() }

// PlaceEntry installs (entryIndexPlus1, hash) into gen via Robin-Hood
// insertion. It assumes the key is not already present in gen, which
// holds during migration: the source generation yields each live key
// exactly once, and the destination generation starts out empty, so
// no tombstones or duplicate keys are ever encountered here. Returns
// false if no slot could be found within MaxDistance, which signals a
// construction bug (the destination generation was sized too small).
func PlaceEntry(gen *Generation, entryIndexPlus1 uint64, hash uint64) bool {
	mask := gen.Mask()
	i := gen.Home(hash)
	dist := uint8(0)
	curIndex, curTag := entryIndexPlus1, TagOf(hash)

	for {
		w := gen.Load(i)
		if w.IsEmpty() {
			if gen.CompareAndSwap(i, w, Pack(curIndex, curTag, dist, false)) {
				return true
			}
			continue
		}

		if w.Distance() < dist {
			if !gen.CompareAndSwap(i, w, Pack(curIndex, curTag, dist, false)) {
				continue
			}
			curIndex, curTag, dist = w.EntryIndexPlus1(), w.Tag(), w.Distance()
		}

		i = (i + 1) & mask
		dist++
		if dist > MaxDistance {
			return false
		}
	}
}

// NextMigrateChunk reserves up to n consecutive old-generation slot
// indices for the caller to migrate, returning [start, end) and false
// once every slot has been claimed by some goroutine.
func (g *Generation) NextMigrateChunk(n uint64) (start, end uint64, ok bool) {
	cap := g.Capacity()
	for {
		cur := g.migrateCursor.Load()
		if cur >= cap {
			return 0, 0, false
		}
		e := cur + n
		if e > cap {
			e = cap
		}
		if g.migrateCursor.CompareAndSwap(cur, e) {
			return cur, e, true
		}
	}
}
