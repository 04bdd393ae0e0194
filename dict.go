// dict.go: Dict construction and shared internal plumbing
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"hash/maphash"
	"math"
	"sync/atomic"

	"github.com/agilira/triton/internal/index"
	"github.com/agilira/triton/internal/migrate"
	"github.com/agilira/triton/internal/store"
)

// Hasher computes a 64-bit hash for a key. The default, installed by
// New when none is supplied, is hash/maphash.Comparable over a
// per-Dict random seed.
type Hasher[K comparable] func(key K) uint64

// KV is one (key, value) pair in a Reduce input stream.
type KV[K comparable, V comparable] struct {
	Key   K
	Value V
}

// ReduceFunc combines an entry's current value with an incoming
// stream value, returning the value to install. Call order across
// concurrently processed stream elements is unspecified (§9).
type ReduceFunc[K comparable, V comparable] func(key K, current V, incoming V) V

// UpdateFunc computes a new value for key from its current value. A
// false second return leaves the entry untouched (the distilled
// spec's "Cancel" case, see sentinels.go).
type UpdateFunc[K comparable, V comparable] func(key K, value V) (V, bool)

// Dict is a concurrent, almost-lock-free hash map keyed by K and
// storing V, safe for any number of concurrent goroutines calling any
// method.
type Dict[K comparable, V comparable] struct {
	store *store.Store[K, V]
	gen   atomic.Pointer[index.Generation]
	epoch *migrate.Epoch

	hasher Hasher[K]
	config Config

	// The four tunables hotreload.go can adjust live are split out as
	// their own atomics rather than read from config directly: config
	// is written once at construction, but these can change at any
	// moment from the argus watcher goroutine while maybeGrow/
	// maybeShrink/helpMigrate read them concurrently from callers'
	// goroutines.
	growLoadFactor     atomic.Uint64 // math.Float64bits
	shrinkLoadFactor   atomic.Uint64 // math.Float64bits
	migrationChunkSize atomic.Int64
	minLogSize         atomic.Uint32

	// live is an approximate count of Reserved|Inserted, non-Tombstone
	// entries, adjusted optimistically on insert/delete; ApproxLen
	// reads it, and Compact reconciles it against a full scan
	// (stats.go).
	live atomic.Int64

	closed atomic.Bool
}

// New constructs a Dict with the given configuration and optional
// hasher. A nil hasher installs hash/maphash.Comparable with a fresh
// random seed.
func New[K comparable, V comparable](cfg Config, hasher Hasher[K]) (*Dict[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hasher == nil {
		hasher = defaultHasher[K]()
	}

	logSize := uint32(0)
	for uint64(1)<<logSize < uint64(cfg.InitialSize) {
		logSize++
	}

	d := &Dict[K, V]{
		store:  store.New[K, V](),
		epoch:  migrate.NewEpoch(),
		hasher: hasher,
		config: cfg,
	}
	d.growLoadFactor.Store(math.Float64bits(cfg.GrowLoadFactor))
	d.shrinkLoadFactor.Store(math.Float64bits(cfg.ShrinkLoadFactor))
	d.migrationChunkSize.Store(int64(cfg.MigrationChunkSize))
	d.minLogSize.Store(uint32(log2(cfg.MinSize)))
	d.gen.Store(index.New(logSize))
	return d, nil
}

// setGrowLoadFactor, setShrinkLoadFactor, setMigrationChunkSize, and
// setMinSize are called only from hotreload.go's handleConfigChange;
// every read site (maybeGrow, maybeShrink, helpMigrate) loads the
// atomic directly, so a change here is visible to the very next
// operation without any lock.
func (d *Dict[K, V]) setGrowLoadFactor(f float64)     { d.growLoadFactor.Store(math.Float64bits(f)) }
func (d *Dict[K, V]) setShrinkLoadFactor(f float64)   { d.shrinkLoadFactor.Store(math.Float64bits(f)) }
func (d *Dict[K, V]) setMigrationChunkSize(n int)     { d.migrationChunkSize.Store(int64(n)) }
func (d *Dict[K, V]) setMinSize(n int)                { d.minLogSize.Store(uint32(log2(n))) }

// defaultHasher builds the zero-configuration Hasher installed by New
// when the caller does not supply one: hash/maphash.Comparable over a
// seed generated once per Dict, giving every K a well-distributed
// 64-bit hash without reflection or unsafe. No third-party library in
// the example pack offers generic-comparable hashing, so this is the
// one place Triton reaches for the standard library over a dependency
// (see DESIGN.md).
func defaultHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// currentGeneration returns the generation operations should start
// their probe from. It is always non-nil once New has run.
func (d *Dict[K, V]) currentGeneration() *index.Generation {
	return d.gen.Load()
}

// enter/exit wrap an operation in the epoch register so that a
// generation retired mid-operation is not reclaimed while this
// goroutine might still dereference it. slot comes from a
// sync.Pool-backed free list; see migration.go for epochSlot.
func (d *Dict[K, V]) enter() uint32 {
	slot := epochSlot()
	d.epoch.Enter(slot)
	return slot
}

func (d *Dict[K, V]) exit(slot uint32) {
	d.epoch.Exit(slot)
	releaseEpochSlot(slot)
}

// checkOpen returns ErrCodeClosed if the Dict has been closed.
func (d *Dict[K, V]) checkOpen(operation string) error {
	if d.closed.Load() {
		return NewErrClosed(operation)
	}
	return nil
}

// Close marks the Dict closed. Outstanding operations already past
// checkOpen are allowed to finish; no new ones may start. Matches the
// teacher's Cache.Close contract (idempotent, releases no OS
// resources since the map holds none).
func (d *Dict[K, V]) Close() error {
	d.closed.Store(true)
	return nil
}
