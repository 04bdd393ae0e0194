// Package atomiccache provides a memoizing cache layered on top of
// triton.Dict, the Go analogue of cereggii's AtomicCache: concurrent
// callers racing to fill the same key collapse into a single call to
// the fill function, with every loser waiting on the winner's result
// instead of recomputing it.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomiccache

import (
	"time"

	"github.com/agilira/triton"
)

// FillFunc computes the value for a key not yet present (or expired)
// in the cache. Returning a non-nil error caches the error itself:
// every waiter on that fill observes the same error until the entry
// is invalidated or expires.
type FillFunc[K comparable, V comparable] func(key K) (V, error)

// cacheEntry is the value type stored in the backing Dict. It is
// comparable (a requirement of Dict's V) because ready is a pointer:
// two entries are equal only if they are the literal same entry, which
// is exactly the identity CompareAndSet needs.
type cacheEntry[V comparable] struct {
	ready       *triton.AtomicEvent
	value       V
	err         error
	expiresNano int64
	reservation bool
	tombstone   bool
}

// AtomicCache memoizes fill over a triton.Dict[K, cacheEntry[V]].
// AtomicCache does not expose a direct Set: the only way to populate
// or refresh an entry is through Get's fill path or Invalidate, so
// concurrent callers can never observe a half-written value.
type AtomicCache[K comparable, V comparable] struct {
	dict *triton.Dict[K, cacheEntry[V]]
	fill FillFunc[K, V]
	ttl  time.Duration
}

// New constructs an AtomicCache backed by a fresh Dict. ttl of zero
// means entries never expire on their own (Invalidate is still
// available). Expiry is measured with time.Now.
func New[K comparable, V comparable](fill FillFunc[K, V], ttl time.Duration) (*AtomicCache[K, V], error) {
	d, err := triton.New[K, cacheEntry[V]](triton.DefaultConfig(), nil)
	if err != nil {
		return nil, err
	}
	return &AtomicCache[K, V]{dict: d, fill: fill, ttl: ttl}, nil
}

// Get returns the cached value for key, computing it via fill if
// absent, tombstoned, or expired. Concurrent callers for the same key
// share one call to fill: all but the first block on the filler's
// AtomicEvent instead of invoking fill themselves.
func (c *AtomicCache[K, V]) Get(key K) (V, error) {
	for {
		entry, found := c.dict.Get(key)
		if !found || entry.tombstone || c.expired(entry) {
			entry = c.doFill(key, entry, found)
		}
		if entry.reservation {
			entry.ready.Wait()
			continue
		}
		return entry.value, entry.err
	}
}

func (c *AtomicCache[K, V]) expired(entry cacheEntry[V]) bool {
	return entry.expiresNano != 0 && entry.expiresNano < time.Now().UnixNano()
}

// doFill installs a reservation for key (racing against any other
// caller doing the same), fills it, and publishes the result. If this
// call loses the reservation race it returns whatever the winner (or a
// still-in-flight reservation) left behind instead of calling fill
// itself.
func (c *AtomicCache[K, V]) doFill(key K, current cacheEntry[V], currentFound bool) cacheEntry[V] {
	reservation := cacheEntry[V]{ready: triton.NewAtomicEvent(), reservation: true}

	var won bool
	if currentFound {
		won = c.dict.CompareAndSet(key, current, reservation) == nil
	} else {
		won = c.dict.Insert(key, reservation)
	}
	if !won {
		if got, found := c.dict.Get(key); found {
			return got
		}
		return c.doFill(key, current, currentFound)
	}

	value, err := c.callFill(key)
	var expires int64
	if c.ttl > 0 {
		expires = time.Now().Add(c.ttl).UnixNano()
	}
	final := cacheEntry[V]{ready: triton.NewAtomicEvent(), value: value, err: err, expiresNano: expires}
	final.ready.Set()

	// This CAS must not fail: nothing else ever transitions a
	// reservation to a non-reservation entry for the same key, so a
	// failure means the map is corrupt.
	if err := c.dict.CompareAndSet(key, reservation, final); err != nil {
		panic(triton.NewErrCorruptionDetected("atomiccache: reservation CAS failed: " + err.Error()))
	}
	reservation.ready.Set()
	return final
}

// callFill invokes fill with panic recovery, so one caller's broken
// loader fails only its own Get instead of crashing the goroutine that
// happened to win the reservation race on its behalf.
func (c *AtomicCache[K, V]) callFill(key K) (value V, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = triton.NewErrPanicRecovered("atomiccache.Get", p)
		}
	}()
	return c.fill(key)
}

// Invalidate tombstones key's entry, if any, waiting out any fill
// already in flight so the tombstone is never clobbered by a result
// that was already on its way in.
func (c *AtomicCache[K, V]) Invalidate(key K) {
	entry, found := c.dict.Get(key)
	for {
		if !found {
			return
		}
		if entry.reservation {
			entry.ready.Wait()
			entry, found = c.dict.Get(key)
			continue
		}
		tombstone := cacheEntry[V]{ready: entry.ready, tombstone: true}
		if c.dict.CompareAndSet(key, entry, tombstone) == nil {
			return
		}
		entry, found = c.dict.Get(key)
	}
}

// MemoizedFunction wraps a plain function so repeated calls with the
// same arguments share one computation, the generalization of
// cereggii's AtomicCache.memoize decorator to Go's lack of decorators.
type MemoizedFunction[A comparable, R comparable] struct {
	cache *AtomicCache[A, R]
}

// Memoize builds a MemoizedFunction around fn, keyed on fn's single
// argument. Go's type system can't express memoize over an arbitrary
// arity of arguments the way Python's *args/**kwargs can, so callers
// needing a multi-argument key supply a comparable struct as A.
func Memoize[A comparable, R comparable](fn func(A) R, ttl time.Duration) (*MemoizedFunction[A, R], error) {
	cache, err := New[A, R](func(arg A) (R, error) {
		return fn(arg), nil
	}, ttl)
	if err != nil {
		return nil, err
	}
	return &MemoizedFunction[A, R]{cache: cache}, nil
}

// Call returns fn(arg), computing it at most once per distinct arg
// among concurrent callers (until ttl expires or Invalidate is called).
func (m *MemoizedFunction[A, R]) Call(arg A) R {
	v, _ := m.cache.Get(arg)
	return v
}

// Invalidate forces the next Call(arg) to recompute fn(arg).
func (m *MemoizedFunction[A, R]) Invalidate(arg A) {
	m.cache.Invalidate(arg)
}
