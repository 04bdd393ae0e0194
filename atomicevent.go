// atomicevent.go: one-shot flag with broadcast wakeup
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"context"
	"sync"
	"sync/atomic"
)

// AtomicEvent is a one-shot flag: Set transitions it from unset to
// set exactly once, and every Wait/WaitContext call (past or future)
// unblocks the moment that happens. It is the Go analogue of
// cereggii's AtomicEvent, built on the same closed-channel broadcast
// idiom as the teacher's loading.go inflightCall.done, rather than a
// sync.Cond: closing a channel wakes every waiter without a loop
// re-checking a predicate under a lock.
type AtomicEvent struct {
	once sync.Once
	done chan struct{}
	set  atomic.Bool
}

// NewAtomicEvent constructs an unset AtomicEvent.
func NewAtomicEvent() *AtomicEvent {
	return &AtomicEvent{done: make(chan struct{})}
}

// Set transitions the event to set, waking every current and future
// waiter. Safe to call more than once; only the first call has any
// effect.
func (e *AtomicEvent) Set() {
	e.once.Do(func() {
		e.set.Store(true)
		close(e.done)
	})
}

// IsSet reports whether Set has been called.
func (e *AtomicEvent) IsSet() bool {
	return e.set.Load()
}

// Wait blocks until Set is called.
func (e *AtomicEvent) Wait() {
	<-e.done
}

// WaitContext blocks until Set is called or ctx is done, whichever
// happens first, returning ctx.Err() in the latter case.
func (e *AtomicEvent) WaitContext(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
