// countdownlatch.go: one-shot decrement-to-zero barrier
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"context"
	"fmt"

	"github.com/agilira/triton/atomicint"
)

// CountDownLatch lets one or more goroutines wait until a set of
// operations performed elsewhere has completed count times. Mirrors
// cereggii.CountDownLatch: the count only moves down, and once it
// reaches zero every current and future Wait returns immediately.
// It is a thin composition of atomicint.AtomicInt (the count) and
// AtomicEvent (the zero-reached signal), rather than a new primitive.
type CountDownLatch struct {
	count       *atomicint.AtomicInt
	reachedZero *AtomicEvent
}

// NewCountDownLatch constructs a latch initialized to count, which
// must be non-negative. A count of zero starts already released.
func NewCountDownLatch(count int64) (*CountDownLatch, error) {
	if count < 0 {
		return nil, fmt.Errorf("triton: CountDownLatch count must be >= 0, got %d", count)
	}
	l := &CountDownLatch{
		count:       atomicint.New(count),
		reachedZero: NewAtomicEvent(),
	}
	if count == 0 {
		l.reachedZero.Set()
	}
	return l, nil
}

// DecrementAndGet decreases the count by one, if it is not already
// zero, and returns the observed count after the attempt. Releases
// every waiter the moment the count reaches zero.
func (l *CountDownLatch) DecrementAndGet() int64 {
	for {
		current := l.count.Get()
		if current == 0 {
			return 0
		}
		if l.count.CompareAndSet(current, current-1) {
			current--
			if current == 0 {
				l.reachedZero.Set()
			}
			return current
		}
	}
}

// Decrement is DecrementAndGet without the return value.
func (l *CountDownLatch) Decrement() {
	l.DecrementAndGet()
}

// Get returns the current count.
func (l *CountDownLatch) Get() int64 {
	return l.count.Get()
}

// Wait blocks until the count reaches zero.
func (l *CountDownLatch) Wait() {
	l.reachedZero.Wait()
}

// WaitContext blocks until the count reaches zero or ctx is done.
func (l *CountDownLatch) WaitContext(ctx context.Context) error {
	return l.reachedZero.WaitContext(ctx)
}
