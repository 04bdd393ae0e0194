// Package atomicint provides an overflow-checked 64-bit atomic
// counter, the Go analogue of cereggii's AtomicInt.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomicint

import (
	"math"
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// ErrCodeOverflow is returned when an operation would push the
// counter outside [math.MinInt64, math.MaxInt64].
const ErrCodeOverflow errors.ErrorCode = "ATOMICINT_OVERFLOW"

// NewErrOverflow builds a structured overflow error carrying the
// attempted operation and operands, mirroring the root package's
// errors.go idiom.
func NewErrOverflow(operation string, current, delta int64) error {
	return errors.NewWithContext(ErrCodeOverflow, "operation would overflow int64 range", map[string]interface{}{
		"operation": operation,
		"current":   current,
		"delta":     delta,
	})
}

// AtomicInt wraps atomic.Int64 with increment/decrement/update helpers
// that detect overflow instead of silently wrapping, matching
// cereggii.AtomicInt's OverflowError contract.
type AtomicInt struct {
	v atomic.Int64
}

// New constructs an AtomicInt holding initial.
func New(initial int64) *AtomicInt {
	a := &AtomicInt{}
	a.v.Store(initial)
	return a
}

// Get returns the current value.
func (a *AtomicInt) Get() int64 { return a.v.Load() }

// Set unconditionally installs value.
func (a *AtomicInt) Set(value int64) { a.v.Store(value) }

// GetAndSet installs value, returning the previous one.
func (a *AtomicInt) GetAndSet(value int64) int64 { return a.v.Swap(value) }

// CompareAndSet installs desired only if the current value equals
// expected, reporting whether it did so.
func (a *AtomicInt) CompareAndSet(expected, desired int64) bool {
	return a.v.CompareAndSwap(expected, desired)
}

// willOverflow reports whether current+delta overflows int64.
func willOverflow(current, delta int64) bool {
	if delta > 0 {
		return current > math.MaxInt64-delta
	}
	if delta < 0 {
		return current < math.MinInt64-delta
	}
	return false
}

// IncrementAndGet adds delta (default 1 when delta is empty) and
// returns the new value, or ErrCodeOverflow if the addition would
// overflow.
func (a *AtomicInt) IncrementAndGet(delta ...int64) (int64, error) {
	d := int64(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	for {
		cur := a.v.Load()
		if willOverflow(cur, d) {
			return 0, NewErrOverflow("increment_and_get", cur, d)
		}
		next := cur + d
		if a.v.CompareAndSwap(cur, next) {
			return next, nil
		}
	}
}

// GetAndIncrement is IncrementAndGet's pre-increment counterpart,
// returning the value before the addition.
func (a *AtomicInt) GetAndIncrement(delta ...int64) (int64, error) {
	d := int64(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	for {
		cur := a.v.Load()
		if willOverflow(cur, d) {
			return 0, NewErrOverflow("get_and_increment", cur, d)
		}
		if a.v.CompareAndSwap(cur, cur+d) {
			return cur, nil
		}
	}
}

// DecrementAndGet subtracts delta (default 1) and returns the new
// value.
func (a *AtomicInt) DecrementAndGet(delta ...int64) (int64, error) {
	d := int64(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	return a.IncrementAndGet(-d)
}

// GetAndDecrement subtracts delta (default 1), returning the value
// before the subtraction.
func (a *AtomicInt) GetAndDecrement(delta ...int64) (int64, error) {
	d := int64(1)
	if len(delta) > 0 {
		d = delta[0]
	}
	return a.GetAndIncrement(-d)
}

// UpdateAndGet applies fn to the current value in a CAS retry loop,
// installing and returning the result.
func (a *AtomicInt) UpdateAndGet(fn func(int64) int64) int64 {
	for {
		cur := a.v.Load()
		next := fn(cur)
		if a.v.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// GetAndUpdate is UpdateAndGet's pre-update counterpart, returning the
// value before fn was applied.
func (a *AtomicInt) GetAndUpdate(fn func(int64) int64) int64 {
	for {
		cur := a.v.Load()
		next := fn(cur)
		if a.v.CompareAndSwap(cur, next) {
			return cur
		}
	}
}
