// errors.go: structured error handling for triton map operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for every operation exposed by Dict.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package triton

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
	"github.com/agilira/triton/atomicint"
)

// Error codes for triton map operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig       errors.ErrorCode = "TRITON_INVALID_CONFIG"
	ErrCodeInvalidInitialSize  errors.ErrorCode = "TRITON_INVALID_INITIAL_SIZE"
	ErrCodeInvalidLoadFactor   errors.ErrorCode = "TRITON_INVALID_LOAD_FACTOR"
	ErrCodeInvalidShrinkFactor errors.ErrorCode = "TRITON_INVALID_SHRINK_FACTOR"
	ErrCodeInvalidPartitions   errors.ErrorCode = "TRITON_INVALID_PARTITIONS"

	// Operation errors (2xxx)
	ErrCodeKeyNotFound       errors.ErrorCode = "TRITON_KEY_NOT_FOUND"
	ErrCodeExpectationFailed errors.ErrorCode = "TRITON_EXPECTATION_FAILED"
	ErrCodeSetFailed         errors.ErrorCode = "TRITON_SET_FAILED"
	ErrCodeDeleteFailed      errors.ErrorCode = "TRITON_DELETE_FAILED"
	ErrCodeOverflow          errors.ErrorCode = "TRITON_OVERFLOW"
	ErrCodeInvalidArgument   errors.ErrorCode = "TRITON_INVALID_ARGUMENT"

	// Reduce/loader errors (3xxx)
	ErrCodeReduceFailed    errors.ErrorCode = "TRITON_REDUCE_FAILED"
	ErrCodeUpdateFailed    errors.ErrorCode = "TRITON_UPDATE_FAILED"
	ErrCodeLoaderFailed    errors.ErrorCode = "TRITON_LOADER_FAILED"
	ErrCodeLoaderCancelled errors.ErrorCode = "TRITON_LOADER_CANCELLED"

	// Configuration hot-reload errors (4xxx)
	ErrCodeHotReloadFailed errors.ErrorCode = "TRITON_HOT_RELOAD_FAILED"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "TRITON_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "TRITON_PANIC_RECOVERED"

	// Migration errors (6xxx)
	ErrCodeMigrationStalled   errors.ErrorCode = "TRITON_MIGRATION_STALLED"
	ErrCodeCorruptionDetected errors.ErrorCode = "TRITON_CORRUPTION_DETECTED"

	// Concurrency errors (7xxx)
	ErrCodeConcurrentUsageDetected errors.ErrorCode = "TRITON_CONCURRENT_USAGE_DETECTED"
	ErrCodeClosed                  errors.ErrorCode = "TRITON_CLOSED"
)

const (
	msgInvalidInitialSize  = "invalid initial size: must be a positive power of two"
	msgInvalidLoadFactor   = "invalid grow load factor: must be between 0.0 and 1.0"
	msgInvalidShrinkFactor = "invalid shrink load factor: must be between 0.0 and the grow load factor"
	msgInvalidPartitions   = "invalid partition count for FastIter"
	msgKeyNotFound         = "key not found"
	msgExpectationFailed   = "compare-and-set expectation did not match the current value"
	msgSetFailed           = "failed to set key-value pair"
	msgDeleteFailed        = "failed to delete key"
	msgOverflow            = "operation would overflow the counter's representable range"
	msgInvalidArgument     = "invalid argument"
	msgReduceFailed        = "reduce function failed"
	msgUpdateFailed        = "update function failed"
	msgLoaderFailed        = "loader function failed"
	msgLoaderCancelled     = "loader function was cancelled"
	msgHotReloadFailed     = "failed to apply reloaded configuration"
	msgInternalError       = "internal map error"
	msgPanicRecovered      = "panic recovered in map operation"
	msgMigrationStalled    = "migration did not complete within the configured help budget"
	msgCorruptionDetected  = "detected an internal invariant violation"
	msgConcurrentUsage     = "detected a usage pattern that violates the map's concurrency contract"
	msgClosed              = "operation attempted on a closed resource"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidInitialSize creates an error for a non power-of-two or
// non-positive initial size.
func NewErrInvalidInitialSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidInitialSize, msgInvalidInitialSize, map[string]interface{}{
		"provided_size": size,
	})
}

// NewErrInvalidLoadFactor creates an error for an out-of-range grow
// load factor.
func NewErrInvalidLoadFactor(factor float64) error {
	return errors.NewWithContext(ErrCodeInvalidLoadFactor, msgInvalidLoadFactor, map[string]interface{}{
		"provided_factor": factor,
		"valid_range":     "0.0 < factor < 1.0",
	})
}

// NewErrInvalidShrinkFactor creates an error for an out-of-range shrink
// load factor.
func NewErrInvalidShrinkFactor(factor float64) error {
	return errors.NewWithContext(ErrCodeInvalidShrinkFactor, msgInvalidShrinkFactor, map[string]interface{}{
		"provided_factor": factor,
	})
}

// NewErrInvalidPartitions creates an error for a FastIter call with a
// nonsensical partition count or index.
func NewErrInvalidPartitions(partitions, index int) error {
	return errors.NewWithContext(ErrCodeInvalidPartitions, msgInvalidPartitions, map[string]interface{}{
		"partitions": partitions,
		"index":      index,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrKeyNotFound creates an error when a key has no mapping.
func NewErrKeyNotFound(key interface{}) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", key)
}

// NewErrExpectationFailed creates an error when CompareAndSet's expected
// value did not match.
func NewErrExpectationFailed(key interface{}) error {
	return errors.NewWithField(ErrCodeExpectationFailed, msgExpectationFailed, "key", key)
}

// NewErrSetFailed creates an error when Set could not install a value.
func NewErrSetFailed(key interface{}, reason string) error {
	return errors.NewWithContext(ErrCodeSetFailed, msgSetFailed, map[string]interface{}{
		"key":    key,
		"reason": reason,
	}).AsRetryable()
}

// NewErrDeleteFailed creates an error when Delete could not remove a key.
func NewErrDeleteFailed(key interface{}, reason string) error {
	return errors.NewWithContext(ErrCodeDeleteFailed, msgDeleteFailed, map[string]interface{}{
		"key":    key,
		"reason": reason,
	}).AsRetryable()
}

// NewErrOverflow creates an ErrCodeOverflow error for an int64
// operation that would overflow its representable range.
// atomicint.AtomicInt reports its own overflows with
// atomicint.ErrCodeOverflow instead.
func NewErrOverflow(operation string, current, delta int64) error {
	return errors.NewWithContext(ErrCodeOverflow, msgOverflow, map[string]interface{}{
		"operation": operation,
		"current":   current,
		"delta":     delta,
	})
}

// NewErrInvalidArgument creates a generic invalid-argument error.
func NewErrInvalidArgument(operation, detail string) error {
	return errors.NewWithContext(ErrCodeInvalidArgument, msgInvalidArgument, map[string]interface{}{
		"operation": operation,
		"detail":    detail,
	})
}

// =============================================================================
// REDUCE / LOADER ERRORS
// =============================================================================

// NewErrReduceFailed wraps a panic or error raised by a user-supplied
// reduce function.
func NewErrReduceFailed(cause error) error {
	return errors.Wrap(cause, ErrCodeReduceFailed, msgReduceFailed)
}

// NewErrUpdateFailed wraps a panic or error raised by a user-supplied
// UpdateBy function.
func NewErrUpdateFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeUpdateFailed, msgUpdateFailed).
		WithContext("key", key)
}

// NewErrLoaderFailed wraps a failure from an AtomicCache loader.
func NewErrLoaderFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", key).
		AsRetryable()
}

// NewErrLoaderCancelled creates an error when a loader's context was
// cancelled before it completed.
func NewErrLoaderCancelled(key interface{}) error {
	return errors.NewWithField(ErrCodeLoaderCancelled, msgLoaderCancelled, "key", key)
}

// =============================================================================
// HOT-RELOAD ERRORS
// =============================================================================

// NewErrHotReloadFailed wraps a failure applying a reloaded configuration.
func NewErrHotReloadFailed(cause error) error {
	return errors.Wrap(cause, ErrCodeHotReloadFailed, msgHotReloadFailed).
		WithSeverity("warning")
}

// =============================================================================
// INTERNAL / MIGRATION / CONCURRENCY ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered from a
// user-supplied callback (reduce, update, or loader function).
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// NewErrMigrationStalled creates an error when help-migrate could not
// finish a generation transition within its configured retry budget.
func NewErrMigrationStalled(attempts int) error {
	return errors.NewWithContext(ErrCodeMigrationStalled, msgMigrationStalled, map[string]interface{}{
		"attempts": attempts,
	}).AsRetryable().WithSeverity("warning")
}

// NewErrCorruptionDetected creates an error for an internal invariant
// violation (e.g. a Robin-Hood distance exceeding the slot word's range
// without a migration having been scheduled).
func NewErrCorruptionDetected(detail string) error {
	return errors.NewWithContext(ErrCodeCorruptionDetected, msgCorruptionDetected, map[string]interface{}{
		"detail": detail,
	}).WithSeverity("critical")
}

// NewErrConcurrentUsageDetected creates an error for a call sequence
// that violates the map's documented concurrency contract (e.g. a
// non-reentrant handle used from two goroutines at once).
func NewErrConcurrentUsageDetected(detail string) error {
	return errors.NewWithContext(ErrCodeConcurrentUsageDetected, msgConcurrentUsage, map[string]interface{}{
		"detail": detail,
	}).WithSeverity("critical")
}

// NewErrClosed creates an error when an operation is attempted on an
// already-closed Dict.
func NewErrClosed(operation string) error {
	return errors.NewWithField(ErrCodeClosed, msgClosed, "operation", operation)
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound reports whether err is a key-not-found error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsExpectationFailed reports whether err is a CompareAndSet/CompareAndDelete
// mismatch.
func IsExpectationFailed(err error) bool {
	return errors.HasCode(err, ErrCodeExpectationFailed)
}

// IsOverflow reports whether err is an AtomicInt overflow error
// (atomicint.ErrCodeOverflow) or carries ErrCodeOverflow.
func IsOverflow(err error) bool {
	return errors.HasCode(err, ErrCodeOverflow) || errors.HasCode(err, atomicint.ErrCodeOverflow)
}

// IsRetryable reports whether err can be retried by the caller.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the structured error code from err, or "" if
// err does not carry one.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the structured context map from err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var e *errors.Error
	if goerrors.As(err, &e) {
		return e.Context
	}
	return nil
}
