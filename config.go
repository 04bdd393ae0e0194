// config.go: configuration for Dict
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"github.com/agilira/go-timecache"
)

// Default tuning knobs, applied by Config.Validate when a field is
// left at its zero value.
const (
	// DefaultInitialSize is the starting capacity (in slots) of a new
	// Dict's first generation.
	DefaultInitialSize = 16

	// DefaultGrowLoadFactor is the load fraction at which an insertion
	// schedules a grow migration (§4.5).
	DefaultGrowLoadFactor = 0.875

	// DefaultShrinkLoadFactor is the live fraction below which a
	// deletion schedules a shrink migration.
	DefaultShrinkLoadFactor = 0.125

	// DefaultMinSize is the smallest generation size the map will
	// shrink to, regardless of how empty it gets.
	DefaultMinSize = 16

	// DefaultMigrationChunkSize bounds how many old-generation slots a
	// single help-migrate call processes before returning control to
	// the caller.
	DefaultMigrationChunkSize = 256
)

// Config holds construction parameters for a Dict.
type Config struct {
	// InitialSize is the capacity (in slots) of the first generation.
	// Must be a power of two. Default: DefaultInitialSize.
	InitialSize int

	// GrowLoadFactor is the load fraction that triggers a grow
	// migration. Must be between 0.0 and 1.0. Default: DefaultGrowLoadFactor.
	GrowLoadFactor float64

	// ShrinkLoadFactor is the live fraction below which a shrink
	// migration is scheduled. Must be between 0.0 and GrowLoadFactor.
	// Default: DefaultShrinkLoadFactor.
	ShrinkLoadFactor float64

	// MinSize is the smallest generation size Dict will shrink to.
	// Default: DefaultMinSize.
	MinSize int

	// MigrationChunkSize bounds the work a single help-migrate call
	// performs. Default: DefaultMigrationChunkSize.
	MigrationChunkSize int

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider supplies timestamps for latency measurement.
	// If nil, a default implementation is used. Default: system time.
	TimeProvider TimeProvider

	// MetricsCollector receives operation metrics (latencies,
	// hit/miss rates, migration events). If nil, NoOpMetricsCollector
	// is used (zero overhead). Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// HotConfigPath, if non-empty, is watched by argus for live
	// updates to the tunable fields above (see hotreload.go).
	HotConfigPath string
}

// Validate checks configuration parameters and applies sensible
// defaults. Returns an error only when a non-zero field is out of its
// valid range; zero fields are silently defaulted.
//
// This method is automatically called by New, so it typically doesn't
// need to be called manually. It's exposed so callers can inspect the
// normalized configuration ahead of time.
func (c *Config) Validate() error {
	if c.InitialSize == 0 {
		c.InitialSize = DefaultInitialSize
	} else if c.InitialSize <= 0 || c.InitialSize&(c.InitialSize-1) != 0 {
		return NewErrInvalidInitialSize(c.InitialSize)
	}

	if c.GrowLoadFactor == 0 {
		c.GrowLoadFactor = DefaultGrowLoadFactor
	} else if c.GrowLoadFactor <= 0 || c.GrowLoadFactor >= 1 {
		return NewErrInvalidLoadFactor(c.GrowLoadFactor)
	}

	if c.ShrinkLoadFactor == 0 {
		c.ShrinkLoadFactor = DefaultShrinkLoadFactor
	} else if c.ShrinkLoadFactor < 0 || c.ShrinkLoadFactor >= c.GrowLoadFactor {
		return NewErrInvalidShrinkFactor(c.ShrinkLoadFactor)
	}

	if c.MinSize == 0 {
		c.MinSize = DefaultMinSize
	} else if c.MinSize <= 0 || c.MinSize&(c.MinSize-1) != 0 {
		return NewErrInvalidInitialSize(c.MinSize)
	}

	if c.MigrationChunkSize <= 0 {
		c.MigrationChunkSize = DefaultMigrationChunkSize
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InitialSize:        DefaultInitialSize,
		GrowLoadFactor:     DefaultGrowLoadFactor,
		ShrinkLoadFactor:   DefaultShrinkLoadFactor,
		MinSize:            DefaultMinSize,
		MigrationChunkSize: DefaultMigrationChunkSize,
		Logger:             NoOpLogger{},
		TimeProvider:       &systemTimeProvider{},
		MetricsCollector:   NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides fast time access compared to time.Now() with zero
// extra allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
