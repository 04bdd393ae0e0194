// hotreload.go: dynamic tuning via Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file with Argus and applies
// changes to a Dict's tunable thresholds as they are detected. Only
// GrowLoadFactor, ShrinkLoadFactor, MinSize, and MigrationChunkSize
// can be hot-reloaded: InitialSize fixes the map's starting capacity
// at construction and cannot change without rebuilding the Dict.
type HotConfig[K comparable, V comparable] struct {
	dict    *Dict[K, V]
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully applied.
	// Must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully applied.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations. If nil, uses NoOpLogger.
	Logger Logger
}

// NewHotConfig starts watching ConfigPath and applying changes to
// dict's tunables immediately.
//
// Example configuration file (YAML):
//
//	dict:
//	  grow_load_factor: 0.875
//	  shrink_load_factor: 0.125
//	  min_size: 16
//	  migration_chunk_size: 256
//
// Supported configuration keys:
//   - dict.grow_load_factor (float, exclusive 0-1): grow trigger
//   - dict.shrink_load_factor (float, 0 inclusive to grow_load_factor exclusive): shrink trigger
//   - dict.min_size (int, power of two): shrink floor
//   - dict.migration_chunk_size (int, positive): help-migrate batch size
func NewHotConfig[K comparable, V comparable](dict *Dict[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("triton: hot config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig[K, V]{
		dict:     dict,
		OnReload: opts.OnReload,
		config:   dict.config,
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the last successfully applied configuration.
func (hc *HotConfig[K, V]) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is Argus's change callback.
func (hc *HotConfig[K, V]) handleConfigChange(data map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(data, oldConfig)
	hc.config = newConfig
	hc.mu.Unlock()

	hc.applyChanges(newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parseConfig extracts tunables from Argus config data, leaving any
// key that is absent or out of range at its value in base.
func (hc *HotConfig[K, V]) parseConfig(data map[string]interface{}, base Config) Config {
	config := base

	section, ok := data["dict"].(map[string]interface{})
	if !ok {
		if _, hasKey := data["grow_load_factor"]; hasKey {
			section = data
		} else {
			return config
		}
	}

	if v, ok := parseFloatOpenRange(section["grow_load_factor"], 0, 1); ok {
		config.GrowLoadFactor = v
	}
	if v, ok := parseFloatHalfOpenRange(section["shrink_load_factor"], 0, config.GrowLoadFactor); ok {
		config.ShrinkLoadFactor = v
	}
	if v, ok := parsePositivePowerOfTwo(section["min_size"]); ok {
		config.MinSize = v
	}
	if v, ok := parsePositiveInt(section["migration_chunk_size"]); ok {
		config.MigrationChunkSize = v
	}

	return config
}

// applyChanges pushes the parsed tunables into dict's atomics.
// GrowLoadFactor is applied before ShrinkLoadFactor and MinSize so
// maybeShrink never observes a new shrink floor paired with a stale
// grow factor, however briefly.
func (hc *HotConfig[K, V]) applyChanges(newConfig Config) {
	hc.dict.setGrowLoadFactor(newConfig.GrowLoadFactor)
	hc.dict.setShrinkLoadFactor(newConfig.ShrinkLoadFactor)
	hc.dict.setMinSize(newConfig.MinSize)
	hc.dict.setMigrationChunkSize(newConfig.MigrationChunkSize)
}

// parsePositiveInt extracts a positive integer from interface{},
// accepting both int and float64 (YAML/JSON decode differently).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parsePositivePowerOfTwo extracts a positive power-of-two integer.
func parsePositivePowerOfTwo(value interface{}) (int, bool) {
	n, ok := parsePositiveInt(value)
	if !ok || n&(n-1) != 0 {
		return 0, false
	}
	return n, true
}

// parseFloatOpenRange extracts a float64 strictly between lo and hi.
func parseFloatOpenRange(value interface{}, lo, hi float64) (float64, bool) {
	v, ok := value.(float64)
	if !ok || v <= lo || v >= hi {
		return 0, false
	}
	return v, true
}

// parseFloatHalfOpenRange extracts a float64 in [lo, hi).
func parseFloatHalfOpenRange(value interface{}, lo, hi float64) (float64, bool) {
	v, ok := value.(float64)
	if !ok || v < lo || v >= hi {
		return 0, false
	}
	return v, true
}
