// config_test.go: unit tests for Dict configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package triton

import "testing"

func TestConfig_Validate_Defaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InitialSize != DefaultInitialSize {
		t.Errorf("InitialSize = %d, want %d", cfg.InitialSize, DefaultInitialSize)
	}
	if cfg.GrowLoadFactor != DefaultGrowLoadFactor {
		t.Errorf("GrowLoadFactor = %v, want %v", cfg.GrowLoadFactor, DefaultGrowLoadFactor)
	}
	if cfg.ShrinkLoadFactor != DefaultShrinkLoadFactor {
		t.Errorf("ShrinkLoadFactor = %v, want %v", cfg.ShrinkLoadFactor, DefaultShrinkLoadFactor)
	}
	if cfg.MinSize != DefaultMinSize {
		t.Errorf("MinSize = %d, want %d", cfg.MinSize, DefaultMinSize)
	}
	if cfg.MigrationChunkSize != DefaultMigrationChunkSize {
		t.Errorf("MigrationChunkSize = %d, want %d", cfg.MigrationChunkSize, DefaultMigrationChunkSize)
	}
	if cfg.Logger == nil || cfg.TimeProvider == nil || cfg.MetricsCollector == nil {
		t.Error("expected Logger/TimeProvider/MetricsCollector to be defaulted, not nil")
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"non power-of-two initial size", Config{InitialSize: 17}},
		{"negative initial size", Config{InitialSize: -4}},
		{"grow factor at 1.0", Config{GrowLoadFactor: 1.0}},
		{"grow factor negative", Config{GrowLoadFactor: -0.1}},
		{"shrink factor beyond grow factor", Config{GrowLoadFactor: 0.5, ShrinkLoadFactor: 0.5}},
		{"shrink factor negative", Config{ShrinkLoadFactor: -0.1}},
		{"non power-of-two min size", Config{MinSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() should already be valid: %v", err)
	}
}

func TestSystemTimeProvider_Monotonic(t *testing.T) {
	tp := &systemTimeProvider{}
	a := tp.Now()
	b := tp.Now()
	if b < a {
		t.Errorf("expected non-decreasing timestamps, got %d then %d", a, b)
	}
}
