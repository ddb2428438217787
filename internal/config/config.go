// Package config defines pipeline configuration and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - The configuration is validated exactly once, at load time. Domain
//   packages receive already-validated values and never re-check them.
package config

import (
	"fmt"

	"github.com/aso-kit/keyrank/internal/domain/normalize"
	"github.com/aso-kit/keyrank/internal/domain/scoring"
)

// Config contains one run's configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Factor weights for the composite score. Non-negative; they
	// conventionally sum to 1 but are not required to.
	DifficultyWeight float64 `koanf:"difficulty_weight"`
	TrafficWeight    float64 `koanf:"traffic_weight"`
	AppCountWeight   float64 `koanf:"app_count_weight"`
	LengthWeight     float64 `koanf:"length_weight"`

	// CharacterBudget caps the total characters of the selection,
	// separators included. 0 disables the cap.
	CharacterBudget int `koanf:"character_budget"`

	// MaxCount caps how many keywords may be selected. 0 disables it.
	MaxCount int `koanf:"max_count"`

	// LengthPreference is "shorter" or "target".
	LengthPreference string `koanf:"length_preference"`

	// TargetLength is the ideal keyword length for the "target"
	// preference.
	TargetLength int `koanf:"target_length"`

	// ClampOutOfDomain pulls out-of-domain metric values to the nearest
	// bound instead of rejecting the row.
	ClampOutOfDomain bool `koanf:"clamp_out_of_domain"`

	// ScaleMode is "observed" (batch min-max) or "fixed" (base
	// denominators).
	ScaleMode string `koanf:"scale_mode"`

	// AppsBase and LengthBase are the fixed-mode denominator bases.
	AppsBase   float64 `koanf:"apps_base"`
	LengthBase float64 `koanf:"length_base"`

	// SeparatorCost is charged per selected keyword after the first.
	SeparatorCost int `koanf:"separator_cost"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config with the documented defaults. The weight mix and
// the fixed-scale bases are the ones the original selection process
// shipped with; the 100-character budget matches the store metadata field
// the tool targets.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		DifficultyWeight: 0.55,
		TrafficWeight:    0.35,
		AppCountWeight:   0.05,
		LengthWeight:     0.05,
		CharacterBudget:  100,
		MaxCount:         0,
		LengthPreference: string(normalize.PreferShorter),
		TargetLength:     0,
		ClampOutOfDomain: false,
		ScaleMode:        string(normalize.ScaleObserved),
		AppsBase:         3500,
		LengthBase:       6,
		SeparatorCost:    1,
		WorkerCount:      1,
	}
}

// Weights returns the configured factor weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Difficulty: c.DifficultyWeight,
		Traffic:    c.TrafficWeight,
		AppCount:   c.AppCountWeight,
		Length:     c.LengthWeight,
	}
}

// Validate checks the configuration. It reports the first violation
// wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if !c.Weights().Valid() {
		return fmt.Errorf("%w: weights must be non-negative finite numbers", ErrInvalidConfig)
	}
	if c.CharacterBudget < 0 {
		return fmt.Errorf("%w: character_budget must not be negative", ErrInvalidConfig)
	}
	if c.MaxCount < 0 {
		return fmt.Errorf("%w: max_count must not be negative", ErrInvalidConfig)
	}
	switch normalize.LengthPreference(c.LengthPreference) {
	case normalize.PreferShorter:
	case normalize.PreferTarget:
		if c.TargetLength <= 0 {
			return fmt.Errorf("%w: length_preference %q requires a positive target_length", ErrInvalidConfig, c.LengthPreference)
		}
	default:
		return fmt.Errorf("%w: unknown length_preference %q", ErrInvalidConfig, c.LengthPreference)
	}
	switch normalize.ScaleMode(c.ScaleMode) {
	case normalize.ScaleObserved, normalize.ScaleFixed:
	default:
		return fmt.Errorf("%w: unknown scale_mode %q", ErrInvalidConfig, c.ScaleMode)
	}
	if c.AppsBase <= 0 || c.LengthBase <= 0 {
		return fmt.Errorf("%w: apps_base and length_base must be positive", ErrInvalidConfig)
	}
	if c.SeparatorCost < 0 {
		return fmt.Errorf("%w: separator_cost must not be negative", ErrInvalidConfig)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	}
	return nil
}
