// Package config holds the threshold configuration for one analysis run.
// Thresholds are always passed explicitly into the engine; nothing in this
// package reads process-wide mutable state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config enumerates every tunable threshold the engine consults.
type Config struct {
	// MissingRatioThreshold is the per-column missing-value ratio above
	// which the quality scanner flags the column.
	MissingRatioThreshold float64 `json:"missing_ratio_threshold" yaml:"missing_ratio_threshold" toml:"missing_ratio_threshold"`

	// ZScoreThreshold is the |z| above which a value is an anomaly.
	ZScoreThreshold float64 `json:"zscore_threshold" yaml:"zscore_threshold" toml:"zscore_threshold"`

	// TrendPctThreshold is the consecutive-period percentage change
	// (as a ratio, 0.20 = 20%) above which a trend finding is emitted.
	TrendPctThreshold float64 `json:"trend_pct_threshold" yaml:"trend_pct_threshold" toml:"trend_pct_threshold"`

	// TrendSeverePct is the trend magnitude at which a finding alone
	// makes the verdict critical.
	TrendSeverePct float64 `json:"trend_severe_pct" yaml:"trend_severe_pct" toml:"trend_severe_pct"`

	// QualityCriticalFloor is the quality score below which the verdict
	// is critical.
	QualityCriticalFloor float64 `json:"quality_critical_floor" yaml:"quality_critical_floor" toml:"quality_critical_floor"`

	// QualityWarningFloor is the quality score below which the verdict
	// is at least warning.
	QualityWarningFloor float64 `json:"quality_warning_floor" yaml:"quality_warning_floor" toml:"quality_warning_floor"`

	// AnomalySevereCount is the anomaly count at which the verdict is
	// critical regardless of individual magnitudes.
	AnomalySevereCount int `json:"anomaly_severe_count" yaml:"anomaly_severe_count" toml:"anomaly_severe_count"`
}

// Default returns the threshold set used when the caller supplies nothing.
func Default() Config {
	return Config{
		MissingRatioThreshold: 0.05,
		ZScoreThreshold:       3.0,
		TrendPctThreshold:     0.20,
		TrendSeverePct:        0.30,
		QualityCriticalFloor:  50,
		QualityWarningFloor:   85,
		AnomalySevereCount:    5,
	}
}

// ConfigurationError reports a threshold outside its valid range. It is
// returned before any computation starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// Validate checks every field against its valid range.
func (c Config) Validate() error {
	if c.MissingRatioThreshold < 0 || c.MissingRatioThreshold > 1 {
		return &ConfigurationError{Field: "missing_ratio_threshold", Reason: "must be within [0, 1]"}
	}
	if c.ZScoreThreshold <= 0 {
		return &ConfigurationError{Field: "zscore_threshold", Reason: "must be positive"}
	}
	if c.TrendPctThreshold < 0 {
		return &ConfigurationError{Field: "trend_pct_threshold", Reason: "must not be negative"}
	}
	if c.TrendSeverePct < 0 {
		return &ConfigurationError{Field: "trend_severe_pct", Reason: "must not be negative"}
	}
	if c.QualityCriticalFloor < 0 || c.QualityCriticalFloor > 100 {
		return &ConfigurationError{Field: "quality_critical_floor", Reason: "must be within [0, 100]"}
	}
	if c.QualityWarningFloor < 0 || c.QualityWarningFloor > 100 {
		return &ConfigurationError{Field: "quality_warning_floor", Reason: "must be within [0, 100]"}
	}
	if c.QualityWarningFloor < c.QualityCriticalFloor {
		return &ConfigurationError{Field: "quality_warning_floor", Reason: "must not be below quality_critical_floor"}
	}
	if c.AnomalySevereCount < 1 {
		return &ConfigurationError{Field: "anomaly_severe_count", Reason: "must be at least 1"}
	}
	return nil
}

// Load reads a threshold profile from a YAML or TOML file, selected by
// extension. Omitted keys keep their defaults; the result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read threshold profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML threshold profile %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse TOML threshold profile %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported threshold profile format: %s (expected .yaml, .yml or .toml)", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories as
// needed.
func Save(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal threshold profile: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write threshold profile: %w", err)
	}
	return nil
}
