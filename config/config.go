package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries the knobs the pipeline components need. Everything here is
// passed explicitly into component calls; there is no ambient state.
type Config struct {
	Index   IndexConfig   `json:"index" yaml:"index"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}

// IndexConfig controls constituent selection and index chaining.
type IndexConfig struct {
	// BaseValue seeds the index level on the first date of the series.
	BaseValue float64 `json:"base_value" yaml:"base_value"`
	// TopN is the target constituent count per day.
	TopN int `json:"top_n" yaml:"top_n"`
}

// MetricsConfig controls the rolling and summary calculators.
type MetricsConfig struct {
	// RollingWindow is the trailing observation count for volatility, beta
	// and cumulative return. Rolling fields are null below this count.
	RollingWindow int `json:"rolling_window" yaml:"rolling_window"`
	// SummaryWindowDays is the default trailing window for summary metrics.
	SummaryWindowDays int `json:"summary_window_days" yaml:"summary_window_days"`
	// AnnualizationDays scales daily figures to annual ones (trading days).
	AnnualizationDays int `json:"annualization_days" yaml:"annualization_days"`
	// JumpThreshold flags single-day |return| moves above it as extreme.
	JumpThreshold float64 `json:"jump_threshold" yaml:"jump_threshold"`
}

// StoreConfig locates the analytical database.
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ExportConfig controls workbook export.
type ExportConfig struct {
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Index.BaseValue <= 0 {
		return fmt.Errorf("index.base_value must be positive")
	}
	if c.Index.TopN <= 0 {
		return fmt.Errorf("index.top_n must be positive")
	}
	if c.Metrics.RollingWindow < 2 {
		return fmt.Errorf("metrics.rolling_window must be at least 2")
	}
	if c.Metrics.SummaryWindowDays < 2 {
		return fmt.Errorf("metrics.summary_window_days must be at least 2")
	}
	if c.Metrics.AnnualizationDays <= 0 {
		return fmt.Errorf("metrics.annualization_days must be positive")
	}
	if c.Metrics.JumpThreshold <= 0 {
		return fmt.Errorf("metrics.jump_threshold must be positive")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Index: IndexConfig{
			BaseValue: 100.0,
			TopN:      100,
		},
		Metrics: MetricsConfig{
			RollingWindow:     7,
			SummaryWindowDays: 30,
			AnnualizationDays: 252,
			JumpThreshold:     0.5,
		},
		Store: StoreConfig{
			DBPath: "./eqx_index.db",
		},
		Export: ExportConfig{
			OutputPath: "./eqx_report.xlsx",
		},
	}
}
