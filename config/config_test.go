package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100.0, cfg.Index.BaseValue)
	assert.Equal(t, 100, cfg.Index.TopN)
	assert.Equal(t, 7, cfg.Metrics.RollingWindow)
	assert.Equal(t, 30, cfg.Metrics.SummaryWindowDays)
	assert.Equal(t, 252, cfg.Metrics.AnnualizationDays)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero base value", func(c *Config) { c.Index.BaseValue = 0 }},
		{"negative top n", func(c *Config) { c.Index.TopN = -1 }},
		{"window under two", func(c *Config) { c.Metrics.RollingWindow = 1 }},
		{"summary window under two", func(c *Config) { c.Metrics.SummaryWindowDays = 1 }},
		{"zero annualization", func(c *Config) { c.Metrics.AnnualizationDays = 0 }},
		{"zero jump threshold", func(c *Config) { c.Metrics.JumpThreshold = 0 }},
		{"empty db path", func(c *Config) { c.Store.DBPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqx.yaml")

	cfg := Default()
	cfg.Index.TopN = 50
	cfg.Metrics.JumpThreshold = 0.25
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveLoadRoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqx.json")

	cfg := Default()
	cfg.Store.DBPath = "/tmp/alt.db"
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/alt.db", got.Store.DBPath)
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  top_n: 25\n"), 0o644))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Index.TopN)
	assert.Equal(t, 100.0, got.Index.BaseValue)
	assert.Equal(t, 7, got.Metrics.RollingWindow)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  top_n: -5\n"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
