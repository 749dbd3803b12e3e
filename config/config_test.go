package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.Sampling.WarmupCount)
	assert.Equal(t, 20, cfg.Sampling.MeasuredCount)
	assert.Equal(t, 30, cfg.Load.DurationSec)
	assert.Equal(t, 50, cfg.Load.Connections)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, 10*time.Millisecond, cfg.InterRequestDelay())
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
results_dir = "out"

[target_a]
name = "rover"
url = "http://127.0.0.1:8080"

[sampling]
measured_count = 100

[load]
connections = 10
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "rover", cfg.TargetA.Name)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.TargetA.URL)
	assert.Equal(t, 100, cfg.Sampling.MeasuredCount)
	assert.Equal(t, 10, cfg.Load.Connections)
	assert.Equal(t, "out", cfg.ResultsDir)

	// Untouched fields keep defaults.
	assert.Equal(t, "app-b", cfg.TargetB.Name)
	assert.Equal(t, 50, cfg.Sampling.WarmupCount)
	assert.Equal(t, 30, cfg.Load.DurationSec)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := map[string]func(*Config){
		"missing target url": func(c *Config) { c.TargetB.URL = "" },
		"duplicate names":    func(c *Config) { c.TargetB.Name = c.TargetA.Name },
		"no scenarios":       func(c *Config) { c.Scenarios = nil },
		"zero measured":      func(c *Config) { c.Sampling.MeasuredCount = 0 },
		"negative warmup":    func(c *Config) { c.Sampling.WarmupCount = -1 },
		"zero load duration": func(c *Config) { c.Load.DurationSec = 0 },
		"zero connections":   func(c *Config) { c.Load.Connections = 0 },
		"empty results dir":  func(c *Config) { c.ResultsDir = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
