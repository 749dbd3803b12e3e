// Package config holds the immutable per-run configuration. A Config is
// constructed once (defaults, optionally overlaid by a TOML file, then by
// CLI flags) and passed to every component; nothing reads ambient state.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Target is one endpoint under comparison.
type Target struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Scenario is one sampled path.
type Scenario struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Sampling controls the warmup+measure protocol.
type Sampling struct {
	WarmupCount         int `toml:"warmup_count"`
	MeasuredCount       int `toml:"measured_count"`
	InterRequestDelayMs int `toml:"inter_request_delay_ms"`
	RequestTimeoutSec   int `toml:"request_timeout_sec"`
}

// Load controls the load-test flood.
type Load struct {
	DurationSec int `toml:"duration_sec"`
	Connections int `toml:"connections"`
	Pipelining  int `toml:"pipelining"`
	TimeoutSec  int `toml:"timeout_sec"`
}

// BuildTarget describes how one target is built and where its artifacts
// land.
type BuildTarget struct {
	Command     string   `toml:"command"`
	Workdir     string   `toml:"workdir"`
	ArtifactDir string   `toml:"artifact_dir"`
	Extensions  []string `toml:"extensions"`
}

// Build holds both build targets and the shared timeout.
type Build struct {
	A          BuildTarget `toml:"a"`
	B          BuildTarget `toml:"b"`
	TimeoutSec int         `toml:"timeout_sec"`
}

// Config is the full configuration surface.
type Config struct {
	TargetA Target `toml:"target_a"`
	TargetB Target `toml:"target_b"`

	Scenarios []Scenario `toml:"scenarios"`
	Sampling  Sampling   `toml:"sampling"`
	Load      Load       `toml:"load"`
	Build     Build      `toml:"build"`

	ResultsDir string `toml:"results_dir"`
	// Pause before measuring and between the two targets' load tests,
	// letting both systems settle.
	SettleDelaySec int `toml:"settle_delay_sec"`
}

// Default returns the reference-run configuration.
func Default() Config {
	return Config{
		TargetA:   Target{Name: "app-a", URL: "http://localhost:3000"},
		TargetB:   Target{Name: "app-b", URL: "http://localhost:3001"},
		Scenarios: []Scenario{{Name: "Homepage", Path: "/"}},
		Sampling: Sampling{
			WarmupCount:         50,
			MeasuredCount:       20,
			InterRequestDelayMs: 10,
			RequestTimeoutSec:   10,
		},
		Load: Load{
			DurationSec: 30,
			Connections: 50,
			Pipelining:  1,
			TimeoutSec:  10,
		},
		Build: Build{
			A: BuildTarget{
				Command:     "npm run build",
				Workdir:     ".",
				ArtifactDir: "dist/assets",
				Extensions:  []string{".js", ".css"},
			},
			B: BuildTarget{
				Command:     "npm run build",
				Workdir:     ".",
				ArtifactDir: ".next/static/chunks",
				Extensions:  []string{".js", ".css"},
			},
			TimeoutSec: 600,
		},
		ResultsDir:     "results",
		SettleDelaySec: 3,
	}
}

// LoadFile returns the defaults overlaid with the TOML file at path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configurations no mode could run with.
func (c Config) Validate() error {
	if c.TargetA.URL == "" || c.TargetB.URL == "" {
		return fmt.Errorf("both target URLs must be set")
	}

	if c.TargetA.Name == c.TargetB.Name {
		return fmt.Errorf("target names must differ (both %q)", c.TargetA.Name)
	}

	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}

	if c.Sampling.MeasuredCount < 1 {
		return fmt.Errorf("measured_count must be at least 1, got %d",
			c.Sampling.MeasuredCount)
	}

	if c.Sampling.WarmupCount < 0 {
		return fmt.Errorf("warmup_count must not be negative, got %d",
			c.Sampling.WarmupCount)
	}

	if c.Load.DurationSec < 1 {
		return fmt.Errorf("load duration_sec must be at least 1, got %d",
			c.Load.DurationSec)
	}

	if c.Load.Connections < 1 {
		return fmt.Errorf("load connections must be at least 1, got %d",
			c.Load.Connections)
	}

	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must be set")
	}

	return nil
}

// InterRequestDelay returns the sampling delay as a Duration.
func (c Config) InterRequestDelay() time.Duration {
	return time.Duration(c.Sampling.InterRequestDelayMs) * time.Millisecond
}

// SettleDelay returns the settle pause as a Duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelaySec) * time.Second
}
