// Package config loads the harness configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kyberbench/internal/crypto"
	"kyberbench/internal/dataset"
	"kyberbench/internal/optimize"
)

type KEMConfig struct {
	Scheme string `yaml:"scheme"`
}

type BenchmarkConfig struct {
	Runs int `yaml:"runs"`
}

type OutputConfig struct {
	Dataset   string `yaml:"dataset"`
	Benchmark string `yaml:"benchmark"`
	Optimize  string `yaml:"optimize"`
	RunsDB    string `yaml:"runs_db"`
}

type LogConfig struct {
	// RemotePort, when non-zero, streams log lines to TCP clients.
	RemotePort int `yaml:"remote_port"`
}

type Config struct {
	KEM       KEMConfig       `yaml:"kem"`
	Dataset   dataset.Config  `yaml:"dataset"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Optimize  optimize.Config `yaml:"optimize"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

func Default() *Config {
	return &Config{
		KEM:       KEMConfig{Scheme: crypto.DefaultScheme},
		Dataset:   dataset.DefaultConfig(),
		Benchmark: BenchmarkConfig{Runs: 100},
		Optimize:  optimize.DefaultConfig(),
		Output: OutputConfig{
			Dataset:   "results/kyber_dataset.csv",
			Benchmark: "results/log.csv",
			Optimize:  "results/optimization_results.csv",
			RunsDB:    "results/runs.db",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidConfig.WithDetails(fmt.Sprintf("failed to read config file: %v", err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrInvalidConfig.WithDetails(fmt.Sprintf("failed to parse config YAML: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := crypto.SchemeByName(c.KEM.Scheme); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("%w: dataset: %w", ErrInvalidConfig, err)
	}
	if err := c.Optimize.Validate(); err != nil {
		return fmt.Errorf("%w: optimize: %w", ErrInvalidConfig, err)
	}
	if c.Benchmark.Runs < 1 {
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("benchmark runs %d must be positive", c.Benchmark.Runs))
	}
	if c.Log.RemotePort < 0 || c.Log.RemotePort > 65535 {
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("remote_port %d out of range", c.Log.RemotePort))
	}
	return errors.Join(
		requirePath("output.dataset", c.Output.Dataset),
		requirePath("output.benchmark", c.Output.Benchmark),
		requirePath("output.optimize", c.Output.Optimize),
		requirePath("output.runs_db", c.Output.RunsDB),
	)
}

func requirePath(key, v string) error {
	if v == "" {
		return ErrInvalidConfig.WithDetails(key + " must be set")
	}
	return nil
}
