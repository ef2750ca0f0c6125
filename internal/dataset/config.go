package dataset

import (
	"fmt"

	"kyberbench/internal/anomaly"
	"kyberbench/internal/load"
)

// Config parameterizes a dataset build. The yaml tags are shared with the
// config file's dataset section.
type Config struct {
	Trials           int            `yaml:"trials"`
	Policy           anomaly.Policy `yaml:",inline"`
	PlaintextMin     int            `yaml:"plaintext_min"`
	PlaintextMax     int            `yaml:"plaintext_max"`
	LoadMaxMs        float64        `yaml:"load_max_ms"`
	ProgressEvery    int            `yaml:"progress_every"`
	Workers          int            `yaml:"workers"`
	Seed             uint64         `yaml:"seed"`
	DeterministicKEM bool           `yaml:"deterministic_kem"`
}

func DefaultConfig() Config {
	return Config{
		Trials:        1000,
		Policy:        anomaly.DefaultPolicy(),
		PlaintextMin:  50,
		PlaintextMax:  500,
		LoadMaxMs:     50,
		ProgressEvery: 50,
		Workers:       1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Trials <= 0:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("trials %d must be positive", c.Trials))
	case c.PlaintextMin <= 0:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("plaintext_min %d must be positive", c.PlaintextMin))
	case c.PlaintextMax < c.PlaintextMin:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("plaintext_max %d below plaintext_min %d", c.PlaintextMax, c.PlaintextMin))
	case !(c.LoadMaxMs >= 0 && c.LoadMaxMs <= load.MaxDurationMs):
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("load_max_ms %v must be finite and within [0, %.0f]", c.LoadMaxMs, load.MaxDurationMs))
	case c.ProgressEvery < 0:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("progress_every %d must not be negative", c.ProgressEvery))
	case c.Workers < 1:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("workers %d must be at least 1", c.Workers))
	}
	return c.Policy.Validate()
}
