// Package anomaly labels trials as anomalous and, for some of them, inflates
// the recorded encapsulation latency after the fact. The cryptographic
// operation itself is never touched.
package anomaly

import (
	"fmt"
	"math/rand/v2"

	"kyberbench/internal/models"
)

const (
	DefaultRate             = 0.02
	DefaultSpikeProbability = 0.5
	DefaultMinFactor        = 1.5
	DefaultMaxFactor        = 3.0
)

// Policy controls how often a trial is labeled anomalous and how hard its
// encapsulation time is spiked. Factors are drawn from [MinFactor, MaxFactor).
type Policy struct {
	Rate             float64 `yaml:"anomaly_rate"`
	SpikeProbability float64 `yaml:"spike_probability"`
	MinFactor        float64 `yaml:"spike_min_factor"`
	MaxFactor        float64 `yaml:"spike_max_factor"`
}

func DefaultPolicy() Policy {
	return Policy{
		Rate:             DefaultRate,
		SpikeProbability: DefaultSpikeProbability,
		MinFactor:        DefaultMinFactor,
		MaxFactor:        DefaultMaxFactor,
	}
}

func (p Policy) Validate() error {
	switch {
	case !(p.Rate >= 0 && p.Rate <= 1):
		return ErrInvalidPolicy.WithDetails(fmt.Sprintf("anomaly rate %v outside [0,1]", p.Rate))
	case !(p.SpikeProbability >= 0 && p.SpikeProbability <= 1):
		return ErrInvalidPolicy.WithDetails(fmt.Sprintf("spike probability %v outside [0,1]", p.SpikeProbability))
	case !(p.MinFactor >= 1):
		return ErrInvalidPolicy.WithDetails(fmt.Sprintf("spike min factor %v below 1", p.MinFactor))
	case !(p.MaxFactor >= p.MinFactor):
		return ErrInvalidPolicy.WithDetails(fmt.Sprintf("spike max factor %v below min factor %v", p.MaxFactor, p.MinFactor))
	}
	return nil
}

type Injector struct {
	policy Policy
}

func NewInjector(p Policy) (*Injector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Injector{policy: p}, nil
}

func (in *Injector) Policy() Policy { return in.policy }

// Inject draws the anomaly verdict for one outcome from rng. Only
// EncryptTimeMs may change, and only when the verdict is anomalous.
func (in *Injector) Inject(rng *rand.Rand, o models.TrialOutcome) (models.TrialOutcome, bool) {
	if rng.Float64() >= in.policy.Rate {
		return o, false
	}
	if rng.Float64() < in.policy.SpikeProbability {
		o.EncryptTimeMs *= in.factor(rng)
	}
	return o, true
}

func (in *Injector) factor(rng *rand.Rand) float64 {
	span := in.policy.MaxFactor - in.policy.MinFactor
	return in.policy.MinFactor + rng.Float64()*span
}
