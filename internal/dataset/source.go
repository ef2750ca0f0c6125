package dataset

import (
	"math/rand/v2"

	"kyberbench/internal/models"
)

// RandomSource supplies every random draw for one trial. It is derived from
// the run seed and the trial index, so a trial's parameters and anomaly
// verdict do not depend on which worker ran it or in what order.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(seed uint64, trial int) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, uint64(trial)))}
}

// Params samples a plaintext length uniformly from [minLen, maxLen] and a
// load duration uniformly from [0, maxLoadMs).
func (s *RandomSource) Params(minLen, maxLen int, maxLoadMs float64) models.TrialParams {
	return models.TrialParams{
		PlaintextLength: minLen + s.rng.IntN(maxLen-minLen+1),
		SimulatedLoadMs: s.rng.Float64() * maxLoadMs,
	}
}

func (s *RandomSource) Rand() *rand.Rand { return s.rng }
