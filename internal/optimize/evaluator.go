package optimize

import (
	"kyberbench/internal/crypto"
	"kyberbench/internal/load"
)

// sizePenalty weighs ciphertext bytes against milliseconds in the fitness.
const sizePenalty = 0.01

// Evaluator scores an individual; higher is better.
type Evaluator interface {
	Evaluate(ind Individual) (float64, error)
}

// KEMEvaluator measures an individual against the real KEM: for each run it
// applies the individual's CPU load, generates a fresh key pair and times
// one encapsulation.
type KEMEvaluator struct {
	adapter *crypto.Adapter
	runs    int
}

func NewKEMEvaluator(k crypto.KEM, runs int) *KEMEvaluator {
	if runs < 1 {
		runs = 1
	}
	return &KEMEvaluator{adapter: crypto.NewAdapter(k), runs: runs}
}

// Evaluate returns -(mean encapsulation ms + mean ciphertext bytes * 0.01).
func (e *KEMEvaluator) Evaluate(ind Individual) (float64, error) {
	if err := ind.Validate(); err != nil {
		return 0, err
	}
	var totalMs, totalBytes float64
	for r := 0; r < e.runs; r++ {
		load.Simulate(ind.CPULoadMs)
		kp, err := e.adapter.Keygen()
		if err != nil {
			return 0, err
		}
		enc, err := e.adapter.Encapsulate(kp.Public)
		if err != nil {
			return 0, err
		}
		totalMs += enc.ElapsedMs
		totalBytes += float64(enc.CiphertextBytes)
	}
	n := float64(e.runs)
	return -(totalMs/n + totalBytes/n*sizePenalty), nil
}
