// Package trial runs one keygen, encapsulate, decapsulate cycle under a
// simulated CPU load and checks that the shared secret round-trips.
package trial

import (
	"crypto/subtle"
	"fmt"

	"kyberbench/internal/crypto"
	"kyberbench/internal/load"
	"kyberbench/internal/models"
)

type Runner struct {
	adapter *crypto.Adapter
}

func NewRunner(k crypto.KEM) *Runner {
	return &Runner{adapter: crypto.NewAdapter(k)}
}

// Run executes a single trial. Capability errors come back wrapped but
// otherwise untouched; a secret mismatch yields ErrIntegrityFailure and no
// outcome.
func (r *Runner) Run(p models.TrialParams) (models.TrialOutcome, error) {
	if err := p.Validate(); err != nil {
		return models.TrialOutcome{}, err
	}

	kp, err := r.adapter.Keygen()
	if err != nil {
		return models.TrialOutcome{}, err
	}

	load.Simulate(p.SimulatedLoadMs)

	enc, err := r.adapter.Encapsulate(kp.Public)
	if err != nil {
		return models.TrialOutcome{}, err
	}
	dec, err := r.adapter.Decapsulate(enc.Ciphertext, kp.Private)
	if err != nil {
		return models.TrialOutcome{}, err
	}

	if len(enc.SharedSecret) == 0 || subtle.ConstantTimeCompare(enc.SharedSecret, dec.SharedSecret) != 1 {
		return models.TrialOutcome{}, ErrIntegrityFailure.WithDetails(
			fmt.Sprintf("%s: encapsulated %d bytes, decapsulated %d bytes differ",
				r.adapter.KEM().Scheme().Name(), len(enc.SharedSecret), len(dec.SharedSecret)))
	}

	return models.TrialOutcome{
		KeySize:        kp.KeyBytes,
		CiphertextSize: enc.CiphertextBytes,
		EncryptTimeMs:  enc.ElapsedMs,
		DecryptTimeMs:  dec.ElapsedMs,
		KeygenTimeMs:   kp.ElapsedMs,
		SecretsMatched: true,
	}, nil
}
