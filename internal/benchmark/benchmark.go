// Package benchmark times plain keygen, encapsulate, decapsulate cycles with
// no simulated load and no anomaly labels.
package benchmark

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"

	"kyberbench/internal/crypto"
	"kyberbench/internal/metrics"
	"kyberbench/internal/models"
	"kyberbench/internal/trial"
	"kyberbench/internal/utils"
)

type Runner struct {
	adapter *crypto.Adapter
	logger  *log.Logger
	metrics *metrics.Collector
}

func NewRunner(k crypto.KEM, logger *log.Logger) *Runner {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Runner{
		adapter: crypto.NewAdapter(k),
		logger:  logger,
		metrics: metrics.NewCollector(),
	}
}

func (r *Runner) Metrics() *metrics.Collector { return r.metrics }

// Run performs runs cycles and returns one record per cycle, numbered from 1.
// A shared secret mismatch stops the benchmark.
func (r *Runner) Run(ctx context.Context, runs int) (models.BenchmarkLog, error) {
	if runs < 1 {
		return nil, ErrInvalidRuns.WithDetails(fmt.Sprintf("runs %d must be positive", runs))
	}
	out := make(models.BenchmarkLog, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		r.logger.Printf("Running test %d of %d...", i+1, runs)

		rec, err := r.runOnce(i + 1)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		out = append(out, rec)
	}

	for _, s := range r.metrics.Summaries() {
		r.logger.Printf("  %-16s mean=%.4f min=%.4f max=%.4f p95=%.4f", s.Name, s.Mean, s.Min, s.Max, s.P95)
	}
	return out, nil
}

func (r *Runner) runOnce(id int) (models.BenchmarkRecord, error) {
	kp, err := r.adapter.Keygen()
	if err != nil {
		return models.BenchmarkRecord{}, err
	}
	enc, err := r.adapter.Encapsulate(kp.Public)
	if err != nil {
		return models.BenchmarkRecord{}, err
	}
	dec, err := r.adapter.Decapsulate(enc.Ciphertext, kp.Private)
	if err != nil {
		return models.BenchmarkRecord{}, err
	}
	if subtle.ConstantTimeCompare(enc.SharedSecret, dec.SharedSecret) != 1 {
		return models.BenchmarkRecord{}, trial.ErrIntegrityFailure.WithDetails(fmt.Sprintf("benchmark run %d", id))
	}

	r.metrics.Track("keygen_time_ms", kp.ElapsedMs)
	r.metrics.Track("encrypt_time_ms", enc.ElapsedMs)
	r.metrics.Track("decrypt_time_ms", dec.ElapsedMs)

	return models.BenchmarkRecord{
		RunID:               id,
		KeygenTimeMs:        kp.ElapsedMs,
		EncryptTimeMs:       enc.ElapsedMs,
		DecryptTimeMs:       dec.ElapsedMs,
		KeySizeBytes:        kp.KeyBytes,
		CiphertextSizeBytes: enc.CiphertextBytes,
	}, nil
}
