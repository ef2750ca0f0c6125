// Package dataset drives many trials, labels them through the anomaly
// injector and assembles the ordered, write-once dataset.
package dataset

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"kyberbench/internal/anomaly"
	"kyberbench/internal/crypto"
	"kyberbench/internal/metrics"
	"kyberbench/internal/models"
	"kyberbench/internal/storage"
	"kyberbench/internal/trial"
	"kyberbench/internal/utils"
)

type Builder struct {
	cfg      Config
	kem      crypto.KEM
	injector *anomaly.Injector
	logger   *log.Logger
	metrics  *metrics.Collector
	seed     uint64
}

// NewBuilder validates cfg and fixes the run seed. A zero cfg.Seed draws a
// random one; Seed reports it either way. DeterministicKEM requires k to be
// a *crypto.CirclKEM.
func NewBuilder(cfg Config, k crypto.KEM, logger *log.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := k.(*crypto.CirclKEM); cfg.DeterministicKEM && !ok {
		return nil, ErrInvalidConfig.WithDetails("deterministic_kem needs a circl KEM")
	}
	injector, err := anomaly.NewInjector(cfg.Policy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = utils.Discard()
	}

	seed := cfg.Seed
	for seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("draw seed: %w", err)
		}
		seed = binary.LittleEndian.Uint64(b[:])
	}

	return &Builder{
		cfg:      cfg,
		kem:      k,
		injector: injector,
		logger:   logger,
		metrics:  metrics.NewCollector(),
		seed:     seed,
	}, nil
}

func (b *Builder) Seed() uint64 { return b.seed }

func (b *Builder) Metrics() *metrics.Collector { return b.metrics }

// Build runs cfg.Trials trials. Any trial failure aborts the whole build and
// returns a *TrialError with no dataset. Cancelling ctx stops dispatch after
// the trials in flight; the completed prefix comes back with ErrCancelled.
// Metrics are reset on every call. Build must not run concurrently with
// itself on the same Builder.
func (b *Builder) Build(ctx context.Context) (*models.Dataset, error) {
	b.metrics = metrics.NewCollector()
	b.logger.Printf("Building %s dataset with %d trials (seed %d, %d workers)...",
		b.kem.Scheme().Name(), b.cfg.Trials, b.seed, b.cfg.Workers)

	var (
		ds  *models.Dataset
		err error
	)
	if b.cfg.Workers == 1 {
		ds, err = b.buildSequential(ctx)
	} else {
		ds, err = b.buildParallel(ctx)
	}
	if err != nil {
		b.logger.Printf("Build stopped: %v", err)
		return ds, err
	}

	b.logSummary(ds)
	return ds, nil
}

// BuildTo builds and then persists through sink. Nothing is written unless
// every trial succeeded.
func (b *Builder) BuildTo(ctx context.Context, sink storage.Sink) (*models.Dataset, error) {
	ds, err := b.Build(ctx)
	if err != nil {
		return ds, err
	}
	if err := sink.Write(ctx, ds); err != nil {
		return ds, err
	}
	b.logger.Printf("Done! Dataset saved to %s", sink.Path())
	return ds, nil
}

func (b *Builder) buildSequential(ctx context.Context) (*models.Dataset, error) {
	ds := models.NewDataset(b.cfg.Trials)
	anomalies := 0
	for i := 0; i < b.cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return ds, b.cancelled(ds.Len(), err)
		}
		rec, err := b.runOne(i)
		if err != nil {
			return nil, &TrialError{Index: i, Err: err}
		}
		ds.Append(rec)
		if rec.IsAnomaly {
			anomalies++
		}
		b.progress(ds.Len(), anomalies)
	}
	return ds, nil
}

type trialResult struct {
	index  int
	record models.TrialRecord
	err    error
}

// buildParallel fans trials out to cfg.Workers goroutines. The calling
// goroutine is the only writer of the record slice.
func (b *Builder) buildParallel(ctx context.Context) (*models.Dataset, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := b.cfg.Trials
	jobs := make(chan int)
	results := make(chan trialResult, b.cfg.Workers)

	var wg sync.WaitGroup
	for w := 0; w < b.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, err := b.runOne(i)
				results <- trialResult{index: i, record: rec, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-runCtx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]models.TrialRecord, n)
	done := make([]bool, n)
	var (
		failed    *TrialError
		completed int
		anomalies int
	)
	for res := range results {
		if res.err != nil {
			if failed == nil || res.index < failed.Index {
				failed = &TrialError{Index: res.index, Err: res.err}
			}
			cancel()
			continue
		}
		records[res.index] = res.record
		done[res.index] = true
		completed++
		if res.record.IsAnomaly {
			anomalies++
		}
		b.progress(completed, anomalies)
	}
	if failed != nil {
		return nil, failed
	}

	ds := models.NewDataset(n)
	for i := 0; i < n && done[i]; i++ {
		ds.Append(records[i])
	}
	if ds.Len() < n {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return ds, b.cancelled(ds.Len(), err)
	}
	return ds, nil
}

// runOne executes trial i end to end: sample, run, inject.
func (b *Builder) runOne(i int) (models.TrialRecord, error) {
	src := NewRandomSource(b.seed, i)
	params := src.Params(b.cfg.PlaintextMin, b.cfg.PlaintextMax, b.cfg.LoadMaxMs)

	out, err := trial.NewRunner(b.kemFor(i)).Run(params)
	if err != nil {
		return models.TrialRecord{}, err
	}
	b.metrics.Track("keygen_time_ms", out.KeygenTimeMs)
	b.metrics.Track("encrypt_time_ms", out.EncryptTimeMs)
	b.metrics.Track("decrypt_time_ms", out.DecryptTimeMs)
	b.metrics.Inc("trials")

	out, anomalous := b.injector.Inject(src.Rand(), out)
	if anomalous {
		b.metrics.Inc("anomalies")
	}
	return models.NewTrialRecord(params, out, anomalous), nil
}

func (b *Builder) kemFor(i int) crypto.KEM {
	if c, ok := b.kem.(*crypto.CirclKEM); ok && b.cfg.DeterministicKEM {
		return c.WithSeedStream(crypto.NewSeedStream(b.seed, i))
	}
	return b.kem
}

func (b *Builder) progress(completed, anomalies int) {
	if b.cfg.ProgressEvery > 0 && completed%b.cfg.ProgressEvery == 0 {
		b.logger.Printf("  At trial %d/%d (%d anomalies)...", completed, b.cfg.Trials, anomalies)
	}
}

func (b *Builder) cancelled(completed int, cause error) error {
	return fmt.Errorf("%w: %w",
		ErrCancelled.WithDetails(fmt.Sprintf("stopped after %d of %d trials", completed, b.cfg.Trials)), cause)
}

func (b *Builder) logSummary(ds *models.Dataset) {
	b.logger.Printf("Built %d trials, %d anomalies (rate %.4f)",
		ds.Len(), ds.AnomalyCount(), float64(ds.AnomalyCount())/float64(ds.Len()))
	for _, s := range b.metrics.Summaries() {
		b.logger.Printf("  %-16s mean=%.4f min=%.4f max=%.4f p95=%.4f", s.Name, s.Mean, s.Min, s.Max, s.P95)
	}
}
