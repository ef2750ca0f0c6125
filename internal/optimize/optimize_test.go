package optimize_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"kyberbench/internal/crypto"
	"kyberbench/internal/optimize"

	"github.com/stretchr/testify/require"
)

// bowl peaks at multiplier 3, load 10ms.
type bowl struct {
	calls int
}

func (b *bowl) Evaluate(ind optimize.Individual) (float64, error) {
	b.calls++
	if err := ind.Validate(); err != nil {
		return 0, err
	}
	return -(math.Abs(float64(ind.PlaintextMultiplier-3)) + math.Abs(ind.CPULoadMs-10)), nil
}

func smallConfig() optimize.Config {
	cfg := optimize.DefaultConfig()
	cfg.Population = 20
	cfg.Generations = 15
	cfg.Seed = 1234
	return cfg
}

func TestOptimizerConverges(t *testing.T) {
	eval := &bowl{}
	opt, err := optimize.New(smallConfig(), eval, nil)
	require.NoError(t, err)

	res, err := opt.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Best.Validate())
	require.Len(t, res.Logbook, 16)
	require.Equal(t, 20, res.Logbook[0].Evaluations)
	require.Equal(t, 0, res.Logbook[0].Generation)

	// the hall of fame never loses ground
	require.GreaterOrEqual(t, res.BestFitness, res.Logbook[0].Max)
	for _, g := range res.Logbook {
		require.LessOrEqual(t, g.Max, res.BestFitness)
		require.LessOrEqual(t, g.Avg, g.Max)
	}
	require.Greater(t, res.BestFitness, -5.0)

	total := 0
	for _, g := range res.Logbook {
		total += g.Evaluations
	}
	require.Equal(t, eval.calls, total)
}

func TestOptimizerSeeded(t *testing.T) {
	run := func() *optimize.Result {
		opt, err := optimize.New(smallConfig(), &bowl{}, nil)
		require.NoError(t, err)
		res, err := opt.Run(context.Background())
		require.NoError(t, err)
		return res
	}
	require.Equal(t, run(), run())
}

func TestOptimizerRandomSeedReported(t *testing.T) {
	cfg := smallConfig()
	cfg.Seed = 0
	opt, err := optimize.New(cfg, &bowl{}, nil)
	require.NoError(t, err)
	require.NotZero(t, opt.Seed())

	seeded, err := optimize.New(smallConfig(), &bowl{}, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), seeded.Seed())
}

func TestOptimizerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opt, err := optimize.New(smallConfig(), &bowl{}, nil)
	require.NoError(t, err)
	_, err = opt.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfigValidate(t *testing.T) {
	bad := []func(c *optimize.Config){
		func(c *optimize.Config) { c.Population = 1 },
		func(c *optimize.Config) { c.Generations = -1 },
		func(c *optimize.Config) { c.CrossoverProb = 1.5 },
		func(c *optimize.Config) { c.TournamentSize = 0 },
		func(c *optimize.Config) { c.SigmaLoadMs = -1 },
		func(c *optimize.Config) { c.RunsPerEval = 0 },
	}
	for _, mutate := range bad {
		cfg := optimize.DefaultConfig()
		mutate(&cfg)
		_, err := optimize.New(cfg, &bowl{}, nil)
		require.True(t, errors.Is(err, optimize.ErrInvalidConfig))
	}
}

func TestIndividualClampAndValidate(t *testing.T) {
	tests := []struct {
		name string
		in   optimize.Individual
		want optimize.Individual
	}{
		{name: "in range", in: optimize.Individual{PlaintextMultiplier: 2, CPULoadMs: 5}, want: optimize.Individual{PlaintextMultiplier: 2, CPULoadMs: 5}},
		{name: "low", in: optimize.Individual{PlaintextMultiplier: -3, CPULoadMs: -1}, want: optimize.Individual{PlaintextMultiplier: 1, CPULoadMs: 0}},
		{name: "high", in: optimize.Individual{PlaintextMultiplier: 9, CPULoadMs: 80}, want: optimize.Individual{PlaintextMultiplier: 5, CPULoadMs: 50}},
		{name: "nan", in: optimize.Individual{PlaintextMultiplier: 3, CPULoadMs: math.NaN()}, want: optimize.Individual{PlaintextMultiplier: 3, CPULoadMs: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			require.Equal(t, tt.want, got)
			require.NoError(t, got.Validate())
		})
	}
	require.True(t, errors.Is(optimize.Individual{PlaintextMultiplier: 6}.Validate(), optimize.ErrInvalidIndividual))
	require.Equal(t, 300, optimize.Individual{PlaintextMultiplier: 3}.PlaintextLength())
}

func TestKEMEvaluator(t *testing.T) {
	e := optimize.NewKEMEvaluator(crypto.NewCirclKEM(crypto.KyberScheme), 2)
	f, err := e.Evaluate(optimize.Individual{PlaintextMultiplier: 1, CPULoadMs: 0})
	require.NoError(t, err)
	// 1088 byte ciphertext contributes -10.88; timing makes it strictly lower
	require.Less(t, f, -10.88)
	require.Greater(t, f, -100.0)

	_, err = e.Evaluate(optimize.Individual{PlaintextMultiplier: 0})
	require.True(t, errors.Is(err, optimize.ErrInvalidIndividual))
}

func TestLogbookRows(t *testing.T) {
	l := optimize.Logbook{{Generation: 0, Evaluations: 50, Avg: -11.5, Max: -10.9}}
	require.Equal(t, []string{"generation", "nevals", "avg", "max"}, l.Header())
	require.Equal(t, [][]string{{"0", "50", "-11.5", "-10.9"}}, l.Rows())
}
