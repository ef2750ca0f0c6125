// Package optimize searches the (plaintext multiplier, CPU load) space with
// a simple generational genetic algorithm: tournament selection, blend
// crossover, Gaussian mutation and a single-slot hall of fame.
package optimize

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"kyberbench/internal/utils"
)

type Config struct {
	Population     int     `yaml:"population"`
	Generations    int     `yaml:"generations"`
	CrossoverProb  float64 `yaml:"crossover_prob"`
	MutationProb   float64 `yaml:"mutation_prob"`
	GeneMutateProb float64 `yaml:"gene_mutate_prob"`
	TournamentSize int     `yaml:"tournament_size"`
	BlendAlpha     float64 `yaml:"blend_alpha"`
	SigmaMult      float64 `yaml:"sigma_multiplier"`
	SigmaLoadMs    float64 `yaml:"sigma_load_ms"`
	RunsPerEval    int     `yaml:"runs_per_eval"`
	Seed           uint64  `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Population:     50,
		Generations:    50,
		CrossoverProb:  0.7,
		MutationProb:   0.2,
		GeneMutateProb: 0.1,
		TournamentSize: 3,
		BlendAlpha:     0.5,
		SigmaMult:      1,
		SigmaLoadMs:    10,
		RunsPerEval:    5,
	}
}

func (c Config) Validate() error {
	prob := func(v float64) bool { return v >= 0 && v <= 1 }
	switch {
	case c.Population < 2:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("population %d must be at least 2", c.Population))
	case c.Generations < 0:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("generations %d must not be negative", c.Generations))
	case !prob(c.CrossoverProb), !prob(c.MutationProb), !prob(c.GeneMutateProb):
		return ErrInvalidConfig.WithDetails("probabilities must lie in [0,1]")
	case c.TournamentSize < 1:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("tournament size %d must be positive", c.TournamentSize))
	case !(c.BlendAlpha >= 0):
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("blend alpha %v must not be negative", c.BlendAlpha))
	case !(c.SigmaMult >= 0) || !(c.SigmaLoadMs >= 0):
		return ErrInvalidConfig.WithDetails("mutation sigmas must not be negative")
	case c.RunsPerEval < 1:
		return ErrInvalidConfig.WithDetails(fmt.Sprintf("runs_per_eval %d must be positive", c.RunsPerEval))
	}
	return nil
}

// Result is the outcome of a search.
type Result struct {
	Best        Individual
	BestFitness float64
	Logbook     Logbook
}

type member struct {
	ind     Individual
	fitness float64
	valid   bool
}

type Optimizer struct {
	cfg    Config
	eval   Evaluator
	rng    *rand.Rand
	logger *log.Logger
	seed   uint64
}

func New(cfg Config, eval Evaluator, logger *log.Logger) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = utils.Discard()
	}
	seed := cfg.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	return &Optimizer{
		cfg:    cfg,
		eval:   eval,
		rng:    rand.New(rand.NewPCG(seed, 0x6f7074)),
		logger: logger,
		seed:   seed,
	}, nil
}

// Seed reports the rng seed, drawn at random when the config left it zero.
func (o *Optimizer) Seed() uint64 { return o.seed }

// Run evolves the population for cfg.Generations generations. Cancelling ctx
// stops between evaluations and returns the best individual seen so far.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	o.logger.Printf("Running GA: population %d, %d generations", o.cfg.Population, o.cfg.Generations)

	pop := make([]member, o.cfg.Population)
	for i := range pop {
		pop[i].ind = o.randomIndividual()
	}

	res := &Result{BestFitness: math.Inf(-1)}
	for gen := 0; gen <= o.cfg.Generations; gen++ {
		if gen > 0 {
			pop = o.vary(o.selectTournament(pop))
		}
		nevals, err := o.evaluate(ctx, pop)
		if err != nil {
			return res, err
		}
		for _, m := range pop {
			if m.fitness > res.BestFitness {
				res.Best, res.BestFitness = m.ind, m.fitness
			}
		}
		stats := generationStats(gen, nevals, pop)
		res.Logbook = append(res.Logbook, stats)
		o.logger.Printf("gen %3d  nevals %3d  avg %.4f  max %.4f", gen, nevals, stats.Avg, stats.Max)
	}

	o.logger.Printf("Done! Best setup: Length Multiplier=%d, CPU Load=%.2fms", res.Best.PlaintextMultiplier, res.Best.CPULoadMs)
	o.logger.Printf("Best fitness: %.4f", res.BestFitness)
	return res, nil
}

func (o *Optimizer) randomIndividual() Individual {
	return Individual{
		PlaintextMultiplier: MinMultiplier + o.rng.IntN(MaxMultiplier-MinMultiplier+1),
		CPULoadMs:           o.rng.Float64() * MaxCPULoadMs,
	}
}

// evaluate scores every member whose fitness is stale.
func (o *Optimizer) evaluate(ctx context.Context, pop []member) (int, error) {
	n := 0
	for i := range pop {
		if pop[i].valid {
			continue
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		f, err := o.eval.Evaluate(pop[i].ind)
		if err != nil {
			return n, fmt.Errorf("evaluate %+v: %w", pop[i].ind, err)
		}
		pop[i].fitness, pop[i].valid = f, true
		n++
	}
	return n, nil
}

// selectTournament picks len(pop) winners of cfg.TournamentSize-way
// tournaments, with replacement.
func (o *Optimizer) selectTournament(pop []member) []member {
	out := make([]member, len(pop))
	for i := range out {
		best := pop[o.rng.IntN(len(pop))]
		for k := 1; k < o.cfg.TournamentSize; k++ {
			if c := pop[o.rng.IntN(len(pop))]; c.fitness > best.fitness {
				best = c
			}
		}
		out[i] = best
	}
	return out
}

// vary applies crossover to consecutive pairs and then mutation, marking
// touched members for re-evaluation.
func (o *Optimizer) vary(off []member) []member {
	for i := 1; i < len(off); i += 2 {
		if o.rng.Float64() < o.cfg.CrossoverProb {
			off[i-1].ind, off[i].ind = o.blend(off[i-1].ind, off[i].ind)
			off[i-1].valid, off[i].valid = false, false
		}
	}
	for i := range off {
		if o.rng.Float64() < o.cfg.MutationProb {
			off[i].ind = o.mutate(off[i].ind)
			off[i].valid = false
		}
	}
	return off
}

func (o *Optimizer) blend(a, b Individual) (Individual, Individual) {
	mix := func(x, y float64) (float64, float64) {
		g := (1+2*o.cfg.BlendAlpha)*o.rng.Float64() - o.cfg.BlendAlpha
		return (1-g)*x + g*y, g*x + (1-g)*y
	}
	m1, m2 := mix(float64(a.PlaintextMultiplier), float64(b.PlaintextMultiplier))
	l1, l2 := mix(a.CPULoadMs, b.CPULoadMs)
	return fromGenes(m1, l1), fromGenes(m2, l2)
}

func (o *Optimizer) mutate(ind Individual) Individual {
	m, l := float64(ind.PlaintextMultiplier), ind.CPULoadMs
	if o.rng.Float64() < o.cfg.GeneMutateProb {
		m += o.rng.NormFloat64() * o.cfg.SigmaMult
	}
	if o.rng.Float64() < o.cfg.GeneMutateProb {
		l += o.rng.NormFloat64() * o.cfg.SigmaLoadMs
	}
	return fromGenes(m, l)
}

func generationStats(gen, nevals int, pop []member) GenerationStats {
	sum, best := 0.0, math.Inf(-1)
	for _, m := range pop {
		sum += m.fitness
		best = max(best, m.fitness)
	}
	return GenerationStats{
		Generation:  gen,
		Evaluations: nevals,
		Avg:         sum / float64(len(pop)),
		Max:         best,
	}
}
