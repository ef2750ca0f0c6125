package main

import (
	"github.com/spf13/cobra"

	"kyberbench/internal/optimize"
	"kyberbench/internal/storage"
)

func (a *App) optimizeCommand() *cobra.Command {
	var (
		generations int
		population  int
		out         string
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search plaintext length and CPU load for the cheapest encapsulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.Config.Optimize
			if cmd.Flags().Changed("generations") {
				cfg.Generations = generations
			}
			if cmd.Flags().Changed("population") {
				cfg.Population = population
			}
			path := a.Config.Output.Optimize
			if cmd.Flags().Changed("out") {
				path = out
			}
			return a.runOptimize(cmd, cfg, path)
		},
	}
	cmd.Flags().IntVarP(&generations, "generations", "g", 0, "number of generations")
	cmd.Flags().IntVarP(&population, "population", "p", 0, "population size")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (.csv, .csv.gz, .db)")
	return cmd
}

func (a *App) runOptimize(cmd *cobra.Command, cfg optimize.Config, path string) error {
	sink, err := storage.NewSink(path, "generations")
	if err != nil {
		return err
	}
	k, err := a.newKEM()
	if err != nil {
		return err
	}
	logger := a.Logger.Tagged("Optimize")
	opt, err := optimize.New(cfg, optimize.NewKEMEvaluator(k, cfg.RunsPerEval), logger)
	if err != nil {
		return err
	}

	run := &storage.Run{Kind: "optimize", Seed: opt.Seed(), Requested: cfg.Generations, Output: sink.Path()}
	return a.track(run, func(run *storage.Run) error {
		res, err := opt.Run(cmd.Context())
		if res != nil && len(res.Logbook) > 0 {
			run.Completed = len(res.Logbook) - 1
		}
		if err != nil {
			return err
		}
		if err := sink.Write(cmd.Context(), res.Logbook); err != nil {
			return err
		}
		logger.Printf("Results saved to %s", sink.Path())
		return nil
	})
}
