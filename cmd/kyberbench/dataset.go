package main

import (
	"github.com/spf13/cobra"

	"kyberbench/internal/dataset"
	"kyberbench/internal/storage"
)

func (a *App) datasetCommand() *cobra.Command {
	var (
		trials  int
		seed    uint64
		out     string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate a labeled timing dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.Config.Dataset
			if cmd.Flags().Changed("trials") {
				cfg.Trials = trials
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			path := a.Config.Output.Dataset
			if cmd.Flags().Changed("out") {
				path = out
			}
			return a.runDataset(cmd, cfg, path)
		},
	}
	cmd.Flags().IntVarP(&trials, "trials", "n", 0, "number of trials")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "run seed, 0 draws a random one")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (.csv, .csv.gz, .db)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel trial workers")
	return cmd
}

func (a *App) runDataset(cmd *cobra.Command, cfg dataset.Config, path string) error {
	sink, err := storage.NewSink(path, "trials")
	if err != nil {
		return err
	}
	k, err := a.newKEM()
	if err != nil {
		return err
	}
	b, err := dataset.NewBuilder(cfg, k, a.Logger.Tagged("Dataset"))
	if err != nil {
		return err
	}

	run := &storage.Run{
		Kind:      "dataset",
		Seed:      b.Seed(),
		Requested: cfg.Trials,
		Output:    sink.Path(),
	}
	return a.track(run, func(run *storage.Run) error {
		ds, err := b.BuildTo(cmd.Context(), sink)
		run.Metrics = b.Metrics().Compute()
		if ds != nil {
			run.Completed = ds.Len()
			run.Anomalies = ds.AnomalyCount()
		}
		return err
	})
}
