package main

import (
	"github.com/spf13/cobra"

	"kyberbench/internal/benchmark"
	"kyberbench/internal/storage"
)

func (a *App) benchmarkCommand() *cobra.Command {
	var (
		runs int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Time plain keygen/encapsulate/decapsulate cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("runs") {
				runs = a.Config.Benchmark.Runs
			}
			if !cmd.Flags().Changed("out") {
				out = a.Config.Output.Benchmark
			}
			return a.runBenchmark(cmd, runs, out)
		},
	}
	cmd.Flags().IntVarP(&runs, "runs", "n", 0, "number of cycles")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (.csv, .csv.gz, .db)")
	return cmd
}

func (a *App) runBenchmark(cmd *cobra.Command, runs int, path string) error {
	if runs < 1 {
		return benchmark.ErrInvalidRuns
	}
	sink, err := storage.NewSink(path, "benchmark_runs")
	if err != nil {
		return err
	}
	k, err := a.newKEM()
	if err != nil {
		return err
	}
	logger := a.Logger.Tagged("Benchmark")
	r := benchmark.NewRunner(k, logger)

	run := &storage.Run{Kind: "benchmark", Requested: runs, Output: sink.Path()}
	return a.track(run, func(run *storage.Run) error {
		records, err := r.Run(cmd.Context(), runs)
		run.Completed = len(records)
		run.Metrics = r.Metrics().Compute()
		if err != nil {
			return err
		}
		if err := sink.Write(cmd.Context(), records); err != nil {
			return err
		}
		logger.Printf("Results saved to %s", sink.Path())
		return nil
	})
}
