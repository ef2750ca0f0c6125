package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"kyberbench/internal/metrics"
	"kyberbench/internal/storage"
)

func (a *App) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Summarize a stored dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.Config.Output.Dataset
			if len(args) == 1 {
				path = args[0]
			}
			ds, err := storage.LoadDataset(cmd.Context(), path, "trials")
			if err != nil {
				return err
			}

			c := metrics.NewCollector()
			for _, r := range ds.Records() {
				c.Track("encrypt_time", r.EncryptTimeMs)
				c.Track("decrypt_time", r.DecryptTimeMs)
				c.Track("cpu_load_duration_ms", r.CPULoadDurationMs)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Dataset:\t%s\n", path)
			fmt.Fprintf(w, "Trials:\t%d\n", ds.Len())
			if ds.Len() == 0 {
				return nil
			}
			fmt.Fprintf(w, "Anomalies:\t%d (%.2f%%)\n", ds.AnomalyCount(), 100*float64(ds.AnomalyCount())/float64(ds.Len()))
			fmt.Fprintln(w, "COLUMN\tMEAN\tMIN\tMAX\tP95")
			for _, s := range c.Summaries() {
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Name, s.Mean, s.Min, s.Max, s.P95)
			}
			return nil
		},
	}
}
