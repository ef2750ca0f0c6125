package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kyberbench/internal/utils"
)

func (a *App) runsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs [id]",
		Short: "List recorded runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if len(args) == 1 {
				run, err := a.Runs.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "ID:\t%s\n", run.ID)
				fmt.Fprintf(w, "Kind:\t%s\n", run.Kind)
				fmt.Fprintf(w, "Status:\t%s\n", run.Status)
				fmt.Fprintf(w, "Seed:\t%d\n", run.Seed)
				fmt.Fprintf(w, "Progress:\t%d/%d\n", run.Completed, run.Requested)
				fmt.Fprintf(w, "Anomalies:\t%d\n", run.Anomalies)
				fmt.Fprintf(w, "Output:\t%s\n", run.Output)
				fmt.Fprintf(w, "Started:\t%s\n", run.Started.Format(time.RFC3339))
				if !run.Finished.IsZero() {
					fmt.Fprintf(w, "Finished:\t%s\n", run.Finished.Format(time.RFC3339))
				}
				if run.Error != "" {
					fmt.Fprintf(w, "Error:\t%s\n", run.Error)
				}
				names := make([]string, 0, len(run.Metrics))
				for name := range run.Metrics {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(w, "  %s:\t%.4f\n", name, run.Metrics[name])
				}
				return nil
			}

			runs, err := a.Runs.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(w, "No runs recorded yet.")
				return nil
			}
			now := time.Now()
			fmt.Fprintln(w, "ID\tKIND\tSTATUS\tDONE\tANOMALIES\tSTARTED\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%s\t%s\n",
					r.ID, r.Kind, r.Status, r.Completed, r.Requested, r.Anomalies,
					utils.FormatPrettyTime(r.Started, now), r.Output)
			}
			return nil
		},
	}
}
