package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kyberbench/internal/config"
	"kyberbench/internal/crypto"
	"kyberbench/internal/storage"
	"kyberbench/internal/utils"
)

type App struct {
	ConfigPath string
	Config     *config.Config
	Logger     *utils.Logger
	Runs       *storage.RunStore
	log        *log.Logger
}

func main() {
	app := &App{}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.rootCommand().ExecuteContext(ctx)
	if cerr := app.Shutdown(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kyberbench",
		Short:         "Kyber768 timing dataset and benchmark harness",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.ConfigPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		a.datasetCommand(),
		a.benchmarkCommand(),
		a.optimizeCommand(),
		a.runsCommand(),
		a.inspectCommand(),
	)
	return root
}

func (a *App) setup() error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	a.Logger = utils.NewLogger(os.Stderr)
	a.log = a.Logger.Tagged("Main")
	if cfg.Log.RemotePort != 0 {
		if err := a.Logger.Listen(cfg.Log.RemotePort); err != nil {
			a.log.Printf("Remote logging disabled: %v", err)
		} else {
			a.log.Printf("Streaming logs on port %d", a.Logger.Port)
		}
	}

	runs, err := storage.OpenRunStore(cfg.Output.RunsDB)
	if err != nil {
		a.log.Printf("Failed to open run registry: %v", err)
		return err
	}
	a.Runs = runs
	return nil
}

func (a *App) Shutdown() error {
	var err error
	if a.Runs != nil {
		err = a.Runs.Close()
		a.Runs = nil
	}
	if a.Logger != nil {
		_ = a.Logger.Close()
	}
	return err
}

// newKEM builds the configured scheme.
func (a *App) newKEM() (*crypto.CirclKEM, error) {
	sch, err := crypto.SchemeByName(a.Config.KEM.Scheme)
	if err != nil {
		return nil, err
	}
	return crypto.NewCirclKEM(sch), nil
}

// track records run in the registry around fn. The stored status follows
// fn's error; fn fills in the counters it knows.
func (a *App) track(run *storage.Run, fn func(*storage.Run) error) error {
	if err := a.Runs.Begin(run); err != nil {
		a.log.Printf("Failed to register %s run: %v", run.Kind, err)
		return err
	}
	a.log.Printf("Run %s started (%s)", run.ID, run.Kind)

	runErr := fn(run)
	if err := a.Runs.Finish(run.ID, func(r *storage.Run) {
		r.Seed = run.Seed
		r.Completed = run.Completed
		r.Anomalies = run.Anomalies
		r.Metrics = run.Metrics
		r.Status = statusOf(runErr)
		if runErr != nil {
			r.Error = runErr.Error()
		}
	}); err != nil {
		a.log.Printf("Failed to update run %s: %v", run.ID, err)
	}

	if runErr != nil {
		a.log.Printf("Run %s %s: %v", run.ID, statusOf(runErr), runErr)
	}
	return runErr
}
