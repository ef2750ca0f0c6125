package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"kyberbench/internal/dataset"
	"kyberbench/internal/storage"

	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
dataset:
  trials: 6
  seed: 5
  progress_every: 0
benchmark:
  runs: 2
optimize:
  population: 4
  generations: 1
  runs_per_eval: 1
  seed: 9
output:
  dataset: %[1]s/data.csv
  benchmark: %[1]s/log.csv
  optimize: %[1]s/opt.csv
  runs_db: %[1]s/runs.db
`, dir)
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := &App{}
	root := app.rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, app.Shutdown())
	return out.String(), err
}

func TestDatasetCommandRecordsRun(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	_, err := execute(t, "dataset", "--config", cfg, "--trials", "4", "--workers", "2")
	require.NoError(t, err)

	ds, err := storage.ReadDataset(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())

	store, err := storage.OpenRunStore(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	runs, err := store.List()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.Len(t, runs, 1)
	require.Equal(t, "dataset", runs[0].Kind)
	require.Equal(t, storage.StatusCompleted, runs[0].Status)
	require.Equal(t, uint64(5), runs[0].Seed)
	require.Equal(t, 4, runs[0].Requested)
	require.Equal(t, 4, runs[0].Completed)
	require.Equal(t, 4.0, runs[0].Metrics["trials"])
	require.Contains(t, runs[0].Metrics, "encrypt_time_ms_mean")

	out, err := execute(t, "runs", "--config", cfg, runs[0].ID)
	require.NoError(t, err)
	require.Contains(t, out, "encrypt_time_ms_p95")

	out, err = execute(t, "inspect", "--config", cfg)
	require.NoError(t, err)
	require.Regexp(t, `Trials:\s+4`, out)
	require.Contains(t, out, "encrypt_time")
}

func TestBenchmarkAndOptimizeCommands(t *testing.T) {
	cfg, dir := writeTestConfig(t)

	_, err := execute(t, "benchmark", "--config", cfg)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "log.csv"))

	_, err = execute(t, "optimize", "--config", cfg, "--out", filepath.Join(dir, "opt.db"))
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "opt.db"))

	out, err := execute(t, "runs", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "benchmark")
	require.Contains(t, out, "optimize")
	require.Contains(t, out, "completed")
}

func TestUnsupportedOutputIsRejected(t *testing.T) {
	cfg, dir := writeTestConfig(t)
	_, err := execute(t, "dataset", "--config", cfg, "--out", filepath.Join(dir, "data.parquet"))
	require.ErrorIs(t, err, storage.ErrUnsupportedFormat)
}

func TestRunsUnknownID(t *testing.T) {
	cfg, _ := writeTestConfig(t)
	_, err := execute(t, "runs", "--config", cfg, "deadbeef")
	require.ErrorIs(t, err, storage.ErrRunNotFound)
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, storage.StatusCompleted, statusOf(nil))
	require.Equal(t, storage.StatusCancelled, statusOf(dataset.ErrCancelled.WithDetails("3/10")))
	require.Equal(t, storage.StatusCancelled, statusOf(fmt.Errorf("run 2: %w", context.Canceled)))
	require.Equal(t, storage.StatusFailed, statusOf(errors.New("boom")))
}

func TestInspectSQLiteDataset(t *testing.T) {
	cfg, dir := writeTestConfig(t)
	db := filepath.Join(dir, "data.db")

	_, err := execute(t, "dataset", "--config", cfg, "--trials", "3", "--out", db)
	require.NoError(t, err)

	out, err := execute(t, "inspect", "--config", cfg, db)
	require.NoError(t, err)
	require.Regexp(t, `Trials:\s+3`, out)
	require.Contains(t, out, "cpu_load_duration_ms")
}
