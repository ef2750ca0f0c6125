package storage

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"kyberbench/internal/models"
	"kyberbench/internal/utils"
)

// CSVSink writes a header row plus one row per record. The file is written
// to a temporary sibling and renamed into place, so readers only ever see a
// previous complete file or the new complete file. A ".csv.gz" path is
// gzip-compressed.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Write(ctx context.Context, t models.Table) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %w", ErrPersist, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", ErrPersist, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var (
		out io.Writer = tmp
		gz  *gzip.Writer
	)
	if utils.HasExtension(s.path, ".csv.gz") {
		gz = gzip.NewWriter(tmp)
		out = gz
	}

	w := csv.NewWriter(out)
	if err := w.Write(t.Header()); err != nil {
		return fmt.Errorf("%w: header: %w", ErrPersist, err)
	}
	for i, row := range t.Rows() {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", ErrPersist, err)
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrPersist, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrPersist, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("%w: gzip: %w", ErrPersist, err)
		}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod: %w", ErrPersist, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrPersist, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrPersist, err)
	}
	return nil
}

// ReadDataset loads a dataset written by CSVSink and checks the header
// matches models.Columns exactly.
func ReadDataset(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if utils.HasExtension(path, ".csv.gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		in = gz
	}

	rows, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || !slices.Equal(rows[0], models.Columns) {
		return nil, ErrBadHeader.WithDetails(path)
	}

	ds := models.NewDataset(len(rows) - 1)
	for i, row := range rows[1:] {
		rec, err := models.ParseTrialRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ds.Append(rec)
	}
	return ds, nil
}
