// Package storage persists harness output: tabular sinks for datasets and
// logs, and a run registry recording what was produced and how.
package storage

import (
	"context"

	"kyberbench/internal/models"
	"kyberbench/internal/utils"
)

// Sink writes a whole table to its destination, replacing whatever was
// there. A failed Write never leaves something that looks complete.
type Sink interface {
	Write(ctx context.Context, t models.Table) error
	Path() string
}

// NewSink picks a sink from the file extension. table names the SQLite
// table and is ignored by file formats that hold a single table. File
// formats replace the whole file; SQLite replaces only the named table.
func NewSink(path string, table string) (Sink, error) {
	switch {
	case utils.HasExtension(path, ".csv", ".csv.gz"):
		return NewCSVSink(path), nil
	case utils.HasExtension(path, ".db", ".sqlite", ".sqlite3"):
		return NewSQLiteSink(path, table), nil
	default:
		return nil, ErrUnsupportedFormat.WithDetails(path)
	}
}

// LoadDataset reads a dataset back from any path NewSink accepts.
func LoadDataset(ctx context.Context, path, table string) (*models.Dataset, error) {
	switch {
	case utils.HasExtension(path, ".csv", ".csv.gz"):
		return ReadDataset(path)
	case utils.HasExtension(path, ".db", ".sqlite", ".sqlite3"):
		if table == "" {
			table = "trials"
		}
		return ReadSQLiteDataset(ctx, path, table)
	default:
		return nil, ErrUnsupportedFormat.WithDetails(path)
	}
}
