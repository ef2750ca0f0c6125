package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"kyberbench/internal/models"
)

// SQLiteSink stores a table in a SQLite file. The previous contents of the
// table are replaced inside a single transaction, so a failed write leaves
// the old table untouched. Other tables in the file are kept, so one
// database can hold a dataset, a benchmark log and a GA logbook side by side.
type SQLiteSink struct {
	path  string
	table string
}

func NewSQLiteSink(path, table string) *SQLiteSink {
	if table == "" {
		table = "trials"
	}
	return &SQLiteSink{path: path, table: table}
}

func (s *SQLiteSink) Path() string { return s.path }

// openSQLite opens (or creates) a sqlite DB file with the pragmas the
// harness relies on.
func openSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set synchronous: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	return db, nil
}

func (s *SQLiteSink) Write(ctx context.Context, t models.Table) error {
	db, err := openSQLite(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	defer db.Close()

	header := t.Header()
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " NUMERIC NOT NULL"
		marks[i] = "?"
	}
	table := quoteIdent(s.table)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersist, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return fmt.Errorf("%w: drop table: %w", ErrPersist, err)
	}
	create := fmt.Sprintf(`CREATE TABLE %s (
  row_id INTEGER PRIMARY KEY AUTOINCREMENT,
  %s
)`, table, strings.Join(cols, ",\n  "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%w: create table: %w", ErrPersist, err)
	}

	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = quoteIdent(h)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", ErrPersist, err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for i, row := range t.Rows() {
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert row %d: %w", ErrPersist, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersist, err)
	}
	// fold the WAL back so the .db file alone holds the new table
	if _, err := db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		return fmt.Errorf("%w: checkpoint: %w", ErrPersist, err)
	}
	return nil
}

// ReadSQLiteDataset loads a dataset table written by SQLiteSink in row order.
func ReadSQLiteDataset(ctx context.Context, path, table string) (*models.Dataset, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	quoted := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		quoted[i] = quoteIdent(c)
	}
	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY row_id ASC`, strings.Join(quoted, ", "), quoteIdent(table))
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select dataset: %w", err)
	}
	defer rows.Close()

	ds := models.NewDataset(0)
	for rows.Next() {
		var (
			r         models.TrialRecord
			isAnomaly int
		)
		if err := rows.Scan(&r.PlaintextLength, &r.KeySize, &r.CiphertextSize,
			&r.EncryptTimeMs, &r.DecryptTimeMs, &r.CPULoadDurationMs, &isAnomaly); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.IsAnomaly = isAnomaly == 1
		ds.Append(r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
