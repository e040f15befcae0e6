// Package sqlite implements the snapshot history on SQLite via database/sql.
// Inserts are batched inside one transaction; SQLite has no bulk-load API,
// but a single transaction keeps a daily snapshot load well under a second.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // driver

	"lyriq/internal/records"
	"lyriq/internal/storage"
)

// DefaultTable is used when Config.Table is empty.
const DefaultTable = "lyriq_snapshots"

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

// New opens the database, verifies connectivity, and ensures the history
// table exists.
func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	r := &Repository{db: db, table: table}
	if err := r.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTable(ctx context.Context) error {
	cols := make([]string, len(storage.Columns))
	for i, c := range storage.Columns {
		typ := "TEXT"
		switch c {
		case "year", "price", "payment", "milege":
			typ = "INTEGER"
		}
		cols[i] = c + " " + typ
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", r.table, strings.Join(cols, ", "))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

// InsertSnapshot implements storage.Repository with a prepared INSERT inside
// a single transaction.
func (r *Repository) InsertSnapshot(ctx context.Context, timestamp string, data records.Dataset) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(storage.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table,
		strings.Join(storage.Columns, ", "),
		strings.Join(placeholders, ", "))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, rec := range data {
		if _, err := stmt.ExecContext(ctx, storage.RowValues(timestamp, rec)...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Close implements storage.Repository.
func (r *Repository) Close() { r.db.Close() }
