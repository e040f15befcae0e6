// Package postgres implements the snapshot history on Postgres using pgx v5;
// rows go in through the COPY protocol.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lyriq/internal/records"
	"lyriq/internal/storage"
)

// DefaultTable is used when Config.Table is empty.
const DefaultTable = "lyriq_snapshots"

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

// New creates a pool, verifies connectivity, and ensures the history table.
func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	r := &Repository{pool: pool, table: table}
	if err := r.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureTable(ctx context.Context) error {
	cols := make([]string, len(storage.Columns))
	for i, c := range storage.Columns {
		typ := "text"
		switch c {
		case "year", "price", "payment", "milege":
			typ = "integer"
		}
		cols[i] = pgIdent(c) + " " + typ
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", r.fqTable(), strings.Join(cols, ", "))
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// InsertSnapshot implements storage.Repository via the COPY protocol.
func (r *Repository) InsertSnapshot(ctx context.Context, timestamp string, data records.Dataset) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(data))
	for i, rec := range data {
		rows[i] = storage.RowValues(timestamp, rec)
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(r.table), storage.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// Close implements storage.Repository.
func (r *Repository) Close() { r.pool.Close() }

func (r *Repository) fqTable() string {
	return splitFQN(r.table).Sanitize()
}

// splitFQN turns "schema.table" (or a bare table name) into a pgx.Identifier
// so both parts are quoted correctly.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		id = append(id, strings.TrimSpace(p))
	}
	return id
}

func pgIdent(s string) string {
	return pgx.Identifier{s}.Sanitize()
}
