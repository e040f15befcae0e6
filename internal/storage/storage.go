// Package storage persists converted snapshots into a SQL history table so
// price and inventory trends can be queried across runs. Concrete backends
// register themselves with the factory in their init functions; importing
// lyriq/internal/storage/all enables every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"lyriq/internal/records"
)

// Columns is the fixed schema of the history table, aligned with RowValues.
// snapshot_time comes first; the rest mirror the normalized listing fields.
var Columns = []string{
	"snapshot_time",
	"vin",
	"stock",
	"year",
	"model",
	"trim",
	"price",
	"payment",
	"milege",
	"location",
	"drive_type",
	"exterior_color",
	"interior_color",
}

// intColumns are stored as integers; unparseable values become NULL.
var intColumns = map[string]bool{
	"year": true, "price": true, "payment": true, "milege": true,
}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind names a registered backend: "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string (a file path works for sqlite).
	DSN string

	// Table is the history table name; backends default it when empty.
	Table string
}

// Repository is the minimal contract the loader needs.
type Repository interface {
	// InsertSnapshot appends every record of the dataset, tagged with the
	// snapshot timestamp, and returns the number of rows inserted.
	InsertSnapshot(ctx context.Context, timestamp string, data records.Dataset) (int64, error)

	// Close releases the underlying connections.
	Close()
}

// Factory constructs a Repository from Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var factories = map[string]Factory{}

// Register installs a backend factory under kind. Backends call this from
// init; a duplicate kind panics early, during program start.
func Register(kind string, f Factory) {
	if _, dup := factories[kind]; dup {
		panic("storage: duplicate backend " + kind)
	}
	factories[kind] = f
}

// Open constructs the backend named by cfg.Kind.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	f, ok := factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("storage: unknown backend %q (have %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend names, sorted.
func Kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RowValues maps one record to the Columns order for insertion. The first
// value is the snapshot timestamp; missing fields are NULL, and integer
// columns parse their value or go NULL.
func RowValues(timestamp string, rec records.Record) []any {
	row := make([]any, len(Columns))
	row[0] = timestamp
	for i, col := range Columns[1:] {
		v, ok := rec.Get(col)
		if !ok {
			continue // leave nil
		}
		if intColumns[col] {
			if n, err := strconv.Atoi(v); err == nil {
				row[i+1] = n
			}
			continue
		}
		row[i+1] = v
	}
	return row
}
