// Package snapshot compares two inventory CSV exports and reports the
// listings that are new in the later one. The baseline's key values are held
// as a set of 128-bit xxh3 hashes, so the index stays compact even when
// snapshots grow; the records themselves are only kept for the newer file.
package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	csvparser "lyriq/internal/parser/csv"
	"lyriq/internal/records"
)

// DefaultKey is the field used to identify a listing across snapshots.
const DefaultKey = "vin"

// Index is a hashed membership set over one field of a dataset.
type Index struct {
	set map[xxh3.Uint128]struct{}
}

// BuildIndex indexes the key-field values of data. Blank values are skipped:
// a listing without a VIN can't be matched across snapshots, so it never
// suppresses a "new entry".
func BuildIndex(data records.Dataset, key string) *Index {
	ix := &Index{set: make(map[xxh3.Uint128]struct{}, len(data))}
	for _, rec := range data {
		v, _ := rec.Get(key)
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ix.set[xxh3.Hash128([]byte(v))] = struct{}{}
	}
	return ix
}

// Has reports whether the (trimmed) value was indexed.
func (ix *Index) Has(v string) bool {
	_, ok := ix.set[xxh3.Hash128([]byte(strings.TrimSpace(v)))]
	return ok
}

// Len returns the number of distinct indexed values.
func (ix *Index) Len() int { return len(ix.set) }

// Result summarizes one comparison run.
type Result struct {
	BaselineRecords int
	CurrentRecords  int
	BaselineKeys    int // distinct non-blank key values in the baseline
	Entries         records.Dataset
}

// NewEntries returns the records of current whose key value does not occur
// in baseline, in current's source order. Records with a blank key are
// skipped entirely, like the manual comparison did.
func NewEntries(baseline, current records.Dataset, key string) records.Dataset {
	ix := BuildIndex(baseline, key)
	var out records.Dataset
	for _, rec := range current {
		v, _ := rec.Get(key)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if !ix.Has(v) {
			out = append(out, rec)
		}
	}
	return out
}

// Diff parses both snapshot files concurrently and computes the new entries
// of newPath relative to basePath. Each file's dataset is parsed and keyed
// independently; only the final membership comparison joins them, so the
// per-file determinism guarantees of the parser and index hold unchanged.
func Diff(ctx context.Context, basePath, newPath, key string, opt csvparser.Options) (Result, error) {
	if key == "" {
		key = DefaultKey
	}

	var base, cur csvparser.Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = parseFile(ctx, basePath, opt)
		return err
	})
	g.Go(func() error {
		var err error
		cur, err = parseFile(ctx, newPath, opt)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	ix := BuildIndex(base.Data, key)
	res := Result{
		BaselineRecords: len(base.Data),
		CurrentRecords:  len(cur.Data),
		BaselineKeys:    ix.Len(),
	}
	for _, rec := range cur.Data {
		v, _ := rec.Get(key)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if !ix.Has(v) {
			res.Entries = append(res.Entries, rec)
		}
	}
	return res, nil
}

func parseFile(ctx context.Context, path string, opt csvparser.Options) (csvparser.Result, error) {
	if err := ctx.Err(); err != nil {
		return csvparser.Result{}, err
	}
	f, err := openSequential(path)
	if err != nil {
		return csvparser.Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := csvparser.NewReader(opt).Parse(f)
	if err != nil {
		return csvparser.Result{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
