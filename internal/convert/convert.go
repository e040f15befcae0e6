// Package convert implements the core conversion run: read one CSV snapshot,
// normalize field names, optionally clean values, de-duplicate by a
// configurable key, and write a single JSON document with run metadata.
//
// One call to Convert is one run. Nothing persists between runs except the
// written output file; all state lives on the call stack.
package convert

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"lyriq/internal/datasource"
	"lyriq/internal/datasource/file"
	csvparser "lyriq/internal/parser/csv"
	"lyriq/internal/records"
	"lyriq/internal/transformer"
)

// ErrNotFound reports a missing source file. It aliases fs.ErrNotExist so
// errors.Is matches either sentinel. The other error kinds live with their
// producers: csvparser.ErrEncoding, csvparser.ErrMalformedRow, ErrWrite.
var ErrNotFound = fs.ErrNotExist

// Options parameterizes one conversion run.
type Options struct {
	// Source is the input CSV path. Dest is the output JSON path; its
	// directory must already exist.
	Source string
	Dest   string

	// Keys lists the normalized field names used for duplicate detection,
	// in order. Empty disables de-duplication.
	Keys []string

	// Encoding is the IANA name of the source text encoding; empty means
	// validated UTF-8.
	Encoding string

	// Clean enables the listing-specific value cleanup (numeric extraction,
	// drivetrain abbreviation, blank-record removal, per-record timestamp).
	Clean bool

	// AllowRagged pads/truncates rows with the wrong column count instead of
	// failing the run.
	AllowRagged bool

	// now is injectable for tests; nil uses time.Now.
	now func() time.Time
}

// Result is the immutable summary of one run.
type Result struct {
	Success             bool
	SourceFile          string
	Timestamp           string // RFC 3339, captured once per run
	TotalRecords        int    // records entering de-duplication
	DuplicatesRemoved   int
	EmptyRecordsRemoved int
	FieldNames          []string
	Warnings            []string
}

// Metadata is the JSON shape of the run summary inside the output document.
type Metadata struct {
	SourceFile          string   `json:"source_file"`
	ConversionTimestamp string   `json:"conversion_timestamp"`
	TotalRecords        int      `json:"total_records"`
	DuplicatesRemoved   int      `json:"duplicates_removed"`
	EmptyRecordsRemoved int      `json:"empty_records_removed"`
	FieldNames          []string `json:"field_names"`
}

// Document is the full output file: exactly two top-level keys.
type Document struct {
	Metadata Metadata        `json:"metadata"`
	Data     records.Dataset `json:"data"`
}

// Convert executes one run and writes the output document atomically. On any
// failure the destination file is left as it was. The returned Result is
// valid whenever err is nil; total_records always equals len(data) plus
// duplicates_removed.
func Convert(ctx context.Context, opt Options) (Result, error) {
	return run(ctx, file.NewLocal(opt.Source), opt)
}

// ConvertFrom is Convert with an explicit datasource, so callers can feed the
// pipeline from HTTP instead of a local file.
func ConvertFrom(ctx context.Context, src datasource.Source, opt Options) (Result, error) {
	return run(ctx, src, opt)
}

func run(ctx context.Context, src datasource.Source, opt Options) (Result, error) {
	now := opt.now
	if now == nil {
		now = time.Now
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	parsed, err := csvparser.NewReader(csvparser.Options{
		Encoding:    opt.Encoding,
		AllowRagged: opt.AllowRagged,
	}).Parse(rc)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", opt.Source, err)
	}

	res := Result{
		SourceFile: opt.Source,
		Timestamp:  now().Format(time.RFC3339),
		FieldNames: parsed.FieldNames,
	}
	if parsed.RaggedRows > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d rows padded/truncated to header width", parsed.RaggedRows))
	}

	data := parsed.Data
	if opt.Clean {
		data, res.EmptyRecordsRemoved = transformer.Clean{Timestamp: res.Timestamp}.Apply(data)
		if len(res.FieldNames) > 0 {
			res.FieldNames = append(res.FieldNames, "time")
		}
	}
	res.TotalRecords = len(data)

	dd := transformer.DeDup{Keys: opt.Keys}
	for _, k := range dd.MissingKeys(res.FieldNames) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("duplicate key field %q not found in header", k))
	}
	data, res.DuplicatesRemoved = dd.Apply(data)

	if data == nil {
		data = records.Dataset{} // keep "data": [] rather than null
	}
	if res.FieldNames == nil {
		res.FieldNames = []string{}
	}

	doc := Document{
		Metadata: Metadata{
			SourceFile:          res.SourceFile,
			ConversionTimestamp: res.Timestamp,
			TotalRecords:        res.TotalRecords,
			DuplicatesRemoved:   res.DuplicatesRemoved,
			EmptyRecordsRemoved: res.EmptyRecordsRemoved,
			FieldNames:          res.FieldNames,
		},
		Data: data,
	}
	if err := WriteJSON(opt.Dest, doc); err != nil {
		return Result{}, err
	}

	res.Success = true
	return res, nil
}
