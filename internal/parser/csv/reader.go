// Package csv reads a delimited inventory export into ordered records with
// normalized field names. The whole file is materialized in memory; inputs
// here are small daily listing exports, not multi-GB dumps, so a batch read
// keeps the downstream dedup and JSON writing trivial.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"lyriq/internal/records"
)

// Error kinds reported by the reader. Callers match them with errors.Is; the
// wrapped message carries file/line context.
var (
	// ErrEncoding indicates the requested encoding name is unknown or the
	// input bytes do not decode under it.
	ErrEncoding = errors.New("encoding error")

	// ErrMalformedRow indicates a data row whose column count differs from
	// the header. Only returned when Options.AllowRagged is false.
	ErrMalformedRow = errors.New("malformed row")
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures the reader. The zero value reads comma-separated UTF-8
// with strict row widths.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// Encoding is an IANA charset name ("windows-1252", "iso-8859-1", ...).
	// Empty or any spelling of UTF-8 selects validated UTF-8.
	Encoding string

	// AllowRagged pads or truncates rows to the header width instead of
	// failing with ErrMalformedRow. Adjusted rows are counted as warnings.
	AllowRagged bool
}

// Reader parses delimited input according to Options. A Reader is cheap and
// reusable across inputs; it holds no per-parse state.
type Reader struct{ opt Options }

// NewReader constructs a Reader with the provided Options.
func NewReader(opt Options) *Reader { return &Reader{opt: opt} }

// Result carries one parse: the dataset, the normalized header, and the
// number of ragged rows that were padded/truncated (always zero unless
// AllowRagged is set).
type Result struct {
	Data       records.Dataset
	FieldNames []string
	RaggedRows int
}

// Parse consumes the entire input. The first row is always the header; an
// empty input yields an empty dataset and an empty header with no error.
// Parse does not close r.
func (p *Reader) Parse(r io.Reader) (Result, error) {
	dec, err := decoder(p.opt.Encoding)
	if err != nil {
		return Result{}, err
	}

	cr := csv.NewReader(&encodingErrReader{r: transform.NewReader(r, dec)})
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width is enforced below so we can report lines

	header, err := cr.Read()
	if err == io.EOF {
		return Result{FieldNames: []string{}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	names := NormalizeFieldNames(header)

	var res Result
	res.FieldNames = names
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) != len(names) {
			if !p.opt.AllowRagged {
				return Result{}, fmt.Errorf("line %d: %w: expected %d fields, got %d",
					line, ErrMalformedRow, len(names), len(row))
			}
			row = fitWidth(row, len(names))
			res.RaggedRows++
		}
		rec := make(records.Record, len(names))
		for i, v := range row {
			rec[i] = records.Field{Key: names[i], Value: v}
		}
		res.Data = append(res.Data, rec)
	}
	return res, nil
}

// fitWidth truncates or pads row to exactly n fields.
func fitWidth(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

// decoder resolves an IANA charset name to a transformer. UTF-8 input is not
// converted, only validated, so a latin-1 file passed without -encoding fails
// loudly instead of smuggling U+FFFD into the output.
func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return encoding.UTF8Validator, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrEncoding, name)
	}
	return enc.NewDecoder(), nil
}

// encodingErrReader tags errors surfaced by the decoding layer as ErrEncoding
// so callers can distinguish bad bytes from CSV structure problems. io.EOF
// passes through untouched.
type encodingErrReader struct{ r io.Reader }

func (e *encodingErrReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return n, err
}
