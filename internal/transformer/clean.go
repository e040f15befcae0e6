package transformer

import (
	"strconv"
	"strings"

	"lyriq/internal/records"
)

// Clean applies the listing-specific data fixes carried over from the manual
// workflow: price/payment/mileage/year become bare integers, drive types are
// abbreviated, trim drops the redundant drivetrain suffix, blank records are
// removed, and every surviving record is stamped with the run timestamp.
//
// Values stay strings; records are string-valued throughout the pipeline and
// downstream consumers parse what they need.
type Clean struct {
	// Timestamp is written into each record's "time" field. One timestamp is
	// captured per run so all records of a snapshot agree.
	Timestamp string
}

// placeholderPhone fills the request_info field when the listing had no
// callback number; the dashboard expects the field to be non-empty.
const placeholderPhone = "(111) 111-1111"

// Apply returns the cleaned dataset and the number of all-blank records
// dropped. Input records are cloned before mutation.
func (c Clean) Apply(in records.Dataset) (records.Dataset, int) {
	out := make(records.Dataset, 0, len(in))
	dropped := 0
	for _, rec := range in {
		if isBlank(rec) {
			dropped++
			continue
		}
		out = append(out, c.record(rec.Clone()))
	}
	return out, dropped
}

func (c Clean) record(rec records.Record) records.Record {
	// "milege" is the source export's own spelling; it is preserved rather
	// than corrected so existing dashboard lookups keep working.
	for _, f := range []string{"payment", "price", "milege"} {
		if v, ok := rec.Get(f); ok {
			rec = rec.Set(f, strconv.Itoa(extractNumber(v)))
		}
	}
	if v, ok := rec.Get("year"); ok {
		rec = rec.Set("year", strconv.Itoa(extractDigits(v)))
	}
	if v, ok := rec.Get("drive_type"); ok {
		rec = rec.Set("drive_type", abbreviateDriveType(v))
	}
	if v, ok := rec.Get("trim"); ok {
		rec = rec.Set("trim", cleanTrim(v))
	}
	if v, ok := rec.Get("model"); ok && v == "LYRIQ-V" {
		rec = rec.Set("trim", "V-Series")
	}
	if v, ok := rec.Get("request_info"); ok && strings.TrimSpace(v) == "" {
		rec = rec.Set("request_info", placeholderPhone)
	}
	return rec.Set("time", c.Timestamp)
}

// isBlank reports whether every value in the record is empty or whitespace.
func isBlank(rec records.Record) bool {
	for _, f := range rec {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// extractNumber pulls the integer out of money-ish strings:
// "$37,900.00" -> 37900, "$670/mo est." -> 670, "" -> 0.
func extractNumber(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// extractDigits keeps decimal digits only: "10,203" -> 10203, "2024" -> 2024.
func extractDigits(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// abbreviateDriveType maps the long-form drivetrain names to the dashboard's
// abbreviations; unrecognized values pass through unchanged.
func abbreviateDriveType(s string) string {
	switch {
	case strings.Contains(s, "All-Wheel Drive"):
		return "AWD"
	case strings.Contains(s, "Rear-Wheel Drive"):
		return "RWD"
	default:
		return strings.TrimSpace(s)
	}
}

// cleanTrim strips a trailing " AWD"/" RWD" so trim and drive_type don't
// duplicate each other: "Luxury 3 AWD" -> "Luxury 3".
func cleanTrim(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{" AWD", " RWD"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}
