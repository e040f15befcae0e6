// Package transformer contains the in-memory record transformations applied
// between parsing and writing: data cleanup and de-duplication. Each
// transform runs over one batch (the whole dataset of a single run) and
// reports how many records it removed, so nothing disappears silently.
package transformer

import (
	"github.com/zeebo/xxh3"

	"lyriq/internal/records"
)

// DeDup removes duplicate records by a configured key, keeping the earliest
// occurrence in source order.
type DeDup struct {
	// Keys are the normalized field names forming the business key,
	// e.g. ["vin", "stock"]. An empty key disables de-duplication.
	Keys []string
}

// Key-frame bytes. A missing field is encoded as a bare 0x00 so records
// lacking a key field only ever collide with records lacking it too; a
// present field is 0x01 followed by the raw value. Fields are separated by
// 0x1f. None of these bytes survive CSV decoding inside real values.
const (
	keyMissing = 0x00
	keyPresent = 0x01
	keySep     = 0x1f
)

// Apply returns the de-duplicated dataset and the number of records removed.
// It is a single pass with an amortized O(1) membership check per record:
// the key frame is hashed with 128-bit xxh3 and only the hash is retained,
// so the seen-set stays small even for wide keys. Values compare
// case-sensitively and untrimmed. The input slice is not modified.
func (d DeDup) Apply(in records.Dataset) (records.Dataset, int) {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in, 0
	}

	seen := make(map[xxh3.Uint128]struct{}, len(in))
	out := make(records.Dataset, 0, len(in))
	var frame []byte
	removed := 0

	for _, rec := range in {
		frame = frame[:0]
		for i, k := range d.Keys {
			if i > 0 {
				frame = append(frame, keySep)
			}
			if v, ok := rec.Get(k); ok {
				frame = append(frame, keyPresent)
				frame = append(frame, v...)
			} else {
				frame = append(frame, keyMissing)
			}
		}
		h := xxh3.Hash128(frame)
		if _, dup := seen[h]; dup {
			removed++
			continue
		}
		seen[h] = struct{}{}
		out = append(out, rec)
	}
	return out, removed
}

// MissingKeys returns the configured key fields that appear nowhere in the
// header. These are reported as warnings by the caller, not treated as
// fatal: records simply all carry the missing-field sentinel for that key.
func (d DeDup) MissingKeys(fieldNames []string) []string {
	present := make(map[string]struct{}, len(fieldNames))
	for _, n := range fieldNames {
		present[n] = struct{}{}
	}
	var missing []string
	for _, k := range d.Keys {
		if _, ok := present[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
