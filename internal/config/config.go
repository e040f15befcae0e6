// Package config defines the JSON-serializable job model for the conversion
// tools. A job file captures everything one run needs (where the CSV comes
// from, how to parse it, where outputs go, and optionally which history
// backend to load) so scheduled runs don't depend on long flag lists.
//
// Decoding is stdlib encoding/json; parser settings ride in a free-form
// Options bag with typed accessors, since their shape belongs to the parser
// rather than to this package.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Job is the top-level object decoded from a job file.
type Job struct {
	// Source describes where the inventory CSV comes from.
	Source Source `json:"source"`

	// Parser carries free-form parser settings: comma (string), encoding
	// (IANA name), allow_ragged (bool).
	Parser Options `json:"parser"`

	// Convert configures the core conversion.
	Convert Convert `json:"convert"`

	// Outputs names the optional derived artifacts.
	Outputs Outputs `json:"outputs"`

	// Storage optionally loads the converted snapshot into a history table.
	Storage Storage `json:"storage"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	// Path is the local CSV path for the "file" kind.
	Path string `json:"path"`

	// URL is the download URL for the "http" kind.
	URL string `json:"url"`
}

// Convert configures the core conversion run.
type Convert struct {
	// Dest is the output JSON path.
	Dest string `json:"dest"`

	// DuplicateKeys lists the normalized field names used for duplicate
	// detection, in order. Empty keeps every record.
	DuplicateKeys []string `json:"duplicate_keys"`

	// Clean enables the listing-specific value cleanup.
	Clean bool `json:"clean"`
}

// Outputs names the derived artifacts; empty paths skip that artifact.
type Outputs struct {
	// ChartJS is the dashboard chart-data JavaScript path.
	ChartJS string `json:"chart_js"`

	// PromFile is the Prometheus text-exposition path.
	PromFile string `json:"prom_file"`
}

// Storage selects the optional history backend.
type Storage struct {
	// Kind names a storage backend ("sqlite", "postgres"); empty disables
	// history loading.
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table overrides the default history table name.
	Table string `json:"table"`
}

// Load decodes a job file from disk.
func Load(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var j Job
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return j, nil
}

// Options is a small helper for typed access to free-form JSON maps. It
// performs only minimal coercion and returns the provided default when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so both float64 and int are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character settings such as the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON makes a missing or null options object decode to a non-nil,
// empty map so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
