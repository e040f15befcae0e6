package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeJob(t, `{
		"source": {"kind": "file", "path": "listings.csv"},
		"parser": {"encoding": "windows-1252", "allow_ragged": true},
		"convert": {
			"dest": "lyriq.json",
			"duplicate_keys": ["vin", "stock"],
			"clean": true
		},
		"outputs": {"chart_js": "chart_data.js", "prom_file": "lyriq.prom"},
		"storage": {"kind": "sqlite", "dsn": "lyriq.db"}
	}`)

	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if j.Source.Kind != "file" || j.Source.Path != "listings.csv" {
		t.Errorf("Source = %+v", j.Source)
	}
	if got := j.Parser.String("encoding", ""); got != "windows-1252" {
		t.Errorf("parser encoding = %q", got)
	}
	if !j.Parser.Bool("allow_ragged", false) {
		t.Error("allow_ragged = false")
	}
	if want := []string{"vin", "stock"}; !reflect.DeepEqual(j.Convert.DuplicateKeys, want) {
		t.Errorf("DuplicateKeys = %v; want %v", j.Convert.DuplicateKeys, want)
	}
	if !j.Convert.Clean {
		t.Error("Clean = false")
	}
	if j.Outputs.ChartJS != "chart_data.js" || j.Outputs.PromFile != "lyriq.prom" {
		t.Errorf("Outputs = %+v", j.Outputs)
	}
	if j.Storage.Kind != "sqlite" || j.Storage.DSN != "lyriq.db" {
		t.Errorf("Storage = %+v", j.Storage)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeJob(t, `{"sourcee": {"kind": "file"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadNullParser(t *testing.T) {
	path := writeJob(t, `{
		"source": {"kind": "file", "path": "a.csv"},
		"parser": null,
		"convert": {"dest": "out.json"}
	}`)
	j, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if j.Parser == nil {
		t.Fatal("Parser = nil; want empty map")
	}
	if got := j.Parser.String("encoding", "utf-8"); got != "utf-8" {
		t.Errorf("default lookup = %q; want utf-8", got)
	}
}

func TestOptionsAccessors(t *testing.T) {
	o := Options{
		"comma":   ";",
		"ragged":  true,
		"retries": float64(4),
		"wrong":   []any{},
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune = %q; want ;", got)
	}
	if got := o.Rune("missing", ','); got != ',' {
		t.Errorf("Rune default = %q; want ,", got)
	}
	if !o.Bool("ragged", false) {
		t.Error("Bool = false")
	}
	if got := o.Int("retries", 0); got != 4 {
		t.Errorf("Int = %d; want 4", got)
	}
	if got := o.String("wrong", "def"); got != "def" {
		t.Errorf("mistyped value = %q; want default", got)
	}
}
