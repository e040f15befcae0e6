package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	csvparser "lyriq/internal/parser/csv"
	"lyriq/internal/records"
)

func listing(vin, trim string) records.Record {
	return records.Record{
		{Key: "vin", Value: vin},
		{Key: "trim", Value: trim},
	}
}

func TestBuildIndex(t *testing.T) {
	data := records.Dataset{
		listing("A", "Luxury"),
		listing("B", "Sport"),
		listing("", "Tech"),
		listing("  ", "Tech"),
		listing("A", "Luxury"), // repeat: one index entry
	}
	ix := BuildIndex(data, "vin")
	if ix.Len() != 2 {
		t.Errorf("Len = %d; want 2", ix.Len())
	}
	if !ix.Has("A") || !ix.Has(" A ") {
		t.Error("Has(A) false; trimming should match")
	}
	if ix.Has("C") {
		t.Error("Has(C) true")
	}
}

func TestNewEntries(t *testing.T) {
	baseline := records.Dataset{listing("A", "Luxury"), listing("B", "Sport")}
	current := records.Dataset{
		listing("B", "Sport"),
		listing("C", "Tech"),
		listing("", "Luxury"), // blank key: skipped
		listing("D", "V-Series"),
	}
	got := NewEntries(baseline, current, "vin")
	want := records.Dataset{current[1], current[3]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewEntries = %v; want %v", got, want)
	}
}

func TestNewEntriesEmptyBaseline(t *testing.T) {
	current := records.Dataset{listing("A", "Luxury")}
	got := NewEntries(nil, current, "vin")
	if !reflect.DeepEqual(got, current) {
		t.Errorf("NewEntries = %v; want all of current", got)
	}
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDiff(t *testing.T) {
	base := writeCSV(t, "base.csv", "VIN,Trim\nA,Luxury\nB,Sport\n")
	newer := writeCSV(t, "new.csv", "VIN,Trim\nB,Sport\nC,Tech\nD,V-Series\n")

	res, err := Diff(context.Background(), base, newer, "vin", csvparser.Options{})
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if res.BaselineRecords != 2 || res.CurrentRecords != 3 || res.BaselineKeys != 2 {
		t.Errorf("counts = %+v; want 2 baseline, 3 current, 2 keys", res)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("Entries = %v; want 2", res.Entries)
	}
	if v, _ := res.Entries[0].Get("vin"); v != "C" {
		t.Errorf("first new entry vin = %q; want C", v)
	}
	if v, _ := res.Entries[1].Get("vin"); v != "D" {
		t.Errorf("second new entry vin = %q; want D", v)
	}
}

func TestDiffDefaultKey(t *testing.T) {
	base := writeCSV(t, "base.csv", "VIN\nA\n")
	newer := writeCSV(t, "new.csv", "VIN\nA\nB\n")

	res, err := Diff(context.Background(), base, newer, "", csvparser.Options{})
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Errorf("Entries = %v; want 1", res.Entries)
	}
}

func TestDiffMissingFile(t *testing.T) {
	base := writeCSV(t, "base.csv", "VIN\nA\n")
	_, err := Diff(context.Background(), base, filepath.Join(t.TempDir(), "nope.csv"), "vin", csvparser.Options{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiffCanceledContext(t *testing.T) {
	base := writeCSV(t, "base.csv", "VIN\nA\n")
	newer := writeCSV(t, "new.csv", "VIN\nA\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Diff(ctx, base, newer, "vin", csvparser.Options{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
