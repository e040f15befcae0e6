package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"lyriq/internal/records"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
}

func TestConvertBasic(t *testing.T) {
	src := writeCSV(t, "VIN,Trim,Price\nA,Luxury 2,100\nA,Luxury 2,100\nB,Sport 1,200\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{
		Source: src,
		Dest:   dest,
		Keys:   []string{"vin"},
		now:    fixedNow,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Success {
		t.Error("Success = false")
	}
	if res.TotalRecords != 3 || res.DuplicatesRemoved != 1 {
		t.Errorf("TotalRecords, DuplicatesRemoved = %d, %d; want 3, 1",
			res.TotalRecords, res.DuplicatesRemoved)
	}
	if want := []string{"vin", "trim", "price"}; !reflect.DeepEqual(res.FieldNames, want) {
		t.Errorf("FieldNames = %v; want %v", res.FieldNames, want)
	}

	doc, err := ReadDocument(dest)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if doc.Metadata.TotalRecords != len(doc.Data)+doc.Metadata.DuplicatesRemoved {
		t.Errorf("total_records %d != len(data) %d + duplicates_removed %d",
			doc.Metadata.TotalRecords, len(doc.Data), doc.Metadata.DuplicatesRemoved)
	}
	if doc.Metadata.ConversionTimestamp != "2026-08-25T10:00:00Z" {
		t.Errorf("timestamp = %q", doc.Metadata.ConversionTimestamp)
	}
	if doc.Metadata.SourceFile != src {
		t.Errorf("source_file = %q; want %q", doc.Metadata.SourceFile, src)
	}
	want := records.Dataset{
		{{Key: "vin", Value: "A"}, {Key: "trim", Value: "Luxury 2"}, {Key: "price", Value: "100"}},
		{{Key: "vin", Value: "B"}, {Key: "trim", Value: "Sport 1"}, {Key: "price", Value: "200"}},
	}
	if !reflect.DeepEqual(doc.Data, want) {
		t.Errorf("data = %v; want %v", doc.Data, want)
	}
}

func TestConvertHeaderOnly(t *testing.T) {
	src := writeCSV(t, "VIN,Price\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{Source: src, Dest: dest, now: fixedNow})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d; want 0", res.TotalRecords)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), `"data": []`) {
		t.Errorf("output missing empty data array:\n%s", raw)
	}
}

func TestConvertEmptyFile(t *testing.T) {
	src := writeCSV(t, "")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{Source: src, Dest: dest, now: fixedNow})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.TotalRecords != 0 || len(res.FieldNames) != 0 {
		t.Errorf("TotalRecords = %d, FieldNames = %v; want 0, empty",
			res.TotalRecords, res.FieldNames)
	}
}

func TestConvertMissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")
	_, err := Convert(context.Background(), Options{
		Source: filepath.Join(t.TempDir(), "nope.csv"),
		Dest:   dest,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("destination created despite failed run")
	}
}

func TestConvertMissingKeyWarning(t *testing.T) {
	src := writeCSV(t, "VIN,Price\nA,100\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{
		Source: src,
		Dest:   dest,
		Keys:   []string{"vin", "stock"},
		now:    fixedNow,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, `"stock"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v; want missing-key warning for stock", res.Warnings)
	}
	if res.TotalRecords != 1 || res.DuplicatesRemoved != 0 {
		t.Errorf("TotalRecords, DuplicatesRemoved = %d, %d; want 1, 0",
			res.TotalRecords, res.DuplicatesRemoved)
	}
}

func TestConvertClean(t *testing.T) {
	src := writeCSV(t, strings.Join([]string{
		"VIN,Trim,Price,Drive Type",
		"A,Luxury 3 AWD,\"$42,999.00\",All-Wheel Drive",
		",,,",
		"B,Sport 1 RWD,$51000,Rear-Wheel Drive",
	}, "\n")+"\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{
		Source: src,
		Dest:   dest,
		Keys:   []string{"vin"},
		Clean:  true,
		now:    fixedNow,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.EmptyRecordsRemoved != 1 {
		t.Errorf("EmptyRecordsRemoved = %d; want 1", res.EmptyRecordsRemoved)
	}
	if res.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d; want 2 (blank record removed before counting)", res.TotalRecords)
	}
	if got := res.FieldNames[len(res.FieldNames)-1]; got != "time" {
		t.Errorf("last field name = %q; want time", got)
	}

	doc, err := ReadDocument(dest)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	first := doc.Data[0]
	if v, _ := first.Get("price"); v != "42999" {
		t.Errorf("price = %q; want 42999", v)
	}
	if v, _ := first.Get("drive_type"); v != "AWD" {
		t.Errorf("drive_type = %q; want AWD", v)
	}
	if v, _ := first.Get("trim"); v != "Luxury 3" {
		t.Errorf("trim = %q; want Luxury 3", v)
	}
	if v, _ := first.Get("time"); v != "2026-08-25T10:00:00Z" {
		t.Errorf("time = %q", v)
	}
}

func TestConvertMalformedRowFailsRun(t *testing.T) {
	src := writeCSV(t, "VIN,Price\nA,100\nB\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	_, err := Convert(context.Background(), Options{Source: src, Dest: dest})
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("destination created despite failed run")
	}
}

func TestConvertAllowRaggedWarning(t *testing.T) {
	src := writeCSV(t, "VIN,Price\nA,100\nB\n")
	dest := filepath.Join(t.TempDir(), "out.json")

	res, err := Convert(context.Background(), Options{
		Source:      src,
		Dest:        dest,
		AllowRagged: true,
		now:         fixedNow,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "1 rows") {
		t.Errorf("Warnings = %v; want ragged-row count", res.Warnings)
	}
	if res.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d; want 2", res.TotalRecords)
	}
}
