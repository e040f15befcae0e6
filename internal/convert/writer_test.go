package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONAtomicOnFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.json")
	if err := os.WriteFile(dest, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	// Channels are not JSON-serializable, so encoding fails mid-write.
	err := WriteJSON(dest, map[string]any{"bad": make(chan int)})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("err = %v; want ErrWrite", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "previous run" {
		t.Errorf("destination = %q; want previous content untouched", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries; want 1 (no temp files left behind)", len(entries))
	}
}

func TestWriteJSONMissingDirectory(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "no", "such", "dir", "out.json"), "x")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("err = %v; want ErrWrite", err)
	}
}

func TestWriteBytesReplacesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chart_data.js")
	if err := WriteBytes(dest, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteBytes(dest, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q; want second", got)
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
