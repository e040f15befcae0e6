package convert

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadDocument loads a previously converted output file. The chart, metrics,
// and history tools all consume the converter's JSON rather than re-reading
// the CSV.
func ReadDocument(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}
