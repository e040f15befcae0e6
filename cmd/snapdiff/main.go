// Command snapdiff compares two inventory CSV exports and reports listings
// present in the newer file but not the baseline. New entries are written as
// a JSON array (stdout by default) so they can feed the same downstream
// tools as a full conversion.
//
//	snapdiff -base 2025-10-02.csv -new 2025-10-03.csv -key vin
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"lyriq/internal/convert"
	csvparser "lyriq/internal/parser/csv"
	"lyriq/internal/snapshot"
)

func main() {
	base := flag.String("base", "", "baseline CSV path")
	newer := flag.String("new", "", "newer CSV path")
	key := flag.String("key", snapshot.DefaultKey, "field identifying a listing across snapshots")
	encoding := flag.String("encoding", "", "source text encoding (IANA name; default UTF-8)")
	out := flag.String("out", "", "write new entries to this JSON path instead of stdout")
	flag.Parse()

	if *base == "" || *newer == "" {
		log.Fatalf("both -base and -new are required")
	}

	res, err := snapshot.Diff(context.Background(), *base, *newer, *key,
		csvparser.Options{Encoding: *encoding, AllowRagged: true})
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("baseline: %d records (%d distinct %s)", res.BaselineRecords, res.BaselineKeys, *key)
	log.Printf("current:  %d records", res.CurrentRecords)
	log.Printf("new entries: %d", len(res.Entries))

	if *out != "" {
		if err := convert.WriteJSON(*out, res.Entries); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res.Entries); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
