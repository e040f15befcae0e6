// Command loadsnap appends a converted snapshot JSON to a history table so
// price and inventory trends can be queried over time.
//
//	loadsnap -in lyriq.json -backend sqlite -dsn lyriq.db
//	loadsnap -in lyriq.json -backend postgres -dsn postgres://... -table public.lyriq_snapshots
package main

import (
	"context"
	"flag"
	"log"

	"lyriq/internal/convert"
	"lyriq/internal/storage"

	// register all history backends with the storage factory.
	_ "lyriq/internal/storage/all"
)

func main() {
	in := flag.String("in", "lyriq.json", "converted snapshot JSON path")
	backend := flag.String("backend", "sqlite", "history backend (sqlite, postgres)")
	dsn := flag.String("dsn", "", "backend connection string")
	table := flag.String("table", "", "history table name (backend default when empty)")
	flag.Parse()

	doc, err := convert.ReadDocument(*in)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	repo, err := storage.Open(ctx, storage.Config{Kind: *backend, DSN: *dsn, Table: *table})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer repo.Close()

	n, err := repo.InsertSnapshot(ctx, doc.Metadata.ConversionTimestamp, doc.Data)
	if err != nil {
		log.Fatalf("insert snapshot: %v", err)
	}
	log.Printf("loaded %d rows (snapshot %s) into %s", n, doc.Metadata.ConversionTimestamp, *backend)
}
