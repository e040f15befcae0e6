// Command metricsd serves /metrics from a converted snapshot JSON so
// Prometheus can scrape the inventory stats directly. The snapshot file is
// re-read at most once per refresh interval.
//
//	metricsd -in lyriq.json -addr :9105
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"lyriq/internal/promexport"
)

func main() {
	in := flag.String("in", "lyriq.json", "converted snapshot JSON path")
	addr := flag.String("addr", ":9105", "listen address")
	refresh := flag.Duration("refresh", promexport.DefaultRefresh, "snapshot re-read interval")
	flag.Parse()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promexport.NewHandler(*in, *refresh))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("serving metrics for %s on %s", *in, *addr)
	log.Fatal(srv.ListenAndServe())
}
