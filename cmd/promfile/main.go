// Command promfile renders a converted snapshot JSON as Prometheus
// text-exposition metrics, for node_exporter's textfile collector or a
// Grafana Cloud import.
//
//	promfile -in lyriq.json -out lyriq.prom
package main

import (
	"flag"
	"log"
	"os"

	"lyriq/internal/convert"
	"lyriq/internal/promexport"
)

func main() {
	in := flag.String("in", "lyriq.json", "converted snapshot JSON path")
	out := flag.String("out", "lyriq.prom", "output .prom path")
	stdout := flag.Bool("stdout", false, "write to stdout instead of -out")
	flag.Parse()

	doc, err := convert.ReadDocument(*in)
	if err != nil {
		log.Fatalf("%v", err)
	}

	text, err := promexport.Render(doc.Data)
	if err != nil {
		log.Fatalf("render metrics: %v", err)
	}
	if *stdout {
		os.Stdout.Write(text)
		return
	}
	if err := convert.WriteBytes(*out, text); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %s from %d records", *out, len(doc.Data))
}
