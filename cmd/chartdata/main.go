// Command chartdata reads a converted snapshot JSON and writes the
// chart_data.js consumed by the static dashboard page.
//
//	chartdata -in lyriq.json -out chart_data.js
package main

import (
	"flag"
	"log"
	"os"

	"lyriq/internal/chart"
	"lyriq/internal/convert"
)

func main() {
	in := flag.String("in", "lyriq.json", "converted snapshot JSON path")
	out := flag.String("out", "chart_data.js", "output JavaScript path")
	stdout := flag.Bool("stdout", false, "write to stdout instead of -out")
	flag.Parse()

	doc, err := convert.ReadDocument(*in)
	if err != nil {
		log.Fatalf("%v", err)
	}

	js := chart.RenderJS(chart.Locations(doc.Data), chart.TrimDistribution(doc.Data))
	if *stdout {
		os.Stdout.Write(js)
		return
	}
	if err := convert.WriteBytes(*out, js); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %s from %d records", *out, len(doc.Data))
}
