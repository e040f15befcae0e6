// Command csv2json converts one inventory CSV export to the normalized,
// de-duplicated JSON document the dashboard and metrics tools consume.
//
// Quick use:
//
//	csv2json -in cargurus-2025-10-02.csv -out lyriq.json -keys vin,stock
//
// Scheduled use runs from a job file, which can also fetch the CSV over
// HTTP, emit the chart and Prometheus artifacts, and load the snapshot into
// a history table:
//
//	csv2json -config jobs/daily.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"lyriq/internal/chart"
	"lyriq/internal/config"
	"lyriq/internal/convert"
	"lyriq/internal/datasource"
	"lyriq/internal/datasource/file"
	"lyriq/internal/datasource/httpds"
	"lyriq/internal/promexport"
	"lyriq/internal/storage"

	// register all history backends with the storage factory.
	_ "lyriq/internal/storage/all"
)

func main() {
	var (
		cfgPath     string
		in          string
		out         string
		keys        string
		encoding    string
		clean       bool
		allowRagged bool
		validate    bool
	)

	flag.StringVar(&cfgPath, "config", "", "job config JSON path (overrides the flags below)")
	flag.StringVar(&in, "in", "", "input CSV path")
	flag.StringVar(&out, "out", "", "output JSON path")
	flag.StringVar(&keys, "keys", "", "comma-separated duplicate-key field names (e.g. vin,stock)")
	flag.StringVar(&encoding, "encoding", "", "source text encoding (IANA name; default UTF-8)")
	flag.BoolVar(&clean, "clean", false, "apply listing-specific value cleanup")
	flag.BoolVar(&allowRagged, "allow-ragged", false, "pad/truncate rows with the wrong column count")
	flag.BoolVar(&validate, "validate", false, "validate the job config and exit")
	flag.Parse()

	ctx := context.Background()

	if cfgPath != "" {
		runJob(ctx, cfgPath, validate)
		return
	}
	if in == "" || out == "" {
		fatalf("either -config or both -in and -out are required")
	}

	res, err := convert.Convert(ctx, convert.Options{
		Source:      in,
		Dest:        out,
		Keys:        splitKeys(keys),
		Encoding:    encoding,
		Clean:       clean,
		AllowRagged: allowRagged,
	})
	if err != nil {
		log.Fatalf("convert: %v", err)
	}
	report(res)
}

func runJob(ctx context.Context, cfgPath string, validateOnly bool) {
	job, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(job)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid: %s", cfgPath)
	}
	if validateOnly {
		log.Printf("configuration is valid: %s", cfgPath)
		return
	}

	var src datasource.Source
	sourceName := job.Source.Path
	switch job.Source.Kind {
	case "file":
		src = file.NewLocal(job.Source.Path)
	case "http":
		src = httpds.NewClient(httpds.Config{URL: job.Source.URL})
		sourceName = job.Source.URL
	}

	res, err := convert.ConvertFrom(ctx, src, convert.Options{
		Source:      sourceName,
		Dest:        job.Convert.Dest,
		Keys:        job.Convert.DuplicateKeys,
		Encoding:    job.Parser.String("encoding", ""),
		Clean:       job.Convert.Clean,
		AllowRagged: job.Parser.Bool("allow_ragged", false),
	})
	if err != nil {
		log.Fatalf("convert: %v", err)
	}
	report(res)

	doc, err := convert.ReadDocument(job.Convert.Dest)
	if err != nil {
		log.Fatalf("reload converted output: %v", err)
	}

	if job.Outputs.ChartJS != "" {
		js := chart.RenderJS(chart.Locations(doc.Data), chart.TrimDistribution(doc.Data))
		if err := convert.WriteBytes(job.Outputs.ChartJS, js); err != nil {
			log.Fatalf("chart data: %v", err)
		}
		log.Printf("wrote chart data: %s", job.Outputs.ChartJS)
	}
	if job.Outputs.PromFile != "" {
		text, err := promexport.Render(doc.Data)
		if err != nil {
			log.Fatalf("render metrics: %v", err)
		}
		if err := convert.WriteBytes(job.Outputs.PromFile, text); err != nil {
			log.Fatalf("metrics file: %v", err)
		}
		log.Printf("wrote metrics: %s", job.Outputs.PromFile)
	}
	if job.Storage.Kind != "" {
		repo, err := storage.Open(ctx, storage.Config{
			Kind:  job.Storage.Kind,
			DSN:   job.Storage.DSN,
			Table: job.Storage.Table,
		})
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		defer repo.Close()
		n, err := repo.InsertSnapshot(ctx, doc.Metadata.ConversionTimestamp, doc.Data)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		log.Printf("loaded %d rows into %s history", n, job.Storage.Kind)
	}
}

func report(res convert.Result) {
	log.Printf("converted %s: %d records, %d duplicates removed, %d empty removed",
		res.SourceFile, res.TotalRecords-res.DuplicatesRemoved, res.DuplicatesRemoved,
		res.EmptyRecordsRemoved)
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}
}

func splitKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
