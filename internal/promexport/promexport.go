// Package promexport turns a converted snapshot into Prometheus metric
// families: totals, price and mileage stats, and per-year/trim/state/
// drive-type/color inventory counts. The same registry backs both the .prom
// file renderer and the /metrics HTTP endpoint.
package promexport

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"lyriq/internal/records"
)

// Registry builds a private registry with all snapshot gauges set. Gauges are
// used rather than counters because each snapshot fully replaces the last;
// nothing accumulates across runs.
func Registry(data records.Dataset) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lyriq_vehicles_total",
		Help: "Total vehicles in the snapshot.",
	})
	reg.MustRegister(total)
	total.Set(float64(len(data)))

	registerStats(reg, "lyriq_price", "listing price in USD", values(data, "price"))
	// The mileage column is spelled "milege" in the source export.
	registerStats(reg, "lyriq_mileage", "odometer mileage", values(data, "milege"))

	registerCounts(reg, "lyriq_vehicles_by_year", "year", "Vehicles per model year.",
		countBy(data, "year"))
	registerCounts(reg, "lyriq_vehicles_by_trim", "trim", "Vehicles per trim level.",
		countBy(data, "trim"))
	registerCounts(reg, "lyriq_vehicles_by_state", "state", "Vehicles per state.",
		countByState(data))
	registerCounts(reg, "lyriq_vehicles_by_drive_type", "drive_type", "Vehicles per drive type.",
		countBy(data, "drive_type"))
	registerCounts(reg, "lyriq_vehicles_by_interior_color", "color", "Vehicles per interior color.",
		countBy(data, "interior_color"))
	registerCounts(reg, "lyriq_vehicles_by_exterior_color", "color", "Vehicles per exterior color.",
		countBy(data, "exterior_color"))

	return reg
}

// Render gathers the registry and encodes it in the Prometheus text
// exposition format, ready to be written as a .prom file.
func Render(data records.Dataset) ([]byte, error) {
	mfs, err := Registry(data).Gather()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// registerStats registers <prefix>_average/min/max gauges over the positive
// values of a numeric field. Nothing is registered when no usable values
// exist, matching the dashboard's expectation that absent stats mean an
// empty snapshot.
func registerStats(reg *prometheus.Registry, prefix, what string, vals []int) {
	if len(vals) == 0 {
		return
	}
	sum, min, max := 0, vals[0], vals[0]
	for _, v := range vals {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	set := func(suffix, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: prefix + suffix, Help: help})
		reg.MustRegister(g)
		g.Set(v)
	}
	set("_average", "Average "+what+".", float64(sum)/float64(len(vals)))
	set("_min", "Minimum "+what+".", float64(min))
	set("_max", "Maximum "+what+".", float64(max))
}

func registerCounts(reg *prometheus.Registry, name, label, help string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, []string{label})
	reg.MustRegister(vec)
	for k, n := range counts {
		vec.WithLabelValues(k).Set(float64(n))
	}
}

// values collects the positive integer values of field across the dataset.
func values(data records.Dataset, field string) []int {
	var out []int
	for _, rec := range data {
		v, _ := rec.Get(field)
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// countBy tallies records by the sanitized value of field; blank and
// zero-valued entries are skipped.
func countBy(data records.Dataset, field string) map[string]int {
	counts := map[string]int{}
	for _, rec := range data {
		v, _ := rec.Get(field)
		if v == "" || v == "0" {
			continue
		}
		counts[sanitizeLabel(v)]++
	}
	return counts
}

// countByState tallies records by the state parsed from "City, ST" locations.
func countByState(data records.Dataset) map[string]int {
	counts := map[string]int{}
	for _, rec := range data {
		loc, _ := rec.Get("location")
		i := strings.LastIndex(loc, ",")
		if i < 0 {
			continue
		}
		st := strings.TrimSpace(loc[i+1:])
		if st == "" {
			continue
		}
		counts[sanitizeLabel(st)]++
	}
	return counts
}

// sanitizeLabel lower-cases and replaces spaces/hyphens with underscores so
// label values stay Grafana-query friendly.
func sanitizeLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}
