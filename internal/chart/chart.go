// Package chart aggregates a converted snapshot into the data objects the
// static dashboard charts read: per-state inventory counts with average
// prices and top trims, plus a per-state trim distribution for the stacked
// bar chart.
package chart

import (
	"sort"
	"strconv"
	"strings"

	"lyriq/internal/records"
)

// minStateTotal is the cutoff for the trim-distribution chart; states with
// fewer vehicles clutter the stacked bars without adding signal.
const minStateTotal = 5

// topTrimCount limits the trims shown per state on the location chart.
const topTrimCount = 3

// StateStats is one state's slice of the geographic distribution chart.
type StateStats struct {
	State    string
	Count    int
	AvgPrice int
	Trims    []string // top trims by count, at most topTrimCount
}

// TrimRow is one state's bar in the trim-distribution chart; Counts is
// aligned to Distribution.Trims.
type TrimRow struct {
	State  string
	Total  int
	Counts []int
}

// Distribution is the trim-distribution chart data.
type Distribution struct {
	Trims  []string
	States []TrimRow
}

// stateOf extracts the state from a "City, ST" location; a location without
// a comma is used as-is.
func stateOf(location string) string {
	if i := strings.LastIndex(location, ", "); i >= 0 {
		return location[i+2:]
	}
	return location
}

func price(rec records.Record) int {
	v, _ := rec.Get("price")
	n, _ := strconv.Atoi(v)
	return n
}

// Locations computes per-state stats sorted by descending count (ties by
// state name so output is stable between runs).
func Locations(data records.Dataset) []StateStats {
	type agg struct {
		count  int
		prices []int
		trims  map[string]int
	}
	byState := map[string]*agg{}

	for _, rec := range data {
		loc, _ := rec.Get("location")
		if loc == "" {
			continue
		}
		st := stateOf(loc)
		a := byState[st]
		if a == nil {
			a = &agg{trims: map[string]int{}}
			byState[st] = a
		}
		a.count++
		if p := price(rec); p > 0 {
			a.prices = append(a.prices, p)
		}
		if trim, _ := rec.Get("trim"); trim != "" {
			a.trims[trim]++
		}
	}

	out := make([]StateStats, 0, len(byState))
	for st, a := range byState {
		avg := 0
		if len(a.prices) > 0 {
			sum := 0
			for _, p := range a.prices {
				sum += p
			}
			avg = sum / len(a.prices)
		}
		out = append(out, StateStats{
			State:    st,
			Count:    a.count,
			AvgPrice: avg,
			Trims:    topTrims(a.trims, topTrimCount),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	return out
}

// topTrims returns the n most common trims, most frequent first, ties broken
// alphabetically.
func topTrims(counts map[string]int, n int) []string {
	type tc struct {
		trim  string
		count int
	}
	all := make([]tc, 0, len(counts))
	for t, c := range counts {
		all = append(all, tc{t, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].trim < all[j].trim
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = t.trim
	}
	return out
}

// TrimDistribution computes the stacked-bar data: every trim seen anywhere,
// and for each state with at least minStateTotal vehicles, the count of each
// trim in Trims order. States sort by descending total.
func TrimDistribution(data records.Dataset) Distribution {
	byState := map[string]map[string]int{}
	totals := map[string]int{}
	trimSet := map[string]struct{}{}

	for _, rec := range data {
		loc, _ := rec.Get("location")
		trim, _ := rec.Get("trim")
		if loc == "" || trim == "" {
			continue
		}
		st := stateOf(loc)
		if byState[st] == nil {
			byState[st] = map[string]int{}
		}
		byState[st][trim]++
		totals[st]++
		trimSet[trim] = struct{}{}
	}

	trims := make([]string, 0, len(trimSet))
	for t := range trimSet {
		trims = append(trims, t)
	}
	sort.Strings(trims)

	states := make([]string, 0, len(totals))
	for st := range totals {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		if totals[states[i]] != totals[states[j]] {
			return totals[states[i]] > totals[states[j]]
		}
		return states[i] < states[j]
	})

	var dist Distribution
	dist.Trims = trims
	for _, st := range states {
		if totals[st] < minStateTotal {
			continue
		}
		row := TrimRow{State: st, Total: totals[st], Counts: make([]int, len(trims))}
		for i, t := range trims {
			row.Counts[i] = byState[st][t]
		}
		dist.States = append(dist.States, row)
	}
	return dist
}
