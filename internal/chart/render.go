package chart

import (
	"fmt"
	"strings"
)

// trimColors is the dashboard palette keyed by trim level; unknown trims get
// the fallback gray.
var trimColors = map[string]string{
	"Luxury":   "#4ECDC4",
	"Luxury 1": "#45B7D1",
	"Luxury 2": "#96CEB4",
	"Luxury 3": "#FFEAA7",
	"Sport 1":  "#DDA0DD",
	"Sport 2":  "#98D8C8",
	"Sport 3":  "#F7DC6F",
	"Tech":     "#BB8FCE",
	"V-Series": "#FF6B6B",
}

const fallbackColor = "#CCCCCC"

// RenderJS produces the chart_data.js consumed by the static dashboard page:
// three const objects (locationData, trimDistributionData, trimColors).
func RenderJS(locations []StateStats, dist Distribution) []byte {
	var b strings.Builder
	b.WriteString("// Auto-generated chart data for the Lyriq dashboard.\n")
	b.WriteString("// Regenerate with chartdata; do not edit manually.\n\n")

	b.WriteString("// Location data for geographic distribution chart\n")
	b.WriteString("const locationData = {\n")
	for i, s := range locations {
		fmt.Fprintf(&b, "    %s: { count: %d, avgPrice: %d, trims: %s }%s\n",
			jsString(s.State), s.Count, s.AvgPrice, jsStrings(s.Trims), comma(i, len(locations)))
	}
	b.WriteString("};\n\n")

	b.WriteString("// Trim distribution data for stacked bar chart\n")
	b.WriteString("const trimDistributionData = {\n")
	fmt.Fprintf(&b, "    trims: %s,\n", jsStrings(dist.Trims))
	b.WriteString("    states: [\n")
	for i, row := range dist.States {
		fmt.Fprintf(&b, "        { state: %s, total: %d, trims: %s }%s\n",
			jsString(row.State), row.Total, jsInts(row.Counts), comma(i, len(dist.States)))
	}
	b.WriteString("    ]\n};\n\n")

	b.WriteString("// Color palette for trim levels\n")
	b.WriteString("const trimColors = {\n")
	for i, t := range dist.Trims {
		color, ok := trimColors[t]
		if !ok {
			color = fallbackColor
		}
		fmt.Fprintf(&b, "    %s: '%s'%s\n", jsString(t), color, comma(i, len(dist.Trims)))
	}
	b.WriteString("};\n")
	return []byte(b.String())
}

func comma(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

// jsString quotes s as a single-quoted JS string literal.
func jsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func jsStrings(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = jsString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func jsInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
