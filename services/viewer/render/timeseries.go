package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/tidwall/gjson"
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
}

const colorReset = "\x1b[0m"

// ExtractSeries resolves the dot-path against each historical sample's data and keeps
// only the points that resolve to a JSON number. Unresolved or non-numeric values are
// dropped from the series, never zero-filled.
func ExtractSeries(history []common.Sample, path string) []Point {
	points := make([]Point, 0, len(history))
	for _, sample := range history {
		result := gjson.GetBytes(sample.Data, path)
		if !result.Exists() || result.Type != gjson.Number {
			continue
		}

		points = append(points, Point{
			Timestamp: sample.Timestamp,
			Value:     result.Float(),
		})
	}

	return points
}

// renderTimeseries draws one colored line per configured series. Labels are sorted so
// the card layout is stable across refreshes.
func renderTimeseries(charter Charter, display common.DisplayConfig, entry common.MetricEntry, width int) string {
	labels := make([]string, 0, len(display.Series))
	for label := range display.Series {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for i, label := range labels {
		points := ExtractSeries(entry.History, display.Series[label])
		if len(points) == 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", label, noDataPlaceholder))
			continue
		}

		color := seriesColors[i%len(seriesColors)]
		latest := AbbreviateNumber(points[len(points)-1].Value)
		if display.Unit != "" {
			latest += " " + display.Unit
		}

		lines = append(lines, fmt.Sprintf("%s: %s%s%s %s", label, color, charter.Chart(points, width), colorReset, latest))
	}

	if len(lines) == 0 {
		return noDataPlaceholder
	}

	return strings.Join(lines, "\n")
}
