package render

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const abbreviationThreshold = 1000

var magnitudeSuffixes = []struct {
	factor float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// AbbreviateNumber renders large values with a magnitude suffix at two decimal places,
// e.g. 2500000 -> "2.50M". Values below the threshold are rendered verbatim.
func AbbreviateNumber(value float64) string {
	abs := math.Abs(value)
	if abs < abbreviationThreshold {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	for _, magnitude := range magnitudeSuffixes {
		if abs >= magnitude.factor {
			return fmt.Sprintf("%.2f%s", value/magnitude.factor, magnitude.suffix)
		}
	}

	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatTimestamp shows the sample instant in local display time, keeping the exact
// UTC timestamp as supplementary detail
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s (%s UTC)", t.Local().Format("2006-01-02 15:04:05"), t.UTC().Format(time.RFC3339))
}
