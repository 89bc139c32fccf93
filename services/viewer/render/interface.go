package render

import "time"

// Point is one extracted numeric observation of a series
type Point struct {
	Timestamp time.Time
	Value     float64
}

// Charter defines the charting capability of the rendering environment. When no charter
// is available, timeseries cards degrade to the json display path.
type Charter interface {
	// Chart renders the points as a single line of the given width
	Chart(points []Point, width int) string

	IsInterfaceNil() bool
}
