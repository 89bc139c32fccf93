package render

// sparklineCharter draws a series as a fixed-width unicode sparkline
type sparklineCharter struct{}

var sparklineLevels = []rune("▁▂▃▄▅▆▇█")

// NewSparklineCharter creates the terminal charter used by default
func NewSparklineCharter() *sparklineCharter {
	return &sparklineCharter{}
}

// Chart renders the points as a single sparkline of at most width runes. Points are
// downsampled by bucketing when they exceed the width.
func (charter *sparklineCharter) Chart(points []Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	values := downsample(points, width)

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	out := make([]rune, 0, len(values))
	span := maxVal - minVal
	for _, v := range values {
		idx := len(sparklineLevels) / 2
		if span > 0 {
			idx = int((v - minVal) / span * float64(len(sparklineLevels)-1))
		}

		out = append(out, sparklineLevels[idx])
	}

	return string(out)
}

func downsample(points []Point, width int) []float64 {
	if len(points) <= width {
		values := make([]float64, 0, len(points))
		for _, p := range points {
			values = append(values, p.Value)
		}

		return values
	}

	values := make([]float64, 0, width)
	bucketSize := float64(len(points)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(points) {
			end = len(points)
		}

		sum := 0.0
		for _, p := range points[start:end] {
			sum += p.Value
		}

		values = append(values, sum/float64(end-start))
	}

	return values
}

// IsInterfaceNil returns true if the value under the interface is nil
func (charter *sparklineCharter) IsInterfaceNil() bool {
	return charter == nil
}
