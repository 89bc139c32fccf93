package metrics

import (
	"math"
	"os"
	"path/filepath"
)

const defaultProcRoot = "/proc"

func readProcFile(procRoot string, name string) (string, error) {
	contents, err := os.ReadFile(filepath.Join(procRoot, name))
	if err != nil {
		return "", err
	}

	return string(contents), nil
}

func roundPercent(value float64) float64 {
	return math.Round(value*100) / 100
}
