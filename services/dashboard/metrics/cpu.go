package metrics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
)

const cpuSampleWindow = 100 * time.Millisecond

type cpuTimes struct {
	busy  uint64
	total uint64
}

type cpuProvider struct {
	definition common.MetricDefinition
	procRoot   string
}

// NewCPUProvider creates the provider for the host CPU utilisation metric
func NewCPUProvider() *cpuProvider {
	return &cpuProvider{
		definition: common.MetricDefinition{
			ID:          "cpu",
			Name:        "CPU Load",
			Description: "Current CPU utilisation across cores.",
			Category:    "system",
			Display: common.DisplayConfig{
				Type:   common.DisplayTimeseries,
				Series: map[string]string{"Total %": "percent_total"},
				Unit:   "percent",
			},
		},
		procRoot: defaultProcRoot,
	}
}

// Definition returns the immutable descriptor of the metric
func (provider *cpuProvider) Definition() common.MetricDefinition {
	return provider.definition
}

// Collect computes per-core and total utilisation over a short sampling window
func (provider *cpuProvider) Collect(ctx context.Context) (map[string]interface{}, error) {
	first, err := provider.readCPUTimes()
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	select {
	case <-ctx.Done():
		return nil, NewCollectionError(provider.definition.ID, ctx.Err())
	case <-time.After(cpuSampleWindow):
	}

	second, err := provider.readCPUTimes()
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	perCore := make([]float64, 0, len(second)-1)
	total := 0.0
	for key, after := range second {
		before, found := first[key]
		if !found {
			continue
		}

		percent := busyPercent(before, after)
		if key == "cpu" {
			total = percent
			continue
		}

		perCore = append(perCore, percent)
	}

	data := map[string]interface{}{
		"logical_cores":    len(perCore),
		"physical_cores":   provider.physicalCores(),
		"percent_total":    total,
		"percent_per_core": perCore,
		"load_average":     provider.loadAverage(),
	}

	return data, nil
}

func (provider *cpuProvider) readCPUTimes() (map[string]cpuTimes, error) {
	contents, err := readProcFile(provider.procRoot, "stat")
	if err != nil {
		return nil, err
	}

	times := make(map[string]cpuTimes)
	for _, line := range strings.Split(contents, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || !strings.HasPrefix(fields[0], "cpu") {
			continue
		}

		var total, idle uint64
		for i := 1; i < len(fields); i++ {
			val, errParse := strconv.ParseUint(fields[i], 10, 64)
			if errParse != nil {
				return nil, fmt.Errorf("malformed cpu stat line '%s': %w", line, errParse)
			}

			total += val
			// fields 4 and 5 are idle and iowait
			if i == 4 || i == 5 {
				idle += val
			}
		}

		times[fields[0]] = cpuTimes{
			busy:  total - idle,
			total: total,
		}
	}

	return times, nil
}

func (provider *cpuProvider) physicalCores() int {
	contents, err := readProcFile(provider.procRoot, "cpuinfo")
	if err != nil {
		return 0
	}

	type coreKey struct {
		physicalID string
		coreID     string
	}

	cores := make(map[coreKey]struct{})
	current := coreKey{}
	for _, line := range strings.Split(contents, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch key {
		case "physical id":
			current.physicalID = value
		case "core id":
			current.coreID = value
			cores[current] = struct{}{}
		}
	}

	return len(cores)
}

func (provider *cpuProvider) loadAverage() []float64 {
	contents, err := readProcFile(provider.procRoot, "loadavg")
	if err != nil {
		return nil
	}

	fields := strings.Fields(contents)
	if len(fields) < 3 {
		return nil
	}

	loads := make([]float64, 0, 3)
	for _, field := range fields[:3] {
		val, errParse := strconv.ParseFloat(field, 64)
		if errParse != nil {
			return nil
		}

		loads = append(loads, val)
	}

	return loads
}

func busyPercent(before cpuTimes, after cpuTimes) float64 {
	deltaTotal := float64(after.total) - float64(before.total)
	if deltaTotal <= 0 {
		return 0
	}

	deltaBusy := float64(after.busy) - float64(before.busy)
	if deltaBusy < 0 {
		deltaBusy = 0
	}

	return roundPercent(deltaBusy / deltaTotal * 100)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (provider *cpuProvider) IsInterfaceNil() bool {
	return provider == nil
}
