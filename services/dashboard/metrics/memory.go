package metrics

import (
	"context"
	"strconv"
	"strings"

	"github.com/homedash/home-dash/services/dashboard/common"
)

type memoryProvider struct {
	definition common.MetricDefinition
	procRoot   string
}

// NewMemoryProvider creates the provider for the virtual memory and swap usage metric
func NewMemoryProvider() *memoryProvider {
	return &memoryProvider{
		definition: common.MetricDefinition{
			ID:          "memory",
			Name:        "Memory Usage",
			Description: "Virtual memory and swap usage.",
			Category:    "system",
			Display: common.DisplayConfig{
				Type:   common.DisplayTimeseries,
				Series: map[string]string{"Virtual %": "virtual.percent"},
				Unit:   "percent",
			},
		},
		procRoot: defaultProcRoot,
	}
}

// Definition returns the immutable descriptor of the metric
func (provider *memoryProvider) Definition() common.MetricDefinition {
	return provider.definition
}

// Collect reads the current memory figures from /proc/meminfo
func (provider *memoryProvider) Collect(_ context.Context) (map[string]interface{}, error) {
	contents, err := readProcFile(provider.procRoot, "meminfo")
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	values := parseMeminfo(contents)

	total := values["MemTotal"]
	available := values["MemAvailable"]
	free := values["MemFree"]
	used := total - available

	swapTotal := values["SwapTotal"]
	swapFree := values["SwapFree"]
	swapUsed := swapTotal - swapFree

	data := map[string]interface{}{
		"virtual": map[string]interface{}{
			"total":     total,
			"available": available,
			"used":      used,
			"percent":   usagePercent(used, total),
			"free":      free,
		},
		"swap": map[string]interface{}{
			"total":   swapTotal,
			"used":    swapUsed,
			"percent": usagePercent(swapUsed, swapTotal),
			"free":    swapFree,
		},
	}

	return data, nil
}

// parseMeminfo returns the values in bytes, keyed by the meminfo field name
func parseMeminfo(contents string) map[string]uint64 {
	values := make(map[string]uint64)
	for _, line := range strings.Split(contents, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		fields := strings.Fields(parts[1])
		if len(fields) == 0 {
			continue
		}

		val, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			continue
		}

		// meminfo reports kB
		values[strings.TrimSpace(parts[0])] = val * 1024
	}

	return values
}

func usagePercent(used uint64, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return roundPercent(float64(used) / float64(total) * 100)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (provider *memoryProvider) IsInterfaceNil() bool {
	return provider == nil
}
