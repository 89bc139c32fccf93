package metrics

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/homedash/home-dash/services/dashboard/common"
)

type networkProvider struct {
	definition common.MetricDefinition
	procRoot   string
}

// NewNetworkProvider creates the provider for the network throughput metric
func NewNetworkProvider() *networkProvider {
	return &networkProvider{
		definition: common.MetricDefinition{
			ID:          "network",
			Name:        "Network I/O",
			Description: "Network throughput statistics since boot.",
			Category:    "system",
			Display: common.DisplayConfig{
				Type: common.DisplayTimeseries,
				Series: map[string]string{
					"Bytes Sent":     "totals.bytes_sent",
					"Bytes Received": "totals.bytes_recv",
				},
				Unit: "bytes",
			},
		},
		procRoot: defaultProcRoot,
	}
}

// Definition returns the immutable descriptor of the metric
func (provider *networkProvider) Definition() common.MetricDefinition {
	return provider.definition
}

// Collect reads the per-interface counters from /proc/net/dev
func (provider *networkProvider) Collect(_ context.Context) (map[string]interface{}, error) {
	contents, err := readProcFile(provider.procRoot, "net/dev")
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	interfaces := make([]map[string]interface{}, 0)
	var totalBytesSent, totalBytesRecv, totalPacketsSent, totalPacketsRecv uint64

	for _, line := range strings.Split(contents, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}

		fields := strings.Fields(parts[1])
		if len(fields) < 16 {
			continue
		}

		bytesRecv, _ := strconv.ParseUint(fields[0], 10, 64)
		packetsRecv, _ := strconv.ParseUint(fields[1], 10, 64)
		errIn, _ := strconv.ParseUint(fields[2], 10, 64)
		dropIn, _ := strconv.ParseUint(fields[3], 10, 64)
		bytesSent, _ := strconv.ParseUint(fields[8], 10, 64)
		packetsSent, _ := strconv.ParseUint(fields[9], 10, 64)
		errOut, _ := strconv.ParseUint(fields[10], 10, 64)
		dropOut, _ := strconv.ParseUint(fields[11], 10, 64)

		interfaces = append(interfaces, map[string]interface{}{
			"interface":    strings.TrimSpace(parts[0]),
			"bytes_sent":   bytesSent,
			"bytes_recv":   bytesRecv,
			"packets_sent": packetsSent,
			"packets_recv": packetsRecv,
			"errin":        errIn,
			"errout":       errOut,
			"dropin":       dropIn,
			"dropout":      dropOut,
		})

		totalBytesSent += bytesSent
		totalBytesRecv += bytesRecv
		totalPacketsSent += packetsSent
		totalPacketsRecv += packetsRecv
	}

	hostname, _ := os.Hostname()
	data := map[string]interface{}{
		"hostname":   hostname,
		"interfaces": interfaces,
		"totals": map[string]interface{}{
			"bytes_sent":   totalBytesSent,
			"bytes_recv":   totalBytesRecv,
			"packets_sent": totalPacketsSent,
			"packets_recv": totalPacketsRecv,
		},
	}

	return data, nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (provider *networkProvider) IsInterfaceNil() bool {
	return provider == nil
}
