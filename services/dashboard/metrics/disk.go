package metrics

import (
	"context"
	"strconv"
	"strings"
	"syscall"

	"github.com/homedash/home-dash/services/dashboard/common"
)

const diskSectorSize = 512

type diskProvider struct {
	definition common.MetricDefinition
	procRoot   string
}

// NewDiskProvider creates the provider for the per-partition disk usage metric
func NewDiskProvider() *diskProvider {
	return &diskProvider{
		definition: common.MetricDefinition{
			ID:          "disk",
			Name:        "Disk Usage",
			Description: "Disk usage stats per mounted partition.",
			Category:    "system",
			Display: common.DisplayConfig{
				Type: common.DisplayTable,
				Options: map[string]interface{}{
					"columns": []interface{}{"device", "mountpoint", "percent", "used", "free", "total"},
				},
			},
		},
		procRoot: defaultProcRoot,
	}
}

// Definition returns the immutable descriptor of the metric
func (provider *diskProvider) Definition() common.MetricDefinition {
	return provider.definition
}

// Collect gathers usage per physical mount and aggregate IO counters
func (provider *diskProvider) Collect(_ context.Context) (map[string]interface{}, error) {
	contents, err := readProcFile(provider.procRoot, "mounts")
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	partitions := make([]map[string]interface{}, 0)
	for _, line := range strings.Split(contents, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}

		stats, errStat := statMountpoint(fields[1])
		if errStat != nil {
			// mountpoints the process can not stat are skipped, same as unreadable partitions
			continue
		}

		stats["device"] = fields[0]
		stats["mountpoint"] = fields[1]
		stats["fstype"] = fields[2]
		partitions = append(partitions, stats)
	}

	data := map[string]interface{}{
		"partitions": partitions,
		"io":         provider.ioCounters(),
	}

	return data, nil
}

func statMountpoint(mountpoint string) (map[string]interface{}, error) {
	statfs := syscall.Statfs_t{}
	err := syscall.Statfs(mountpoint, &statfs)
	if err != nil {
		return nil, err
	}

	total := statfs.Blocks * uint64(statfs.Bsize)
	free := statfs.Bavail * uint64(statfs.Bsize)
	used := total - free

	return map[string]interface{}{
		"total":   total,
		"used":    used,
		"free":    free,
		"percent": usagePercent(used, total),
	}, nil
}

func (provider *diskProvider) ioCounters() map[string]interface{} {
	counters := map[string]interface{}{
		"read_bytes":  uint64(0),
		"write_bytes": uint64(0),
		"read_count":  uint64(0),
		"write_count": uint64(0),
	}

	contents, err := readProcFile(provider.procRoot, "diskstats")
	if err != nil {
		return counters
	}

	var readBytes, writeBytes, readCount, writeCount uint64
	for _, line := range strings.Split(contents, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}

		// partitions are reported alongside whole devices, counting only devices named
		// without a trailing digit avoids double counting on sdX/vdX layouts
		name := fields[2]
		if len(name) == 0 || name[len(name)-1] >= '0' && name[len(name)-1] <= '9' {
			continue
		}

		reads, _ := strconv.ParseUint(fields[3], 10, 64)
		sectorsRead, _ := strconv.ParseUint(fields[5], 10, 64)
		writes, _ := strconv.ParseUint(fields[7], 10, 64)
		sectorsWritten, _ := strconv.ParseUint(fields[9], 10, 64)

		readCount += reads
		writeCount += writes
		readBytes += sectorsRead * diskSectorSize
		writeBytes += sectorsWritten * diskSectorSize
	}

	counters["read_bytes"] = readBytes
	counters["write_bytes"] = writeBytes
	counters["read_count"] = readCount
	counters["write_count"] = writeCount

	return counters
}

// IsInterfaceNil returns true if the value under the interface is nil
func (provider *diskProvider) IsInterfaceNil() bool {
	return provider == nil
}
