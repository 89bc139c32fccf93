package api

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// QueryService defines the interface for assembling the per-metric API responses
type QueryService interface {
	// Metrics returns one entry per registered metric, in registration order, with
	// history windows attached only when requested
	Metrics(ctx context.Context, includeHistory bool) []common.MetricEntry

	// Metric returns the entry for a single metric or an unknown-metric error
	Metric(ctx context.Context, id string, includeHistory bool, limit int) (common.MetricEntry, error)

	// History returns only the history window for a single metric
	History(ctx context.Context, id string, limit int) ([]common.Sample, error)

	IsInterfaceNil() bool
}
