package query

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// Registry defines the metric catalogue and in-memory cache consumed by the service
type Registry interface {
	// Definitions returns the registered metric definitions in registration order
	Definitions() []common.MetricDefinition

	// CachedSample returns the last good in-memory sample for the metric, or nil
	CachedSample(id string) *common.Sample

	// LastError returns the error recorded by the most recent collection attempt, or nil
	LastError(id string) error

	IsInterfaceNil() bool
}

// Store defines the persisted history reads consumed by the service
type Store interface {
	// Latest returns the most recent sample for the metric, or nil if none exists
	Latest(ctx context.Context, metricID string) (*common.Sample, error)

	// History returns up to limit most recent samples in ascending timestamp order
	History(ctx context.Context, metricID string, limit int) ([]common.Sample, error)

	IsInterfaceNil() bool
}

// Collector defines the collection pass trigger consumed by the service
type Collector interface {
	// Process runs one collection pass, persisting fresh samples
	Process(ctx context.Context)

	IsInterfaceNil() bool
}
