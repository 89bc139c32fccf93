package testsCommon

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// QueryServiceStub -
type QueryServiceStub struct {
	MetricsHandler func(ctx context.Context, includeHistory bool) []common.MetricEntry
	MetricHandler  func(ctx context.Context, id string, includeHistory bool, limit int) (common.MetricEntry, error)
	HistoryHandler func(ctx context.Context, id string, limit int) ([]common.Sample, error)
}

// Metrics -
func (stub *QueryServiceStub) Metrics(ctx context.Context, includeHistory bool) []common.MetricEntry {
	if stub.MetricsHandler != nil {
		return stub.MetricsHandler(ctx, includeHistory)
	}

	return make([]common.MetricEntry, 0)
}

// Metric -
func (stub *QueryServiceStub) Metric(ctx context.Context, id string, includeHistory bool, limit int) (common.MetricEntry, error) {
	if stub.MetricHandler != nil {
		return stub.MetricHandler(ctx, id, includeHistory, limit)
	}

	return common.MetricEntry{}, nil
}

// History -
func (stub *QueryServiceStub) History(ctx context.Context, id string, limit int) ([]common.Sample, error) {
	if stub.HistoryHandler != nil {
		return stub.HistoryHandler(ctx, id, limit)
	}

	return make([]common.Sample, 0), nil
}

// IsInterfaceNil -
func (stub *QueryServiceStub) IsInterfaceNil() bool {
	return stub == nil
}
