package testsCommon

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// StoreStub -
type StoreStub struct {
	AppendHandler  func(ctx context.Context, sample *common.Sample) error
	LatestHandler  func(ctx context.Context, metricID string) (*common.Sample, error)
	HistoryHandler func(ctx context.Context, metricID string, limit int) ([]common.Sample, error)
	CloseHandler   func() error
}

// Append -
func (stub *StoreStub) Append(ctx context.Context, sample *common.Sample) error {
	if stub.AppendHandler != nil {
		return stub.AppendHandler(ctx, sample)
	}

	return nil
}

// Latest -
func (stub *StoreStub) Latest(ctx context.Context, metricID string) (*common.Sample, error) {
	if stub.LatestHandler != nil {
		return stub.LatestHandler(ctx, metricID)
	}

	return nil, nil
}

// History -
func (stub *StoreStub) History(ctx context.Context, metricID string, limit int) ([]common.Sample, error) {
	if stub.HistoryHandler != nil {
		return stub.HistoryHandler(ctx, metricID, limit)
	}

	return make([]common.Sample, 0), nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
