package collector

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/registry"
)

// Registry defines the collection orchestrator consumed by the engine
type Registry interface {
	// CollectAll collects every registered metric, isolating per-provider failures
	CollectAll(ctx context.Context) []registry.CollectResult

	IsInterfaceNil() bool
}

// Store defines the sample persistence consumed by the engine
type Store interface {
	// Append persists a new sample and enforces the count retention bound
	Append(ctx context.Context, sample *common.Sample) error

	IsInterfaceNil() bool
}
