package factory

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// Client defines the dashboard API access used by the refresh loop
type Client interface {
	// FetchMetrics performs the batched metrics query
	FetchMetrics(ctx context.Context, includeHistory bool) ([]common.MetricEntry, error)

	// FetchClientConfig retrieves the renderer configuration published by the server
	FetchClientConfig(ctx context.Context) (common.ClientConfig, error)

	IsInterfaceNil() bool
}

// Renderer defines the per-refresh drawing operations
type Renderer interface {
	// Seed pre-wires the card order before the first fetch
	Seed(definitions []common.MetricDefinition)

	// Render updates the fetched metrics' cards and draws one frame
	Render(entries []common.MetricEntry)

	// RenderError surfaces a total fetch failure without discarding known state
	RenderError(err error)

	IsInterfaceNil() bool
}
