package metrics

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// Provider defines the capability of producing one fresh sample of a metric on demand
type Provider interface {
	// Definition returns the immutable descriptor of the metric
	Definition() common.MetricDefinition

	// Collect produces the current structured payload of the metric. It must be safe to
	// call repeatedly and it is bounded by the provided context.
	Collect(ctx context.Context) (map[string]interface{}, error)

	IsInterfaceNil() bool
}
