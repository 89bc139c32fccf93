package collector

import (
	"context"
	"errors"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("collector")

// collectorEngine runs one collection pass: gather fresh samples and persist them
type collectorEngine struct {
	registry Registry
	store    Store
}

// NewEngine creates a new collector engine instance
func NewEngine(reg Registry, store Store) (*collectorEngine, error) {
	if check.IfNil(reg) {
		return nil, errors.New("nil registry")
	}
	if check.IfNil(store) {
		return nil, errors.New("nil store")
	}

	return &collectorEngine{
		registry: reg,
		store:    store,
	}, nil
}

// Process collects all metrics and persists the samples that are fresh in this pass.
// Cached samples were already persisted when they were produced, persisting them again
// would duplicate history entries. Store failures are logged and skipped, the registry
// cache still holds the value for fallback reads.
func (e *collectorEngine) Process(ctx context.Context) {
	results := e.registry.CollectAll(ctx)

	log.Trace("collection pass finished", "metrics", len(results))

	for _, result := range results {
		if result.Err != nil {
			// already logged by the registry, the per-metric marker reaches the API response
			continue
		}
		if !result.Fresh || result.Sample == nil {
			continue
		}

		err := e.store.Append(ctx, result.Sample)
		if err != nil {
			log.Warn("failed to persist sample", "id", result.Definition.ID, "error", err)
		}
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *collectorEngine) IsInterfaceNil() bool {
	return e == nil
}
