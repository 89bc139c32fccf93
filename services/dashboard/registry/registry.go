package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/metrics"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("registry")

// CollectResult is the outcome of one collection attempt for one metric. When the
// provider failed, Sample still carries the last good sample (possibly nil) so callers
// can prefer stale-but-present data over nothing.
type CollectResult struct {
	Definition common.MetricDefinition
	Sample     *common.Sample
	Fresh      bool
	Err        error
}

// metricState guards one provider's cached sample. Its mutex is held across the
// provider call, so concurrent callers for the same metric either wait for the
// in-flight collection or take the cached fast path - the provider is never invoked
// twice inside one refresh interval.
type metricState struct {
	provider      metrics.Provider
	mut           sync.Mutex
	lastSample    *common.Sample
	lastAttempted time.Time
	lastErr       error
}

type registry struct {
	mutProviders    sync.RWMutex
	order           []string
	states          map[string]*metricState
	refreshInterval time.Duration
	collectTimeout  time.Duration
}

// NewRegistry creates an empty metric registry. Repeated collections inside
// refreshInterval reuse the cached sample, collectTimeout bounds each provider call.
func NewRegistry(refreshInterval time.Duration, collectTimeout time.Duration) *registry {
	if refreshInterval < time.Second {
		refreshInterval = time.Second
	}

	return &registry{
		order:           make([]string, 0),
		states:          make(map[string]*metricState),
		refreshInterval: refreshInterval,
		collectTimeout:  collectTimeout,
	}
}

// Register adds a provider, failing without side effects if its metric id is empty or
// already taken
func (r *registry) Register(provider metrics.Provider) error {
	if check.IfNil(provider) {
		return ErrNilProvider
	}

	definition := provider.Definition()
	if len(definition.ID) == 0 {
		return ErrEmptyMetricID
	}

	r.mutProviders.Lock()
	defer r.mutProviders.Unlock()

	_, exists := r.states[definition.ID]
	if exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateMetric, definition.ID)
	}

	r.states[definition.ID] = &metricState{
		provider: provider,
	}
	r.order = append(r.order, definition.ID)

	log.Debug("registered metric provider", "id", definition.ID, "display", definition.Display.Type)

	return nil
}

// Definitions returns the registered metric definitions in registration order
func (r *registry) Definitions() []common.MetricDefinition {
	r.mutProviders.RLock()
	defer r.mutProviders.RUnlock()

	definitions := make([]common.MetricDefinition, 0, len(r.order))
	for _, id := range r.order {
		definitions = append(definitions, r.states[id].provider.Definition())
	}

	return definitions
}

// Get returns the provider registered for the given metric id
func (r *registry) Get(id string) (metrics.Provider, error) {
	r.mutProviders.RLock()
	defer r.mutProviders.RUnlock()

	state, exists := r.states[id]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrMetricNotFound, id)
	}

	return state.provider, nil
}

// CollectAll collects every registered metric concurrently, returning one result per
// provider in registration order. A failing provider only marks its own result.
func (r *registry) CollectAll(ctx context.Context) []CollectResult {
	r.mutProviders.RLock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	r.mutProviders.RUnlock()

	results := make([]CollectResult, len(ids))

	var wg sync.WaitGroup
	wg.Add(len(ids))
	for i, id := range ids {
		go func(idx int, metricID string) {
			defer wg.Done()

			results[idx] = r.collectOne(ctx, metricID)
		}(i, id)
	}
	wg.Wait()

	return results
}

// CollectOne collects (or serves from cache) a single metric
func (r *registry) CollectOne(ctx context.Context, id string) (CollectResult, error) {
	r.mutProviders.RLock()
	_, exists := r.states[id]
	r.mutProviders.RUnlock()
	if !exists {
		return CollectResult{}, fmt.Errorf("%w: '%s'", ErrMetricNotFound, id)
	}

	return r.collectOne(ctx, id), nil
}

func (r *registry) collectOne(ctx context.Context, id string) CollectResult {
	r.mutProviders.RLock()
	state := r.states[id]
	r.mutProviders.RUnlock()

	state.mut.Lock()
	defer state.mut.Unlock()

	definition := state.provider.Definition()
	if time.Since(state.lastAttempted) < r.refreshInterval && !state.lastAttempted.IsZero() {
		return CollectResult{
			Definition: definition,
			Sample:     state.lastSample,
			Fresh:      false,
			Err:        state.lastErr,
		}
	}

	state.lastAttempted = time.Now()

	collectCtx := ctx
	if r.collectTimeout > 0 {
		var cancel context.CancelFunc
		collectCtx, cancel = context.WithTimeout(ctx, r.collectTimeout)
		defer cancel()
	}

	data, err := state.provider.Collect(collectCtx)
	if err != nil {
		state.lastErr = asCollectionError(definition.ID, err)
		log.Warn("metric collection failed", "id", definition.ID, "error", state.lastErr)

		return CollectResult{
			Definition: definition,
			Sample:     state.lastSample,
			Fresh:      false,
			Err:        state.lastErr,
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		state.lastErr = metrics.NewCollectionError(definition.ID, err)

		return CollectResult{
			Definition: definition,
			Sample:     state.lastSample,
			Fresh:      false,
			Err:        state.lastErr,
		}
	}

	timestamp := time.Now().UTC()
	if state.lastSample != nil && !timestamp.After(state.lastSample.Timestamp) {
		// storage order must stay strictly increasing per metric
		timestamp = state.lastSample.Timestamp.Add(time.Nanosecond)
	}

	state.lastSample = &common.Sample{
		MetricID:  definition.ID,
		Timestamp: timestamp,
		Data:      raw,
	}
	state.lastErr = nil

	return CollectResult{
		Definition: definition,
		Sample:     state.lastSample,
		Fresh:      true,
		Err:        nil,
	}
}

// CachedSample returns the last good in-memory sample for the metric, or nil
func (r *registry) CachedSample(id string) *common.Sample {
	r.mutProviders.RLock()
	state, exists := r.states[id]
	r.mutProviders.RUnlock()
	if !exists {
		return nil
	}

	state.mut.Lock()
	defer state.mut.Unlock()

	return state.lastSample
}

// LastError returns the error recorded by the most recent collection attempt, or nil
func (r *registry) LastError(id string) error {
	r.mutProviders.RLock()
	state, exists := r.states[id]
	r.mutProviders.RUnlock()
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrMetricNotFound, id)
	}

	state.mut.Lock()
	defer state.mut.Unlock()

	return state.lastErr
}

func asCollectionError(id string, err error) error {
	collectionErr, ok := err.(*metrics.CollectionError)
	if ok {
		return collectionErr
	}

	return metrics.NewCollectionError(id, err)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *registry) IsInterfaceNil() bool {
	return r == nil
}
