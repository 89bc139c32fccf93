package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("query")

// ErrUnknownMetric signals that the requested metric id is not part of the catalogue
var ErrUnknownMetric = errors.New("unknown metric")

// ArgsQueryService defines the query service arguments
type ArgsQueryService struct {
	Registry           Registry
	Store              Store
	Collector          Collector
	HistoryPointsLimit int
}

type queryService struct {
	registry     Registry
	store        Store
	collector    Collector
	historyLimit int
}

// NewQueryService creates a query service that assembles the per-metric API entries
func NewQueryService(args ArgsQueryService) (*queryService, error) {
	if check.IfNil(args.Registry) {
		return nil, errors.New("nil registry")
	}
	if check.IfNil(args.Store) {
		return nil, errors.New("nil store")
	}
	if check.IfNil(args.Collector) {
		return nil, errors.New("nil collector")
	}
	if args.HistoryPointsLimit <= 0 {
		return nil, errors.New("invalid history points limit")
	}

	return &queryService{
		registry:     args.Registry,
		store:        args.Store,
		collector:    args.Collector,
		historyLimit: args.HistoryPointsLimit,
	}, nil
}

// Metrics triggers one collection pass and returns one entry per registered metric, in
// registration order. History windows are attached only when requested.
func (service *queryService) Metrics(ctx context.Context, includeHistory bool) []common.MetricEntry {
	service.collector.Process(ctx)

	definitions := service.registry.Definitions()
	entries := make([]common.MetricEntry, 0, len(definitions))
	for _, definition := range definitions {
		entries = append(entries, service.assembleEntry(ctx, definition, includeHistory, service.historyLimit))
	}

	return entries
}

// Metric returns the entry for a single metric, with an optional history window of up
// to limit samples (clamped to the configured points limit)
func (service *queryService) Metric(ctx context.Context, id string, includeHistory bool, limit int) (common.MetricEntry, error) {
	definition, err := service.findDefinition(id)
	if err != nil {
		return common.MetricEntry{}, err
	}

	service.collector.Process(ctx)

	if limit <= 0 || limit > service.historyLimit {
		limit = service.historyLimit
	}

	return service.assembleEntry(ctx, definition, includeHistory, limit), nil
}

// History returns only the history window for a single metric
func (service *queryService) History(ctx context.Context, id string, limit int) ([]common.Sample, error) {
	_, err := service.findDefinition(id)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > service.historyLimit {
		limit = service.historyLimit
	}

	history, err := service.store.History(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	return history, nil
}

func (service *queryService) findDefinition(id string) (common.MetricDefinition, error) {
	for _, definition := range service.registry.Definitions() {
		if definition.ID == id {
			return definition, nil
		}
	}

	return common.MetricDefinition{}, fmt.Errorf("%w: '%s'", ErrUnknownMetric, id)
}

func (service *queryService) assembleEntry(
	ctx context.Context,
	definition common.MetricDefinition,
	includeHistory bool,
	historyLimit int,
) common.MetricEntry {
	entry := common.MetricEntry{
		Definition: definition,
	}

	latest, err := service.store.Latest(ctx, definition.ID)
	if err != nil {
		// store outage: fall back to the registry's in-memory cache so the metric stays
		// present instead of vanishing from the dashboard
		log.Warn("store unavailable, serving cached sample", "id", definition.ID, "error", err)
		latest = service.registry.CachedSample(definition.ID)
	}
	entry.Latest = latest

	lastErr := service.registry.LastError(definition.ID)
	if lastErr != nil {
		entry.Error = lastErr.Error()
	}

	if includeHistory {
		history, errHistory := service.store.History(ctx, definition.ID, historyLimit)
		if errHistory != nil {
			log.Warn("failed to load history", "id", definition.ID, "error", errHistory)
		} else {
			entry.History = history
		}
	}

	return entry
}

// IsInterfaceNil returns true if the value under the interface is nil
func (service *queryService) IsInterfaceNil() bool {
	return service == nil
}
