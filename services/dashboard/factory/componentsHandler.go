package factory

import (
	"context"
	"sync"
	"time"

	"github.com/homedash/home-dash/commonGo"
	"github.com/homedash/home-dash/services/dashboard/api"
	"github.com/homedash/home-dash/services/dashboard/collector"
	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/config"
	"github.com/homedash/home-dash/services/dashboard/metrics"
	"github.com/homedash/home-dash/services/dashboard/query"
	"github.com/homedash/home-dash/services/dashboard/registry"
	"github.com/homedash/home-dash/services/dashboard/storage"
)

// Registry defines the registration and catalogue operations used while wiring
type Registry interface {
	Register(provider metrics.Provider) error
	Definitions() []common.MetricDefinition
	IsInterfaceNil() bool
}

type componentsHandler struct {
	store          Store
	registry       Registry
	engine         query.Collector
	queryService   api.QueryService
	server         Server
	mutCancel      sync.Mutex
	cancel         func()
	sampleInterval time.Duration
}

// NewComponentsHandler creates and wires all the dashboard service components
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	store, err := storage.NewSQLiteStore(cfg.DatabasePath, cfg.Retention.MaxAgeSeconds, cfg.Retention.MaxCountPerMetric)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry(
		time.Duration(cfg.RefreshIntervalSeconds)*time.Second,
		time.Duration(cfg.CollectTimeoutSeconds)*time.Second,
	)

	providers := metrics.DefaultProviders()
	for _, endpointCfg := range cfg.Endpoints {
		providers = append(providers, metrics.NewRemoteProvider(endpointCfg, time.Duration(cfg.CollectTimeoutSeconds)*time.Second))
	}

	for _, provider := range providers {
		err = reg.Register(provider)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	engine, err := collector.NewEngine(reg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	queryService, err := query.NewQueryService(query.ArgsQueryService{
		Registry:           reg,
		Store:              store,
		Collector:          engine,
		HistoryPointsLimit: cfg.HistoryPointsLimit,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	clientConfig := common.ClientConfig{
		RefreshInterval: int(cfg.RefreshIntervalSeconds),
		Metrics:         reg.Definitions(),
	}

	serverArgs := api.ArgsWebServer{
		ListenAddress:  cfg.ListenAddress,
		StaticDir:      cfg.StaticDir,
		QueryService:   queryService,
		ClientConfig:   clientConfig,
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:          store,
		registry:       reg,
		engine:         engine,
		queryService:   queryService,
		server:         server,
		sampleInterval: time.Duration(cfg.SampleIntervalSeconds) * time.Second,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Store {
	return ch.store
}

// GetRegistry returns the registry component
func (ch *componentsHandler) GetRegistry() Registry {
	return ch.registry
}

// GetQueryService returns the query service component
func (ch *componentsHandler) GetQueryService() api.QueryService {
	return ch.queryService
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components. When a sample interval is configured, a background
// job pre-warms the cache and keeps history flowing even without incoming queries.
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	ch.server.Start()

	if ch.cancel != nil || ch.sampleInterval <= 0 {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.sampleInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	_ = ch.server.Close()
	_ = ch.store.Close()
}
