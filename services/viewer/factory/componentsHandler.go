package factory

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/homedash/home-dash/commonGo"
	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/viewer/client"
	"github.com/homedash/home-dash/services/viewer/config"
	"github.com/homedash/home-dash/services/viewer/render"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("viewer/factory")

const fetchTimeout = 10 * time.Second

// ArgsComponentsHandler defines the viewer components arguments
type ArgsComponentsHandler struct {
	ServerURL      string
	ClientConfig   common.ClientConfig
	ChartsDisabled bool
}

type componentsHandler struct {
	client          Client
	renderer        Renderer
	refreshInterval time.Duration
	mutCancel       sync.Mutex
	cancel          func()
}

// NewComponentsHandler creates and wires the viewer components
func NewComponentsHandler(args ArgsComponentsHandler) (*componentsHandler, error) {
	if len(args.ServerURL) == 0 {
		return nil, errors.New("empty server URL")
	}

	apiClient := client.NewHTTPClient(args.ServerURL, fetchTimeout)

	var charter render.Charter
	if !args.ChartsDisabled {
		charter = render.NewSparklineCharter()
	}

	renderer, err := render.NewRenderer(render.ArgsRenderer{
		Out:     os.Stdout,
		Charter: charter,
	})
	if err != nil {
		return nil, err
	}

	cfg := config.Sanitize(args.ClientConfig)
	renderer.Seed(cfg.Metrics)

	return &componentsHandler{
		client:          apiClient,
		renderer:        renderer,
		refreshInterval: time.Duration(cfg.RefreshInterval) * time.Second,
	}, nil
}

// GetClient returns the API client component
func (ch *componentsHandler) GetClient() Client {
	return ch.client
}

// GetRenderer returns the renderer component
func (ch *componentsHandler) GetRenderer() Renderer {
	return ch.renderer
}

// Refresh performs one fetch-and-render cycle
func (ch *componentsHandler) Refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	entries, err := ch.client.FetchMetrics(fetchCtx, true)
	if err != nil {
		log.Warn("metrics fetch failed", "error", err)
		ch.renderer.RenderError(err)
		return
	}

	ch.renderer.Render(entries)
}

// SeedFromServer replaces an empty local card set with the server's client config
func (ch *componentsHandler) SeedFromServer(ctx context.Context) {
	cfg, err := ch.client.FetchClientConfig(ctx)
	if err != nil {
		log.Debug("could not fetch client config from server", "error", err)
		return
	}

	if check.IfNil(ch.renderer) {
		return
	}

	ch.renderer.Seed(cfg.Metrics)
}

// Start begins the periodic refresh loop
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.Refresh, ch.refreshInterval)
}

// Close stops the refresh loop
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel == nil {
		return
	}

	ch.cancel()
	ch.cancel = nil
}
