package metrics

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/config"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("metrics")

type remoteProvider struct {
	definition common.MetricDefinition
	url        string
	values     map[string]string
	client     *http.Client
}

// NewRemoteProvider creates a provider that samples a remote JSON endpoint, extracting
// the configured dot-paths into the metric payload
func NewRemoteProvider(cfg config.EndpointConfig, timeout time.Duration) *remoteProvider {
	displayType := cfg.DisplayType
	if displayType == "" {
		displayType = common.DisplayJSON
	}

	return &remoteProvider{
		definition: common.MetricDefinition{
			ID:          cfg.ID,
			Name:        cfg.Name,
			Description: cfg.Description,
			Category:    cfg.Category,
			Display: common.DisplayConfig{
				Type:   displayType,
				Series: cfg.Series,
				Unit:   cfg.Unit,
			},
		},
		url:    cfg.URL,
		values: cfg.Values,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Definition returns the immutable descriptor of the metric
func (provider *remoteProvider) Definition() common.MetricDefinition {
	return provider.definition
}

// Collect performs one HTTP GET on the configured endpoint and extracts exactly the
// configured JSON sub-paths. Paths missing from the response are skipped with a warning;
// the call fails only if none of them resolve.
func (provider *remoteProvider) Collect(ctx context.Context) (map[string]interface{}, error) {
	body, err := provider.fetch(ctx)
	if err != nil {
		return nil, NewCollectionError(provider.definition.ID, err)
	}

	data := make(map[string]interface{}, len(provider.values))
	for key, path := range provider.values {
		result := gjson.GetBytes(body, path)
		if !result.Exists() {
			log.Warn("endpoint value path missing", "metric", provider.definition.ID, "path", path)
			continue
		}

		data[key] = result.Value()
	}

	if len(data) == 0 && len(provider.values) > 0 {
		return nil, NewCollectionError(provider.definition.ID, errPathNotFound(provider.url))
	}

	return data, nil
}

func (provider *remoteProvider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := provider.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (provider *remoteProvider) IsInterfaceNil() bool {
	return provider == nil
}
