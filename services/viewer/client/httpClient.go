package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("viewer/client")

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return fmt.Sprintf("non-2xx HTTP status code: %d", int(e))
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates the dashboard API client used by the renderer refresh loop
func NewHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchMetrics performs the batched metrics query, optionally including history windows
func (c *httpClient) FetchMetrics(ctx context.Context, includeHistory bool) ([]common.MetricEntry, error) {
	historyFlag := "0"
	if includeHistory {
		historyFlag = "1"
	}

	var entries []common.MetricEntry
	err := c.getJSON(ctx, "/api/metrics?history="+historyFlag, &entries)
	if err != nil {
		return nil, err
	}

	log.Trace("fetched metrics", "count", len(entries))

	return entries, nil
}

// FetchClientConfig retrieves the renderer configuration published by the server
func (c *httpClient) FetchClientConfig(ctx context.Context) (common.ClientConfig, error) {
	var cfg common.ClientConfig
	err := c.getJSON(ctx, "/api/client-config", &cfg)
	if err != nil {
		return common.ClientConfig{}, err
	}

	return cfg, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error fetching %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errStatusNotOK(resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *httpClient) IsInterfaceNil() bool {
	return c == nil
}
