package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	dashCfg "github.com/homedash/home-dash/services/dashboard/config"
	dashFactory "github.com/homedash/home-dash/services/dashboard/factory"
	viewerClient "github.com/homedash/home-dash/services/viewer/client"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("e2e-test")

func TestE2EFlow(t *testing.T) {
	log.Info("======== 1. Start a mock service endpoint the dashboard will sample")
	requestCount := uint64(0)
	mockService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		count := atomic.AddUint64(&requestCount, 1)
		_, _ = w.Write([]byte(fmt.Sprintf(`{"stats": {"active": %d, "total": 2500000}}`, count)))
	}))
	defer mockService.Close()

	log.Info("======== 2. Prepare SQLite path for the dashboard")
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "e2e_sqlite.db")

	log.Info("======== 3. Start the Dashboard Service via componentsHandler")
	dashboardConfig := dashCfg.Config{
		ListenAddress:          "127.0.0.1:0",
		DatabasePath:           dbPath,
		RefreshIntervalSeconds: 1,
		SampleIntervalSeconds:  1,
		CollectTimeoutSeconds:  5,
		HistoryPointsLimit:     100,
		Retention: dashCfg.RetentionConfig{
			MaxAgeSeconds:     3600,
			MaxCountPerMetric: 1000,
		},
		Endpoints: []dashCfg.EndpointConfig{
			{
				ID:          "mock-service",
				Name:        "Mock Service",
				Description: "Stats exposed by the mock service.",
				Category:    "services",
				URL:         mockService.URL,
				DisplayType: common.DisplayTimeseries,
				Unit:        "sessions",
				Values: map[string]string{
					"active": "stats.active",
					"total":  "stats.total",
				},
				Series: map[string]string{"Active": "active"},
			},
		},
	}

	dashboardHandler, err := dashFactory.NewComponentsHandler(dashboardConfig)
	require.NoError(t, err)

	dashboardHandler.Start()
	defer dashboardHandler.Close()

	_, port, err := net.SplitHostPort(dashboardHandler.GetServer().Address())
	require.NoError(t, err)
	dashURL := fmt.Sprintf("http://127.0.0.1:%s", port)

	log.Info("======== 3.1. Wait a moment for server to start")
	time.Sleep(100 * time.Millisecond)

	log.Info("======== 4. Wait for the background sampler to persist some history")
	// samples flow every 1s, 2.5s gives at least 2 persisted points
	time.Sleep(2500 * time.Millisecond)

	log.Info("======== 5. Test the Dashboard API using HTTP calls")
	log.Info("======== 5.a. Fetch Metrics")
	respMetrics, err := http.Get(dashURL + "/api/metrics")
	require.NoError(t, err)
	defer func() {
		_ = respMetrics.Body.Close()
	}()
	require.Equal(t, http.StatusOK, respMetrics.StatusCode)

	var entries []common.MetricEntry
	b, _ := io.ReadAll(respMetrics.Body)
	err = json.Unmarshal(b, &entries)
	require.NoError(t, err)

	log.Info("======== 5.b. Verify the mock service metric is present alongside the system ones")
	require.NotEmpty(t, entries)
	require.Equal(t, "cpu", entries[0].Definition.ID)

	found := false
	for _, entry := range entries {
		if entry.Definition.ID != "mock-service" {
			continue
		}

		found = true
		require.Empty(t, entry.Error)
		require.NotNil(t, entry.Latest)
		require.Equal(t, float64(2500000), gjson.GetBytes(entry.Latest.Data, "total").Float())
		require.True(t, gjson.GetBytes(entry.Latest.Data, "active").Float() >= 1)
	}
	require.True(t, found, "Expected to find the mock-service metric")

	log.Info("======== 5.c. Fetch a single metric")
	respMetric, err := http.Get(dashURL + "/api/metrics/mock-service")
	require.NoError(t, err)
	defer func() {
		_ = respMetric.Body.Close()
	}()
	require.Equal(t, http.StatusOK, respMetric.StatusCode)

	var entry common.MetricEntry
	b, _ = io.ReadAll(respMetric.Body)
	err = json.Unmarshal(b, &entry)
	require.NoError(t, err)
	require.Equal(t, "Mock Service", entry.Definition.Name)
	require.Equal(t, common.DisplayTimeseries, entry.Definition.Display.Type)

	log.Info("======== 5.d. Fetch Metric History")
	respHistory, err := http.Get(dashURL + "/api/metrics/mock-service/history")
	require.NoError(t, err)
	defer func() {
		_ = respHistory.Body.Close()
	}()
	require.Equal(t, http.StatusOK, respHistory.StatusCode)

	var history []common.Sample
	h, _ := io.ReadAll(respHistory.Body)
	err = json.Unmarshal(h, &history)
	require.NoError(t, err)
	require.True(t, len(history) >= 2)

	log.Info("======== 5.e. Verify the history is ascending with distinct counter values")
	for i := 1; i < len(history); i++ {
		require.True(t, history[i].Timestamp.After(history[i-1].Timestamp))
		previous := gjson.GetBytes(history[i-1].Data, "active").Float()
		current := gjson.GetBytes(history[i].Data, "active").Float()
		require.True(t, current > previous)
	}

	log.Info("======== 5.f. Unknown metric returns 404")
	respUnknown, err := http.Get(dashURL + "/api/metrics/does-not-exist")
	require.NoError(t, err)
	defer func() {
		_ = respUnknown.Body.Close()
	}()
	require.Equal(t, http.StatusNotFound, respUnknown.StatusCode)

	log.Info("======== 6. Use the viewer client against the running dashboard")
	apiClient := viewerClient.NewHTTPClient(dashURL, 5*time.Second)

	cfg, err := apiClient.FetchClientConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cfg.RefreshInterval)
	require.Equal(t, "cpu", cfg.Metrics[0].ID)

	fetched, err := apiClient.FetchMetrics(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, len(entries), len(fetched))

	for _, fetchedEntry := range fetched {
		if fetchedEntry.Definition.ID == "mock-service" {
			require.NotEmpty(t, fetchedEntry.History)
		}
	}
}

func TestE2EFlowWithFailingEndpoint(t *testing.T) {
	log.Info("======== 1. Start a mock service that fails after the first sample")
	requestCount := uint64(0)
	mockService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddUint64(&requestCount, 1)
		if count > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stats": {"active": 7}}`))
	}))
	defer mockService.Close()

	log.Info("======== 2. Start the Dashboard Service via componentsHandler")
	dashboardConfig := dashCfg.Config{
		ListenAddress:          "127.0.0.1:0",
		DatabasePath:           filepath.Join(t.TempDir(), "e2e_sqlite.db"),
		RefreshIntervalSeconds: 1,
		SampleIntervalSeconds:  1,
		CollectTimeoutSeconds:  5,
		HistoryPointsLimit:     100,
		Retention: dashCfg.RetentionConfig{
			MaxCountPerMetric: 1000,
		},
		Endpoints: []dashCfg.EndpointConfig{
			{
				ID:     "flaky-service",
				Name:   "Flaky Service",
				URL:    mockService.URL,
				Values: map[string]string{"active": "stats.active"},
			},
		},
	}

	dashboardHandler, err := dashFactory.NewComponentsHandler(dashboardConfig)
	require.NoError(t, err)

	dashboardHandler.Start()
	defer dashboardHandler.Close()

	_, port, err := net.SplitHostPort(dashboardHandler.GetServer().Address())
	require.NoError(t, err)
	dashURL := fmt.Sprintf("http://127.0.0.1:%s", port)

	log.Info("======== 3. Wait for a good sample followed by failing ones")
	time.Sleep(2500 * time.Millisecond)

	log.Info("======== 4. The metric stays present with its stale sample and an error marker")
	respMetrics, err := http.Get(dashURL + "/api/metrics")
	require.NoError(t, err)
	defer func() {
		_ = respMetrics.Body.Close()
	}()
	require.Equal(t, http.StatusOK, respMetrics.StatusCode)

	var entries []common.MetricEntry
	b, _ := io.ReadAll(respMetrics.Body)
	err = json.Unmarshal(b, &entries)
	require.NoError(t, err)

	found := false
	for _, entry := range entries {
		if entry.Definition.ID != "flaky-service" {
			continue
		}

		found = true
		require.NotEmpty(t, entry.Error)
		require.NotNil(t, entry.Latest)
		require.Equal(t, float64(7), gjson.GetBytes(entry.Latest.Data, "active").Float())
	}
	require.True(t, found, "Expected to find the flaky-service metric")
}
