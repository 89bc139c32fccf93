package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPClient_FetchMetrics(t *testing.T) {
	t.Parallel()

	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/metrics", r.URL.Path)
			require.Equal(t, "0", r.URL.Query().Get("history"))
			_, _ = w.Write([]byte(`[{"definition":{"id":"cpu","name":"CPU Load","description":"","category":"system","display":{"type":"timeseries"}},"latest":null}]`))
		}))
		defer testServer.Close()

		c := NewHTTPClient(testServer.URL, time.Second)
		require.False(t, c.IsInterfaceNil())

		entries, err := c.FetchMetrics(context.Background(), false)
		require.NoError(t, err)
		require.Equal(t, 1, len(entries))
		require.Equal(t, "cpu", entries[0].Definition.ID)
	})
	t.Run("history flag is forwarded", func(t *testing.T) {
		t.Parallel()

		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "1", r.URL.Query().Get("history"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer testServer.Close()

		c := NewHTTPClient(testServer.URL, time.Second)
		_, err := c.FetchMetrics(context.Background(), true)
		require.NoError(t, err)
	})
	t.Run("non-2xx status should error", func(t *testing.T) {
		t.Parallel()

		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer testServer.Close()

		c := NewHTTPClient(testServer.URL, time.Second)
		entries, err := c.FetchMetrics(context.Background(), false)
		require.Nil(t, entries)
		require.Error(t, err)
	})
	t.Run("unreachable server should error", func(t *testing.T) {
		t.Parallel()

		c := NewHTTPClient("http://127.0.0.1:1", time.Second)
		entries, err := c.FetchMetrics(context.Background(), false)
		require.Nil(t, entries)
		require.Error(t, err)
	})
}

func TestHTTPClient_FetchClientConfig(t *testing.T) {
	t.Parallel()

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/client-config", r.URL.Path)
		_, _ = w.Write([]byte(`{"refreshInterval":5,"metrics":[{"id":"cpu","name":"CPU Load","description":"","category":"system","display":{"type":"timeseries"}}]}`))
	}))
	defer testServer.Close()

	c := NewHTTPClient(testServer.URL+"/", time.Second)
	cfg, err := c.FetchClientConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, cfg.RefreshInterval)
	require.Equal(t, 1, len(cfg.Metrics))
}
