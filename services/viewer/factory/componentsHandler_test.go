package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/stretchr/testify/require"
)

func createArgs() ArgsComponentsHandler {
	return ArgsComponentsHandler{
		ServerURL: "http://127.0.0.1:8080",
		ClientConfig: common.ClientConfig{
			RefreshInterval: 5,
			Metrics: []common.MetricDefinition{
				{ID: "cpu", Name: "CPU Load"},
			},
		},
	}
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("empty server URL should error", func(t *testing.T) {
		t.Parallel()

		args := createArgs()
		args.ServerURL = ""
		handler, err := NewComponentsHandler(args)
		require.Nil(t, handler)
		require.Error(t, err)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(createArgs())
		require.NoError(t, err)
		require.NotNil(t, handler)
		require.False(t, handler.GetClient().IsInterfaceNil())
		require.False(t, handler.GetRenderer().IsInterfaceNil())
	})
	t.Run("charts disabled still builds", func(t *testing.T) {
		t.Parallel()

		args := createArgs()
		args.ChartsDisabled = true
		handler, err := NewComponentsHandler(args)
		require.NoError(t, err)
		require.NotNil(t, handler)
	})
}

func TestComponentsHandler_SeedFromServer(t *testing.T) {
	t.Parallel()

	requested := false
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		require.Equal(t, "/api/client-config", r.URL.Path)
		_, _ = w.Write([]byte(`{"refreshInterval":5,"metrics":[{"id":"memory","name":"Memory Usage","description":"","category":"system","display":{"type":"json"}}]}`))
	}))
	defer testServer.Close()

	args := createArgs()
	args.ServerURL = testServer.URL
	handler, err := NewComponentsHandler(args)
	require.NoError(t, err)

	handler.SeedFromServer(context.Background())
	require.True(t, requested)
}

func TestComponentsHandler_StartAndClose(t *testing.T) {
	t.Parallel()

	handler, err := NewComponentsHandler(createArgs())
	require.NoError(t, err)

	// closing before start is a no-op, closing twice as well
	handler.Close()
	handler.Close()
}
