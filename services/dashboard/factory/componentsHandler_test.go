package factory

import (
	"testing"

	"github.com/homedash/home-dash/services/dashboard/config"
	"github.com/stretchr/testify/require"
)

func createTestConfig() config.Config {
	return config.Config{
		ListenAddress:          "127.0.0.1:0",
		DatabasePath:           ":memory:",
		RefreshIntervalSeconds: 5,
		SampleIntervalSeconds:  0,
		CollectTimeoutSeconds:  5,
		HistoryPointsLimit:     100,
		Retention: config.RetentionConfig{
			MaxAgeSeconds:     0,
			MaxCountPerMetric: 1000,
		},
	}
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("invalid history points limit should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.HistoryPointsLimit = 0
		handler, err := NewComponentsHandler(cfg)
		require.Nil(t, handler)
		require.Error(t, err)
	})
	t.Run("duplicate endpoint id should error", func(t *testing.T) {
		t.Parallel()

		cfg := createTestConfig()
		cfg.Endpoints = []config.EndpointConfig{
			{ID: "cpu", Name: "Shadowing", URL: "http://127.0.0.1:1/metrics"},
		}
		handler, err := NewComponentsHandler(cfg)
		require.Nil(t, handler)
		require.Error(t, err)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		handler, err := NewComponentsHandler(createTestConfig())
		require.NoError(t, err)
		require.NotNil(t, handler)

		require.NotNil(t, handler.GetStore())
		require.NotNil(t, handler.GetRegistry())
		require.NotNil(t, handler.GetQueryService())
		require.NotNil(t, handler.GetServer())

		// the system providers are registered by default
		definitions := handler.GetRegistry().Definitions()
		require.True(t, len(definitions) > 0)
		require.Equal(t, "cpu", definitions[0].ID)

		handler.Close()
	})
}

func TestComponentsHandler_StartAndClose(t *testing.T) {
	t.Parallel()

	handler, err := NewComponentsHandler(createTestConfig())
	require.NoError(t, err)

	handler.Start()
	require.NotEmpty(t, handler.GetServer().Address())

	handler.Close()
	// closing twice should not panic
	handler.Close()
}
