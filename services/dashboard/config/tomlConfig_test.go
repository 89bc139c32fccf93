package config

import (
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	testString := `
ListenAddress = "0.0.0.0:8080"
StaticDir = "./static"
DatabasePath = "./data/home_dash.db"
RefreshIntervalSeconds = 5
SampleIntervalSeconds = 5
CollectTimeoutSeconds = 10
HistoryPointsLimit = 120

[Retention]
MaxAgeSeconds = 3600
MaxCountPerMetric = 500

[[Endpoints]]
ID = "proxy"
Name = "Proxy status"
Description = "Status reported by the proxy API"
Category = "remote"
URL = "http://127.0.0.1:8079/status"
DisplayType = "json"

[Endpoints.Values]
status = "data.status"
`

	expectedCfg := Config{
		ListenAddress:          "0.0.0.0:8080",
		StaticDir:              "./static",
		DatabasePath:           "./data/home_dash.db",
		RefreshIntervalSeconds: 5,
		SampleIntervalSeconds:  5,
		CollectTimeoutSeconds:  10,
		HistoryPointsLimit:     120,
		Retention: RetentionConfig{
			MaxAgeSeconds:     3600,
			MaxCountPerMetric: 500,
		},
		Endpoints: []EndpointConfig{
			{
				ID:          "proxy",
				Name:        "Proxy status",
				Description: "Status reported by the proxy API",
				Category:    "remote",
				URL:         "http://127.0.0.1:8079/status",
				DisplayType: "json",
				Values: map[string]string{
					"status": "data.status",
				},
			},
		},
	}

	cfg := Config{}

	err := toml.Unmarshal([]byte(testString), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, expectedCfg, cfg)
}
