package config

import (
	"encoding/json"
	"os"

	"github.com/homedash/home-dash/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("viewer/config")

const (
	defaultRefreshIntervalSeconds = 5
	minRefreshIntervalSeconds     = 1
)

// LoadClientConfig reads the renderer configuration JSON. A missing or malformed file
// degrades to an empty metric set with the default refresh interval instead of
// refusing to start.
func LoadClientConfig(filepath string) common.ClientConfig {
	cfg := common.ClientConfig{
		RefreshInterval: defaultRefreshIntervalSeconds,
		Metrics:         make([]common.MetricDefinition, 0),
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Debug("client config file not readable, using defaults", "file", filepath, "error", err)
		return cfg
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		log.Warn("malformed client config, starting with an empty metric set", "file", filepath, "error", err)
		return common.ClientConfig{
			RefreshInterval: defaultRefreshIntervalSeconds,
			Metrics:         make([]common.MetricDefinition, 0),
		}
	}

	return Sanitize(cfg)
}

// Sanitize applies the defaults and minimums on a client configuration
func Sanitize(cfg common.ClientConfig) common.ClientConfig {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaultRefreshIntervalSeconds
	}
	if cfg.RefreshInterval < minRefreshIntervalSeconds {
		cfg.RefreshInterval = minRefreshIntervalSeconds
	}
	if cfg.Metrics == nil {
		cfg.Metrics = make([]common.MetricDefinition, 0)
	}

	return cfg
}
