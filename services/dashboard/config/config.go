package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// RetentionConfig bounds how much history is kept per metric. Whichever limit is
// reached first evicts the oldest samples.
type RetentionConfig struct {
	MaxAgeSeconds     int `toml:"MaxAgeSeconds"`
	MaxCountPerMetric int `toml:"MaxCountPerMetric"`
}

// EndpointConfig defines a remote JSON endpoint sampled as one metric
type EndpointConfig struct {
	ID          string            `toml:"ID"`
	Name        string            `toml:"Name"`
	Description string            `toml:"Description"`
	Category    string            `toml:"Category"`
	URL         string            `toml:"URL"`
	DisplayType string            `toml:"DisplayType"`
	Unit        string            `toml:"Unit"`
	Values      map[string]string `toml:"Values"` // payload key -> JSON dot-path in the endpoint response
	Series      map[string]string `toml:"Series"` // chart label -> payload key, for timeseries displays
}

// Config maps to the config.toml file for the dashboard service
type Config struct {
	ListenAddress          string           `toml:"ListenAddress"`
	StaticDir              string           `toml:"StaticDir"`
	DatabasePath           string           `toml:"DatabasePath"`
	RefreshIntervalSeconds uint32           `toml:"RefreshIntervalSeconds"`
	SampleIntervalSeconds  uint32           `toml:"SampleIntervalSeconds"`
	CollectTimeoutSeconds  uint32           `toml:"CollectTimeoutSeconds"`
	HistoryPointsLimit     int              `toml:"HistoryPointsLimit"`
	Retention              RetentionConfig  `toml:"Retention"`
	Endpoints              []EndpointConfig `toml:"Endpoints"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
