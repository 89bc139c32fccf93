package common

import (
	"encoding/json"
	"time"
)

// Display types accepted by the dashboard renderer
const (
	DisplayJSON       = "json"
	DisplayTable      = "table"
	DisplayTimeseries = "timeseries"
)

// DisplayConfig describes how a metric should be rendered on the client
type DisplayConfig struct {
	Type    string                 `json:"type"`
	Series  map[string]string      `json:"series,omitempty"` // chart label -> dotted path in the sample data
	Unit    string                 `json:"unit,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// MetricDefinition is the declarative, immutable identity of a metric provider
type MetricDefinition struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Display     DisplayConfig `json:"display"`
}

// Sample is one timestamped observation of a metric's payload. The data is kept as raw
// JSON so the store and the renderer never need to re-interpret the provider's payload.
type Sample struct {
	MetricID  string          `json:"-"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// MetricEntry is the per-metric element of the /api/metrics response
type MetricEntry struct {
	Definition MetricDefinition `json:"definition"`
	Latest     *Sample          `json:"latest"`
	Error      string           `json:"error,omitempty"`
	History    []Sample         `json:"history,omitempty"`
}

// ClientConfig is the JSON document consumed by the renderer to wire the initial UI
// before the first fetch
type ClientConfig struct {
	RefreshInterval int                `json:"refreshInterval"`
	Metrics         []MetricDefinition `json:"metrics"`
}
