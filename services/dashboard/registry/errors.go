package registry

import "errors"

// ErrDuplicateMetric signals that two providers declared the same metric id
var ErrDuplicateMetric = errors.New("metric is already registered")

// ErrMetricNotFound signals that the requested metric id is not registered
var ErrMetricNotFound = errors.New("metric is not registered")

// ErrNilProvider signals that a nil provider was provided
var ErrNilProvider = errors.New("nil provider")

// ErrEmptyMetricID signals that a provider declared an empty metric id
var ErrEmptyMetricID = errors.New("empty metric id")
