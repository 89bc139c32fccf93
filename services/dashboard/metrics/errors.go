package metrics

import "fmt"

// CollectionError signals that one provider failed to produce a sample. It carries the
// metric id so the caller can log and skip the tick without aborting other providers.
type CollectionError struct {
	MetricID string
	Cause    error
}

// NewCollectionError creates a new collection error instance
func NewCollectionError(metricID string, cause error) *CollectionError {
	return &CollectionError{
		MetricID: metricID,
		Cause:    cause,
	}
}

// Error returns the string representation of the error
func (err *CollectionError) Error() string {
	return fmt.Sprintf("collection failed for metric '%s': %v", err.MetricID, err.Cause)
}

// Unwrap returns the underlying cause
func (err *CollectionError) Unwrap() error {
	return err.Cause
}

type errPathNotFound string

func (e errPathNotFound) Error() string {
	return "JSON path not found in response: " + string(e)
}

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return fmt.Sprintf("non-2xx HTTP status code: %d", int(e))
}
