package factory

import (
	"github.com/homedash/home-dash/services/dashboard/collector"
	"github.com/homedash/home-dash/services/dashboard/query"
)

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start()
	Address() string
	Close() error
}

// Store groups the sample store operations used by the components handler
type Store interface {
	query.Store
	collector.Store
	Close() error
}
