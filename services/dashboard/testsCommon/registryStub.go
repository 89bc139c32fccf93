package testsCommon

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/registry"
)

// RegistryStub -
type RegistryStub struct {
	DefinitionsHandler  func() []common.MetricDefinition
	CachedSampleHandler func(id string) *common.Sample
	LastErrorHandler    func(id string) error
	CollectAllHandler   func(ctx context.Context) []registry.CollectResult
}

// Definitions -
func (stub *RegistryStub) Definitions() []common.MetricDefinition {
	if stub.DefinitionsHandler != nil {
		return stub.DefinitionsHandler()
	}

	return make([]common.MetricDefinition, 0)
}

// CachedSample -
func (stub *RegistryStub) CachedSample(id string) *common.Sample {
	if stub.CachedSampleHandler != nil {
		return stub.CachedSampleHandler(id)
	}

	return nil
}

// LastError -
func (stub *RegistryStub) LastError(id string) error {
	if stub.LastErrorHandler != nil {
		return stub.LastErrorHandler(id)
	}

	return nil
}

// CollectAll -
func (stub *RegistryStub) CollectAll(ctx context.Context) []registry.CollectResult {
	if stub.CollectAllHandler != nil {
		return stub.CollectAllHandler(ctx)
	}

	return make([]registry.CollectResult, 0)
}

// IsInterfaceNil -
func (stub *RegistryStub) IsInterfaceNil() bool {
	return stub == nil
}
