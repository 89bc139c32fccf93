package testsCommon

import (
	"context"

	"github.com/homedash/home-dash/services/dashboard/common"
)

// ProviderStub -
type ProviderStub struct {
	DefinitionField common.MetricDefinition
	CollectHandler  func(ctx context.Context) (map[string]interface{}, error)
}

// Definition -
func (stub *ProviderStub) Definition() common.MetricDefinition {
	return stub.DefinitionField
}

// Collect -
func (stub *ProviderStub) Collect(ctx context.Context) (map[string]interface{}, error) {
	if stub.CollectHandler != nil {
		return stub.CollectHandler(ctx)
	}

	return make(map[string]interface{}), nil
}

// IsInterfaceNil -
func (stub *ProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
