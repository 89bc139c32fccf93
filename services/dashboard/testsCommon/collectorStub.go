package testsCommon

import "context"

// CollectorStub -
type CollectorStub struct {
	ProcessHandler func(ctx context.Context)
}

// Process -
func (stub *CollectorStub) Process(ctx context.Context) {
	if stub.ProcessHandler != nil {
		stub.ProcessHandler(ctx)
	}
}

// IsInterfaceNil -
func (stub *CollectorStub) IsInterfaceNil() bool {
	return stub == nil
}
