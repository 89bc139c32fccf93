package registry_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/homedash/home-dash/services/dashboard/metrics"
	"github.com/homedash/home-dash/services/dashboard/registry"
	"github.com/homedash/home-dash/services/dashboard/testsCommon"
	"github.com/stretchr/testify/require"
)

func createProviderStub(id string, value float64) *testsCommon.ProviderStub {
	return &testsCommon.ProviderStub{
		DefinitionField: common.MetricDefinition{
			ID:       id,
			Name:     id,
			Category: "test",
			Display:  common.DisplayConfig{Type: common.DisplayJSON},
		},
		CollectHandler: func(_ context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{"value": value}, nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("nil provider should error", func(t *testing.T) {
		t.Parallel()

		r := registry.NewRegistry(time.Second, time.Second)
		err := r.Register(nil)
		require.Equal(t, registry.ErrNilProvider, err)
	})
	t.Run("empty metric id should error", func(t *testing.T) {
		t.Parallel()

		r := registry.NewRegistry(time.Second, time.Second)
		err := r.Register(&testsCommon.ProviderStub{})
		require.Equal(t, registry.ErrEmptyMetricID, err)
	})
	t.Run("duplicate id should error and leave the state unchanged", func(t *testing.T) {
		t.Parallel()

		r := registry.NewRegistry(time.Second, time.Second)
		err := r.Register(createProviderStub("cpu", 1))
		require.NoError(t, err)

		err = r.Register(createProviderStub("cpu", 2))
		require.ErrorIs(t, err, registry.ErrDuplicateMetric)

		definitions := r.Definitions()
		require.Equal(t, 1, len(definitions))
		require.Equal(t, "cpu", definitions[0].ID)
	})
	t.Run("should preserve registration order", func(t *testing.T) {
		t.Parallel()

		r := registry.NewRegistry(time.Second, time.Second)
		require.NoError(t, r.Register(createProviderStub("zz", 1)))
		require.NoError(t, r.Register(createProviderStub("aa", 2)))
		require.NoError(t, r.Register(createProviderStub("mm", 3)))

		definitions := r.Definitions()
		require.Equal(t, []string{"zz", "aa", "mm"}, []string{definitions[0].ID, definitions[1].ID, definitions[2].ID})
	})
}

func TestRegistry_CollectAllCaching(t *testing.T) {
	t.Parallel()

	numCalls := uint32(0)
	provider := createProviderStub("cpu", 42)
	provider.CollectHandler = func(_ context.Context) (map[string]interface{}, error) {
		atomic.AddUint32(&numCalls, 1)
		return map[string]interface{}{"value": 42}, nil
	}

	r := registry.NewRegistry(time.Hour, time.Second)
	require.NoError(t, r.Register(provider))

	results := r.CollectAll(context.Background())
	require.Equal(t, 1, len(results))
	require.True(t, results[0].Fresh)
	require.NoError(t, results[0].Err)
	firstSample := results[0].Sample
	require.NotNil(t, firstSample)

	// second call inside the refresh interval: the provider is not re-invoked and the
	// returned sample is identical
	results = r.CollectAll(context.Background())
	require.False(t, results[0].Fresh)
	require.Equal(t, firstSample, results[0].Sample)
	require.Equal(t, uint32(1), atomic.LoadUint32(&numCalls))
}

func TestRegistry_CollectAllErrorIsolation(t *testing.T) {
	t.Parallel()

	failing := createProviderStub("disk", 0)
	failing.CollectHandler = func(_ context.Context) (map[string]interface{}, error) {
		return nil, errors.New("source unavailable")
	}

	r := registry.NewRegistry(time.Second, time.Second)
	require.NoError(t, r.Register(createProviderStub("cpu", 10)))
	require.NoError(t, r.Register(failing))

	results := r.CollectAll(context.Background())
	require.Equal(t, 2, len(results))

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Sample)

	require.Error(t, results[1].Err)
	var collectionErr *metrics.CollectionError
	require.ErrorAs(t, results[1].Err, &collectionErr)
	require.Equal(t, "disk", collectionErr.MetricID)
	require.Nil(t, results[1].Sample)

	require.Error(t, r.LastError("disk"))
	require.NoError(t, r.LastError("cpu"))
}

func TestRegistry_FailingProviderKeepsStaleSample(t *testing.T) {
	t.Parallel()

	shouldFail := uint32(0)
	provider := createProviderStub("memory", 0)
	provider.CollectHandler = func(_ context.Context) (map[string]interface{}, error) {
		if atomic.LoadUint32(&shouldFail) == 1 {
			return nil, errors.New("transient failure")
		}

		return map[string]interface{}{"value": 7}, nil
	}

	r := registry.NewRegistry(time.Second, time.Second)
	require.NoError(t, r.Register(provider))

	results := r.CollectAll(context.Background())
	goodSample := results[0].Sample
	require.NotNil(t, goodSample)

	atomic.StoreUint32(&shouldFail, 1)
	time.Sleep(1100 * time.Millisecond) // move past the refresh interval

	results = r.CollectAll(context.Background())
	require.Error(t, results[0].Err)
	require.Equal(t, goodSample, results[0].Sample) // stale-but-present
	require.Equal(t, goodSample, r.CachedSample("memory"))
}

func TestRegistry_NoDuplicateInFlightCollections(t *testing.T) {
	t.Parallel()

	numCalls := uint32(0)
	provider := createProviderStub("cpu", 1)
	provider.CollectHandler = func(_ context.Context) (map[string]interface{}, error) {
		atomic.AddUint32(&numCalls, 1)
		time.Sleep(50 * time.Millisecond)
		return map[string]interface{}{"value": 1}, nil
	}

	r := registry.NewRegistry(time.Hour, time.Second)
	require.NoError(t, r.Register(provider))

	var wg sync.WaitGroup
	numConcurrent := 10
	wg.Add(numConcurrent)
	for i := 0; i < numConcurrent; i++ {
		go func() {
			defer wg.Done()
			results := r.CollectAll(context.Background())
			require.NotNil(t, results[0].Sample)
		}()
	}
	wg.Wait()

	require.Equal(t, uint32(1), atomic.LoadUint32(&numCalls))
}

func TestRegistry_CollectOne(t *testing.T) {
	t.Parallel()

	r := registry.NewRegistry(time.Second, time.Second)
	require.NoError(t, r.Register(createProviderStub("cpu", 1)))

	result, err := r.CollectOne(context.Background(), "cpu")
	require.NoError(t, err)
	require.NotNil(t, result.Sample)

	_, err = r.CollectOne(context.Background(), "missing")
	require.ErrorIs(t, err, registry.ErrMetricNotFound)

	_, err = r.Get("missing")
	require.ErrorIs(t, err, registry.ErrMetricNotFound)
}

func TestRegistry_MonotonicTimestamps(t *testing.T) {
	t.Parallel()

	r := registry.NewRegistry(time.Second, time.Second)
	require.NoError(t, r.Register(createProviderStub("cpu", 1)))
	require.False(t, r.IsInterfaceNil())

	first, err := r.CollectOne(context.Background(), "cpu")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	second, err := r.CollectOne(context.Background(), "cpu")
	require.NoError(t, err)
	require.True(t, second.Sample.Timestamp.After(first.Sample.Timestamp))
}
