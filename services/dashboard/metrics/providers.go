package metrics

// DefaultProviders returns the built-in system providers in their display order
func DefaultProviders() []Provider {
	return []Provider{
		NewCPUProvider(),
		NewMemoryProvider(),
		NewNetworkProvider(),
		NewDiskProvider(),
	}
}
