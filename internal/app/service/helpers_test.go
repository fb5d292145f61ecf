package service

import (
	"context"
	"sync"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/app/provider"
	"aura_gateway/internal/config"
	networkdefinition "aura_gateway/internal/infrastructure/network/definition"
	"aura_gateway/internal/infrastructure/store"

	"go.uber.org/zap"
)

const (
	testWallet    = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	arbUSDC       = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	arbWETH       = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	unlistedToken = "0x1111111111111111111111111111111111111111"
	testTxHash    = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
)

var nopLogger = zap.NewNop()

func testNetworks() *networkdefinition.NetworkDefinitionProvider {
	return networkdefinition.NewNetworkDefinitionProvider(nil, nopLogger)
}

func testTokens() port.TokenProvider {
	return provider.NewTokenProvider(networkdefinition.StaticTokens, nil, nil)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func newMemoryStore[V any]() *store.MemoryStore[V] {
	return store.NewMemoryStore[V](time.Hour, time.Hour)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordFallback(component string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[component]++
}

func (r *countingRecorder) count(component string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[component]
}

type fakeRouter struct {
	mu    sync.Mutex
	route port.SwapRoute
	err   error
	last  port.SwapRouteRequest
}

func (f *fakeRouter) Route(_ context.Context, req port.SwapRouteRequest) (port.SwapRoute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	return f.route, f.err
}

type fixedPrices struct {
	price string
	err   error
}

func (p fixedPrices) GetPriceUSD(context.Context, string, string) (string, error) {
	return p.price, p.err
}
