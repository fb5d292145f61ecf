package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAura struct {
	mu         sync.Mutex
	portfolio  entity.WalletPortfolio
	strategies entity.StrategyResponse
	err        error
	calls      int
}

func (f *fakeAura) GetPortfolio(_ context.Context, _ string) (entity.WalletPortfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.portfolio, f.err
}

func (f *fakeAura) GetStrategies(_ context.Context, _ string) (entity.StrategyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.strategies, f.err
}

func TestGetPortfolio_CachesLiveResult(t *testing.T) {
	aura := &fakeAura{portfolio: entity.WalletPortfolio{Address: testWallet, TotalValueUSD: "10.5"}}
	svc := NewPortfolioService(aura, time.Minute, false, &countingRecorder{}, nopLogger)

	first, err := svc.GetPortfolio(context.Background(), testWallet)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.False(t, first.Portfolio.Degraded())
	assert.Equal(t, entity.FlexString("10.5"), first.Portfolio.Value.TotalValueUSD)

	second, err := svc.GetPortfolio(context.Background(), strings.ToLower(testWallet))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Portfolio.Value, second.Portfolio.Value)
	assert.Equal(t, 1, aura.calls)
}

func TestGetPortfolio_Failure(t *testing.T) {
	aura := &fakeAura{err: errors.New("both endpoints failed")}

	_, err := NewPortfolioService(aura, time.Minute, false, nil, nopLogger).GetPortfolio(context.Background(), testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch portfolio data")

	rec := &countingRecorder{}
	res, err := NewPortfolioService(aura, time.Minute, true, rec, nopLogger).GetPortfolio(context.Background(), testWallet)
	require.NoError(t, err)
	assert.True(t, res.Portfolio.Degraded())
	assert.Equal(t, testWallet, res.Portfolio.Value.Address)
	assert.Len(t, res.Portfolio.Value.Networks, 2)
	assert.Equal(t, 1, rec.count("aura_portfolio"))
}

func TestGetStrategies_FilterAndEnrich(t *testing.T) {
	aura := &fakeAura{strategies: mockStrategies()}
	svc := NewPortfolioService(aura, time.Minute, false, nil, nopLogger)

	all, err := svc.GetStrategies(context.Background(), testWallet, port.StrategyFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalStrategies)
	assert.False(t, all.Strategies.Degraded())

	actions := all.Strategies.Value.Strategies[0].Response[0].Actions
	require.Len(t, actions, 2)
	for _, a := range actions {
		assert.True(t, strings.HasPrefix(a.ID, "action_"))
		assert.True(t, a.Executable)
		assert.Equal(t, "2-5 minutes", a.EstimatedTime)
	}
	assert.Equal(t, "simple", actions[0].Complexity)
	assert.Equal(t, "complex", actions[1].Complexity)

	high, err := svc.GetStrategies(context.Background(), testWallet, port.StrategyFilter{RiskLevel: "high"})
	require.NoError(t, err)
	assert.Equal(t, 1, high.TotalStrategies)
	assert.Equal(t, "Cross-Chain Arbitrage", high.Strategies.Value.Strategies[0].Response[0].Name)

	low, err := svc.GetStrategies(context.Background(), testWallet, port.StrategyFilter{RiskLevel: "low"})
	require.NoError(t, err)
	assert.Zero(t, low.TotalStrategies)
	require.Len(t, low.Strategies.Value.Strategies, 1)
	assert.Empty(t, low.Strategies.Value.Strategies[0].Response)

	assert.Equal(t, 1, aura.calls)
	// enrichment works on a copy, the cached payload stays untouched
	cached := aura.strategies.Strategies[0].Response[0].Actions[0]
	assert.Empty(t, cached.ID)
}

func TestGetStrategies_MockFallback(t *testing.T) {
	aura := &fakeAura{err: errors.New("timeout")}
	rec := &countingRecorder{}

	res, err := NewPortfolioService(aura, time.Minute, true, rec, nopLogger).GetStrategies(context.Background(), testWallet, port.StrategyFilter{RiskLevel: "moderate"})
	require.NoError(t, err)
	assert.True(t, res.Strategies.Degraded())
	assert.Equal(t, 1, res.TotalStrategies)
	assert.Equal(t, 1, rec.count("aura_strategies"))

	_, err = NewPortfolioService(aura, time.Minute, false, nil, nopLogger).GetStrategies(context.Background(), testWallet, port.StrategyFilter{})
	assert.ErrorContains(t, err, "failed to fetch strategy data")
}
