package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura_gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDEXScreener struct {
	pairs []entity.PairData
	err   error
	calls int
}

func (f *fakeDEXScreener) GetTokenPairsByAddresses(context.Context, string, []string) ([]entity.PairData, error) {
	f.calls++
	return f.pairs, f.err
}

func pair(base, quote, price string, liquidity float64) entity.PairData {
	p := entity.PairData{
		PairAddress: "0xpair" + quote,
		BaseToken:   entity.DEXToken{Address: base, Symbol: "WETH"},
		QuoteToken:  entity.DEXToken{Symbol: quote},
		PriceUsd:    price,
	}
	if liquidity > 0 {
		p.Liquidity = &entity.DEXLiquidity{Usd: liquidity}
	}
	return p
}

func TestGetPriceUSD_PrefersStablecoinPair(t *testing.T) {
	dex := &fakeDEXScreener{pairs: []entity.PairData{
		pair(arbWETH, "ARB", "2601.00", 9_000_000),
		pair(arbWETH, "usdc", "2500.10", 1_000_000),
		pair(arbWETH, "USDT", "2499.90", 2_000_000),
		pair(arbUSDC, "USDT", "1.00", 50_000_000),
		pair(arbWETH, "DAI", "0", 80_000_000),
	}}
	svc := NewTokenPriceService(dex, time.Minute, nopLogger)

	price, err := svc.GetPriceUSD(context.Background(), "arbitrum", arbWETH)
	require.NoError(t, err)
	assert.Equal(t, "2499.90", price)

	again, err := svc.GetPriceUSD(context.Background(), "arbitrum", arbWETH)
	require.NoError(t, err)
	assert.Equal(t, price, again)
	assert.Equal(t, 1, dex.calls)
}

func TestGetPriceUSD_DeepestPairWithoutStablecoin(t *testing.T) {
	dex := &fakeDEXScreener{pairs: []entity.PairData{
		pair(arbWETH, "ARB", "2601.00", 0),
		pair(arbWETH, "GMX", "2590.00", 10_000),
	}}
	price, err := NewTokenPriceService(dex, time.Minute, nopLogger).GetPriceUSD(context.Background(), "arbitrum", arbWETH)
	require.NoError(t, err)
	assert.Equal(t, "2590.00", price)
}

func TestGetPriceUSD_Errors(t *testing.T) {
	svc := NewTokenPriceService(&fakeDEXScreener{}, time.Minute, nopLogger)
	_, err := svc.GetPriceUSD(context.Background(), "arbitrum", arbWETH)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = svc.GetPriceUSD(context.Background(), "", arbWETH)
	assert.ErrorIs(t, err, entity.ErrUnsupportedNetwork)

	svc = NewTokenPriceService(&fakeDEXScreener{err: errors.New("503")}, time.Minute, nopLogger)
	_, err = svc.GetPriceUSD(context.Background(), "arbitrum", arbWETH)
	assert.ErrorIs(t, err, entity.ErrExternalService)
}
