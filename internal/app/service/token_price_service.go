package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/httpclient"
	"aura_gateway/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	stablecoinUSDCSymbol = "USDC"
	stablecoinUSDTSymbol = "USDT"
	stablecoinDAISymbol  = "DAI"
)

var stablecoinSymbols = map[string]struct{}{
	stablecoinUSDCSymbol: {},
	stablecoinUSDTSymbol: {},
	stablecoinDAISymbol:  {},
}

// tokenPriceServiceImpl implements port.TokenPriceService
type tokenPriceServiceImpl struct {
	dexscreenerClient httpclient.DEXScreenerClient
	logger            *zap.Logger
	cachedPrices      *cache.Cache
}

// NewTokenPriceService creates a new instance of tokenPriceServiceImpl.
func NewTokenPriceService(dsc httpclient.DEXScreenerClient, cacheTTL time.Duration, logger *zap.Logger) port.TokenPriceService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &tokenPriceServiceImpl{
		dexscreenerClient: dsc,
		logger:            logger.Named("TokenPriceService"),
		cachedPrices:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetPriceUSD returns the USD price of a token, served from the cache while fresh.
func (s *tokenPriceServiceImpl) GetPriceUSD(ctx context.Context, dexScreenerChainID string, tokenAddress string) (string, error) {
	if dexScreenerChainID == "" {
		return "", fmt.Errorf("%w: network has no DEX Screener chain id", entity.ErrUnsupportedNetwork)
	}
	key := dexScreenerChainID + ":" + strings.ToLower(tokenAddress)
	if cached, ok := s.cachedPrices.Get(key); ok {
		return cached.(string), nil
	}

	pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(ctx, dexScreenerChainID, []string{tokenAddress})
	if err != nil {
		s.logger.Warn("Failed to get token pairs from DEXScreener",
			zap.String("dexScreenerID", dexScreenerChainID),
			zap.String("tokenAddress", tokenAddress),
			zap.Error(err))
		return "", fmt.Errorf("%w: failed to get token price: %v", entity.ErrExternalService, err)
	}

	price := s.selectBestPriceFromPairs(pairs, tokenAddress)
	if price == "" {
		return "", fmt.Errorf("%w: no price for token %s on %s", entity.ErrNotFound, tokenAddress, dexScreenerChainID)
	}

	s.cachedPrices.SetDefault(key, price)
	s.logger.Debug("Cached price for token",
		zap.String("dexScreenerID", dexScreenerChainID),
		zap.String("tokenAddress", tokenAddress),
		zap.String("priceUSD", price))
	return price, nil
}

// selectBestPriceFromPairs prefers the deepest stablecoin-quoted pair, then the deepest pair overall.
func (s *tokenPriceServiceImpl) selectBestPriceFromPairs(pairs []entity.PairData, baseTokenAddress string) string {
	if len(pairs) == 0 {
		return ""
	}

	var bestOverallPair *entity.PairData
	var bestStablecoinPair *entity.PairData

	deeper := func(a, b *entity.PairData) bool {
		return utils.SafeDerefFloat64(a.Liquidity, func(l entity.DEXLiquidity) float64 { return l.Usd }) >
			utils.SafeDerefFloat64(b.Liquidity, func(l entity.DEXLiquidity) float64 { return l.Usd })
	}

	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseTokenAddress) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		if _, isStablecoin := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; isStablecoin {
			if bestStablecoinPair == nil || deeper(pair, bestStablecoinPair) {
				bestStablecoinPair = pair
			}
		}
		if bestOverallPair == nil || deeper(pair, bestOverallPair) {
			bestOverallPair = pair
		}
	}

	if bestStablecoinPair != nil {
		s.logger.Debug("Selected best price from stablecoin pair",
			zap.String("baseTokenAddress", baseTokenAddress),
			zap.String("pairAddress", bestStablecoinPair.PairAddress),
			zap.String("priceUsd", bestStablecoinPair.PriceUsd),
			zap.String("quoteToken", bestStablecoinPair.QuoteToken.Symbol))
		return bestStablecoinPair.PriceUsd
	}

	if bestOverallPair != nil {
		s.logger.Debug("Selected best price from overall highest liquidity pair",
			zap.String("baseTokenAddress", baseTokenAddress),
			zap.String("pairAddress", bestOverallPair.PairAddress),
			zap.String("priceUsd", bestOverallPair.PriceUsd),
			zap.String("quoteToken", bestOverallPair.QuoteToken.Symbol))
		return bestOverallPair.PriceUsd
	}

	s.logger.Warn("No suitable price found from pairs",
		zap.String("baseTokenAddress", baseTokenAddress),
		zap.Int("evaluatedPairCount", len(pairs)))
	return ""
}
