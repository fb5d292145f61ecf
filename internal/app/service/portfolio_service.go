package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	aura         port.AuraClient
	cache        *cache.Cache
	mockFallback bool
	fallbacks    port.FallbackRecorder
	logger       *zap.Logger
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl. AURA responses are
// cached for cacheTTL; with mockFallback set, development data replaces a failed lookup.
func NewPortfolioService(
	aura port.AuraClient,
	cacheTTL time.Duration,
	mockFallback bool,
	fallbacks port.FallbackRecorder,
	logger *zap.Logger,
) port.PortfolioService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &PortfolioServiceImpl{
		aura:         aura,
		cache:        cache.New(cacheTTL, 2*cacheTTL),
		mockFallback: mockFallback,
		fallbacks:    fallbacks,
		logger:       logger.Named("PortfolioService"),
	}
}

// GetPortfolio returns the AURA portfolio of address.
func (s *PortfolioServiceImpl) GetPortfolio(ctx context.Context, address string) (port.PortfolioResult, error) {
	key := "portfolio:" + strings.ToLower(address)
	if cached, ok := s.cache.Get(key); ok {
		return port.PortfolioResult{Portfolio: entity.Live(cached.(entity.WalletPortfolio)), Cached: true}, nil
	}

	portfolio, err := s.aura.GetPortfolio(ctx, address)
	if err != nil {
		if !s.mockFallback {
			return port.PortfolioResult{}, fmt.Errorf("failed to fetch portfolio data: %w", err)
		}
		recordFallback(s.fallbacks, "aura_portfolio")
		s.logger.Warn("AURA portfolio unavailable, serving development data", zap.String("address", address), zap.Error(err))
		return port.PortfolioResult{
			Portfolio: entity.Fallback(mockPortfolio(address), fmt.Sprintf("AURA unavailable: %v", err)),
		}, nil
	}

	s.cache.SetDefault(key, portfolio)
	return port.PortfolioResult{Portfolio: entity.Live(portfolio)}, nil
}

// GetStrategies returns the AURA strategies of address, filtered by risk level and with
// every action enriched for execution.
func (s *PortfolioServiceImpl) GetStrategies(ctx context.Context, address string, filter port.StrategyFilter) (port.StrategyResult, error) {
	key := "strategies:" + strings.ToLower(address)

	var outcome entity.Outcome[entity.StrategyResponse]
	if cached, ok := s.cache.Get(key); ok {
		outcome = entity.Live(cached.(entity.StrategyResponse))
	} else {
		strategies, err := s.aura.GetStrategies(ctx, address)
		switch {
		case err == nil:
			s.cache.SetDefault(key, strategies)
			outcome = entity.Live(strategies)
		case s.mockFallback:
			recordFallback(s.fallbacks, "aura_strategies")
			s.logger.Warn("AURA strategies unavailable, serving development data", zap.String("address", address), zap.Error(err))
			outcome = entity.Fallback(mockStrategies(), fmt.Sprintf("AURA unavailable: %v", err))
		default:
			return port.StrategyResult{}, fmt.Errorf("failed to fetch strategy data: %w", err)
		}
	}

	filtered, total := filterAndEnrich(outcome.Value, filter.RiskLevel)
	outcome.Value = filtered
	s.logger.Debug("Strategies served",
		zap.String("address", address),
		zap.Int("strategyGroups", len(filtered.Strategies)),
		zap.Int("totalStrategies", total))
	return port.StrategyResult{Strategies: outcome, TotalStrategies: total}, nil
}

// filterAndEnrich copies resp, keeping strategies of riskLevel when given.
func filterAndEnrich(resp entity.StrategyResponse, riskLevel string) (entity.StrategyResponse, int) {
	out := entity.StrategyResponse{Strategies: make([]entity.StrategySet, 0, len(resp.Strategies))}
	total := 0
	for _, set := range resp.Strategies {
		kept := make([]entity.Strategy, 0, len(set.Response))
		for _, strategy := range set.Response {
			if riskLevel != "" && strategy.Risk != riskLevel {
				continue
			}
			actions := make([]entity.StrategyAction, len(strategy.Actions))
			for i, action := range strategy.Actions {
				action.ID = "action_" + uuid.NewString()
				action.Executable = true
				action.EstimatedTime = actionEstimatedTime
				action.Complexity = "simple"
				if len(action.Operations) > 1 {
					action.Complexity = "complex"
				}
				actions[i] = action
			}
			strategy.Actions = actions
			kept = append(kept, strategy)
		}
		total += len(kept)
		out.Strategies = append(out.Strategies, entity.StrategySet{LLM: set.LLM, Response: kept})
	}
	return out, total
}

func mockPortfolio(address string) entity.WalletPortfolio {
	return entity.WalletPortfolio{
		Address:       address,
		TotalValueUSD: "2450.75",
		Networks: []entity.NetworkTokens{
			{
				Network: entity.PortfolioNetwork{
					Name:        "Arbitrum One",
					ChainID:     "42161",
					RPCURL:      "https://arb1.arbitrum.io/rpc",
					ExplorerURL: "https://arbiscan.io",
				},
				TotalValueUSD: "1200.50",
				Tokens: []entity.PortfolioToken{{
					Address:    "0xA0b86a33E6441c8C5E7b4E9b4B6A8C5E7b4E9b4B",
					Symbol:     "USDC",
					Balance:    "1200",
					BalanceUSD: "1200.00",
					Network:    "arbitrum",
					Decimals:   6,
					LogoURI:    "https://assets.coingecko.com/coins/images/6319/small/USD_Coin_icon.png",
				}},
			},
			{
				Network: entity.PortfolioNetwork{
					Name:        "Ethereum",
					ChainID:     "1",
					RPCURL:      "https://mainnet.infura.io/v3/YOUR_KEY",
					ExplorerURL: "https://etherscan.io",
				},
				TotalValueUSD: "1250.25",
				Tokens: []entity.PortfolioToken{{
					Address:    entity.ZeroAddress,
					Symbol:     "ETH",
					Balance:    "0.5",
					BalanceUSD: "1250.25",
					Network:    "ethereum",
					Decimals:   18,
				}},
			},
		},
	}
}

func mockStrategies() entity.StrategyResponse {
	return entity.StrategyResponse{Strategies: []entity.StrategySet{{
		LLM: entity.LLMInfo{Provider: "openai", Model: "gpt-4"},
		Response: []entity.Strategy{
			{
				Name:          "Yield Optimization Strategy",
				Risk:          "moderate",
				ExpectedYield: "8.5%",
				Timeframe:     "30 days",
				Description:   "Optimize your portfolio for maximum yield while maintaining moderate risk exposure.",
				Actions: []entity.StrategyAction{
					{
						Tokens:       "USDC, USDT",
						Description:  "Swap 50% of USDC to USDT on Uniswap V3 for better liquidity pool opportunities.",
						Platforms:    []entity.StrategyPlatform{{Name: "Uniswap V3", URL: "https://app.uniswap.org/#/swap"}},
						Networks:     []string{"arbitrum"},
						Operations:   []string{"swap"},
						APY:          "3.5%",
						Risk:         "low",
						EstimatedGas: "0.002 ETH",
						Slippage:     "0.5%",
					},
					{
						Tokens:       "USDC, ETH",
						Description:  "Provide liquidity to USDC/ETH pool on Uniswap V3 for earning fees.",
						Platforms:    []entity.StrategyPlatform{{Name: "Uniswap V3", URL: "https://app.uniswap.org/#/pool"}},
						Networks:     []string{"arbitrum"},
						Operations:   []string{"stake", "liquidity"},
						APY:          "12.3%",
						Risk:         "moderate",
						EstimatedGas: "0.005 ETH",
						Slippage:     "1%",
					},
				},
			},
			{
				Name:          "Cross-Chain Arbitrage",
				Risk:          "high",
				ExpectedYield: "15.2%",
				Timeframe:     "7 days",
				Description:   "Take advantage of price differences across different chains.",
				Actions: []entity.StrategyAction{{
					Tokens:       "ETH",
					Description:  "Bridge ETH from Ethereum to Arbitrum using Stargate for lower fees.",
					Platforms:    []entity.StrategyPlatform{{Name: "Stargate", URL: "https://stargate.finance"}},
					Networks:     []string{"ethereum", "arbitrum"},
					Operations:   []string{"bridge"},
					APY:          "0%",
					Risk:         "low",
					EstimatedGas: "0.01 ETH",
					Slippage:     "0.1%",
				}},
			},
		},
	}}}
}
