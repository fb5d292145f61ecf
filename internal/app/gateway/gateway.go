// Package gateway wires the application services from configuration.
package gateway

import (
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/app/provider"
	"aura_gateway/internal/app/service"
	"aura_gateway/internal/client"
	"aura_gateway/internal/config"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/metrics"
	evmclient "aura_gateway/internal/infrastructure/network/client"
	networkdefinition "aura_gateway/internal/infrastructure/network/definition"
	"aura_gateway/internal/infrastructure/router"
	"aura_gateway/internal/infrastructure/store"
	"aura_gateway/internal/infrastructure/tokenloader"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Gateway holds the wired services.
type Gateway struct {
	Networks  *networkdefinition.NetworkDefinitionProvider
	Tokens    port.TokenProvider
	Resolver  port.TokenResolver
	Metadata  port.TokenMetadataService
	Fees      port.FeeEstimator
	Portfolio port.PortfolioService
	Actions   port.ActionService
	Transfers port.TransferService
	Signing   port.SigningService
	Chat      port.ChatService

	ChatEnabled bool
}

// New builds every service. m may be nil.
func New(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Gateway, error) {
	networks := networkdefinition.NewNetworkDefinitionProvider(cfg.Networks, logger)

	loaderLog := logger.Named("TokenLoader").Sugar()
	loader := tokenloader.NewTokenLoader(cfg.Tokens.Directory, loaderLog.Infow, loaderLog.Warnw)
	loaded, err := loader.GetTokensByNetwork(networks.GetAllNetworkDefinitions())
	if err != nil {
		logger.Warn("Token list directory unreadable, using built-in tokens only", zap.Error(err))
		loaded = nil
	}
	tokens := provider.NewTokenProvider(networkdefinition.StaticTokens, loaded, logger)

	clients := evmclient.NewEVMClientProvider(
		time.Duration(cfg.RpcClient.DialTimeoutMs)*time.Millisecond,
		time.Duration(cfg.RpcClient.DefaultTimeoutMs)*time.Millisecond,
		logger,
	)

	dexScreener := client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		rate.NewLimiter(rate.Limit(cfg.DEXScreener.RateLimitPerSecond), cfg.DEXScreener.RateLimitBurst),
		logger,
		0,
	)
	prices := service.NewTokenPriceService(dexScreener, time.Duration(cfg.TokenPriceSvc.CacheTTLMinutes)*time.Minute, logger)

	resolver := service.NewTokenResolver(networks, tokens)
	metadata := service.NewTokenMetadataService(networks, clients, tokens,
		time.Duration(cfg.RpcClient.MetadataTimeoutMs)*time.Millisecond, m, logger)
	swaps := service.NewSwapBuilder(networks, resolver, metadata, router.NewUniswapV3Router(clients, logger), m, logger)
	builder := service.NewTxBuilder(networks, resolver, metadata, m, logger)
	fees := service.NewFeeEstimator(networks, clients, prices, cfg, m, logger)
	balances := service.NewBalanceService(networks, clients, logger)

	aura := client.NewAuraClient(
		cfg.Aura.BaseURLs,
		cfg.Aura.APIKey,
		time.Duration(cfg.Aura.CandidateTimeoutMs)*time.Millisecond,
		rate.NewLimiter(rate.Limit(cfg.Aura.RateLimitPerSecond), cfg.Aura.RateLimitBurst),
		m,
		logger,
	)
	portfolio := service.NewPortfolioService(aura, time.Duration(cfg.Aura.CacheTTLSeconds)*time.Second,
		cfg.Aura.UseMockFallback(), m, logger)

	ttl := time.Duration(cfg.Store.ActionTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.Store.CleanupIntervalMinutes) * time.Minute
	actions := service.NewActionService(networks, swaps, builder, fees,
		store.NewMemoryStore[entity.ActionRecord](ttl, cleanup), ttl, logger)
	transfers := service.NewTransferService(networks, clients, builder, fees, balances,
		store.NewMemoryStore[entity.TransferRecord](ttl, cleanup), ttl, logger)
	signing := service.NewSigningService(networks, clients, actions, builder, fees,
		store.NewMemoryStore[entity.SignSession](ttl, cleanup), ttl, logger)

	var messages service.MessageCreator
	if cfg.Chat.APIKey != "" {
		anthropicClient := anthropic.NewClient(option.WithAPIKey(cfg.Chat.APIKey))
		messages = &anthropicClient.Messages
	} else {
		logger.Warn("Chat API key not set, /chat will answer 503")
	}
	chat := service.NewChatService(messages, cfg.Chat.Model, cfg.Chat.MaxTokens, cfg.Chat.MaxToolTurns,
		portfolio, actions, transfers, fees, logger)

	return &Gateway{
		Networks:    networks,
		Tokens:      tokens,
		Resolver:    resolver,
		Metadata:    metadata,
		Fees:        fees,
		Portfolio:   portfolio,
		Actions:     actions,
		Transfers:   transfers,
		Signing:     signing,
		Chat:        chat,
		ChatEnabled: messages != nil,
	}, nil
}
