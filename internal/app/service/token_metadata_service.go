package service

import (
	"context"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"go.uber.org/zap"
)

const (
	defaultTokenDecimals = 18
	unknownTokenSymbol   = "UNKNOWN"
	unknownTokenName     = "Unknown Token"
)

type tokenMetadataServiceImpl struct {
	networks  port.NetworkDefinitionProvider
	clients   port.BlockchainClientProvider
	tokens    port.TokenProvider
	timeout   time.Duration
	fallbacks port.FallbackRecorder
	logger    *zap.Logger
}

// NewTokenMetadataService creates a metadata reader bounded by timeout per lookup.
func NewTokenMetadataService(
	networks port.NetworkDefinitionProvider,
	clients port.BlockchainClientProvider,
	tokens port.TokenProvider,
	timeout time.Duration,
	fallbacks port.FallbackRecorder,
	logger *zap.Logger,
) port.TokenMetadataService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &tokenMetadataServiceImpl{
		networks:  networks,
		clients:   clients,
		tokens:    tokens,
		timeout:   timeout,
		fallbacks: fallbacks,
		logger:    logger.Named("TokenMetadataService"),
	}
}

// Describe reads decimals, symbol and name of a token. Native and wrapped-native
// addresses are answered without I/O.
func (s *tokenMetadataServiceImpl) Describe(ctx context.Context, address string, network string) (entity.Outcome[entity.TokenInfo], error) {
	def, err := lookupNetwork(s.networks, network)
	if err != nil {
		return entity.Outcome[entity.TokenInfo]{}, err
	}

	if isWrappedOrNative(def, address) {
		return entity.Live(entity.TokenInfo{
			ChainID:  def.ChainID,
			Address:  address,
			Name:     "Wrapped " + def.NativeName,
			Symbol:   "W" + def.NativeSymbol,
			Decimals: 18,
		}), nil
	}

	client, err := s.clients.GetClient(ctx, def)
	if err != nil {
		return s.fallback(def, address, err), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := client.ReadTokenMetadata(callCtx, address)
	if err != nil {
		return s.fallback(def, address, err), nil
	}

	info := entity.TokenInfo{
		ChainID:  def.ChainID,
		Address:  address,
		Decimals: res.Decimals,
		Symbol:   res.Symbol,
		Name:     res.Name,
	}
	if res.DecimalsErr != nil {
		info.Decimals = defaultTokenDecimals
	}
	if res.SymbolErr != nil || info.Symbol == "" {
		info.Symbol = unknownTokenSymbol
	}
	if res.NameErr != nil || info.Name == "" {
		info.Name = unknownTokenName
	}
	if res.DecimalsErr != nil || res.SymbolErr != nil || res.NameErr != nil {
		s.logger.Debug("Token metadata partially read",
			zap.String("network", def.Identifier),
			zap.String("token", address),
			zap.NamedError("decimalsErr", res.DecimalsErr),
			zap.NamedError("symbolErr", res.SymbolErr),
			zap.NamedError("nameErr", res.NameErr))
	}
	return entity.Live(info), nil
}

func (s *tokenMetadataServiceImpl) fallback(def entity.NetworkDefinition, address string, cause error) entity.Outcome[entity.TokenInfo] {
	recordFallback(s.fallbacks, "token_metadata")
	s.logger.Warn("Token metadata lookup failed, using fallback",
		zap.String("network", def.Identifier),
		zap.String("token", address),
		zap.Error(cause))

	if known, ok := s.tokens.LookupAddress(def.Identifier, address); ok {
		return entity.Fallback(entity.TokenInfo{
			ChainID:  def.ChainID,
			Address:  address,
			Name:     known.Name,
			Symbol:   known.Symbol,
			Decimals: known.Decimals,
		}, "token metadata read failed, using well-known token table")
	}
	return entity.Fallback(entity.TokenInfo{
		ChainID:  def.ChainID,
		Address:  address,
		Name:     unknownTokenName,
		Symbol:   unknownTokenSymbol,
		Decimals: defaultTokenDecimals,
	}, "token metadata read failed, using generic defaults")
}
