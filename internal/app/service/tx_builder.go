package service

import (
	"context"
	"fmt"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/contracts"

	"go.uber.org/zap"
)

// StargateRouterAddress is the target of the unimplemented bridge transaction.
const StargateRouterAddress = "0x53Bf833A5d6c4ddA888F69c22C88C9f356a41614"

// placeholderStakeContracts are staking targets without calldata support.
var placeholderStakeContracts = map[string]string{
	"uniswap":  "0x1f98431c8ad98523631ae4a59f267346ea31f984",
	"compound": "0x3d9819210A31b4961b30EF54bE2aeD79B9c9Cd3B",
}

type txBuilderImpl struct {
	networks  port.NetworkDefinitionProvider
	resolver  port.TokenResolver
	metadata  port.TokenMetadataService
	fallbacks port.FallbackRecorder
	logger    *zap.Logger
}

// NewTxBuilder creates the transfer, stake and bridge builder.
func NewTxBuilder(
	networks port.NetworkDefinitionProvider,
	resolver port.TokenResolver,
	metadata port.TokenMetadataService,
	fallbacks port.FallbackRecorder,
	logger *zap.Logger,
) port.TxBuilder {
	return &txBuilderImpl{
		networks:  networks,
		resolver:  resolver,
		metadata:  metadata,
		fallbacks: fallbacks,
		logger:    logger.Named("TxBuilder"),
	}
}

// describe resolves a symbol or address and reads its metadata. The native currency
// is described without I/O.
func (b *txBuilderImpl) describe(ctx context.Context, def entity.NetworkDefinition, token string) (entity.Outcome[entity.TokenInfo], error) {
	addr, err := b.resolver.ResolveTokenAddress(token, def.Identifier)
	if err != nil {
		return entity.Outcome[entity.TokenInfo]{}, err
	}
	if entity.IsNativeAddress(addr) {
		return entity.Live(nativeTokenInfo(def)), nil
	}
	return b.metadata.Describe(ctx, addr, def.Identifier)
}

// BuildTransfer builds a native value transfer or an ERC-20 transfer call.
func (b *txBuilderImpl) BuildTransfer(ctx context.Context, params port.TransferParams) (port.BuildResult, error) {
	def, err := lookupNetwork(b.networks, params.Network)
	if err != nil {
		return port.BuildResult{}, err
	}
	if !IsAddress(params.Recipient) {
		return port.BuildResult{}, entity.NewValidationError("toAddress", "must be a 0x-prefixed 40 hex character address")
	}

	token, err := b.describe(ctx, def, params.Token)
	if err != nil {
		return port.BuildResult{}, err
	}
	amountWei, err := parseAmount("amount", params.Amount, token.Value.Decimals)
	if err != nil {
		return port.BuildResult{}, err
	}

	res := port.BuildResult{Token: token, AmountWei: amountWei}
	if entity.IsNativeAddress(token.Value.Address) {
		res.Transaction = entity.Live(entity.TransactionRequest{
			From:    params.From,
			To:      params.Recipient,
			Data:    "0x",
			Value:   amountWei.String(),
			ChainID: def.ChainID,
		})
		return res, nil
	}

	data, err := contracts.EncodeTransfer(params.Recipient, amountWei)
	if err != nil {
		return port.BuildResult{}, fmt.Errorf("failed to encode transfer: %w", err)
	}
	res.Transaction = entity.Live(entity.TransactionRequest{
		From:    params.From,
		To:      token.Value.Address,
		Data:    hexData(data),
		Value:   "0",
		ChainID: def.ChainID,
	})
	return res, nil
}

// BuildStake builds an Aave V3 supply. Other known platforms get a placeholder transaction.
func (b *txBuilderImpl) BuildStake(ctx context.Context, params port.StakeParams) (port.BuildResult, error) {
	def, err := lookupNetwork(b.networks, params.Network)
	if err != nil {
		return port.BuildResult{}, err
	}
	platform := strings.ToLower(strings.TrimSpace(params.Platform))

	switch {
	case platform == "aave" || platform == "aave v3":
		return b.buildAaveSupply(ctx, def, params)
	case placeholderStakeContracts[platform] != "":
		token, err := b.describe(ctx, def, params.Token)
		if err != nil {
			return port.BuildResult{}, err
		}
		amountWei, err := parseAmount("amountIn", params.Amount, token.Value.Decimals)
		if err != nil {
			return port.BuildResult{}, err
		}
		recordFallback(b.fallbacks, "stake_builder")
		b.logger.Warn("Staking calldata not implemented for platform, returning placeholder",
			zap.String("platform", params.Platform), zap.String("network", def.Identifier))
		return port.BuildResult{
			Token:     token,
			AmountWei: amountWei,
			Transaction: entity.Fallback(entity.TransactionRequest{
				From:    params.From,
				To:      placeholderStakeContracts[platform],
				Data:    "0x",
				Value:   "0",
				ChainID: def.ChainID,
			}, fmt.Sprintf("staking calldata for %s is not implemented", params.Platform)),
		}, nil
	default:
		return port.BuildResult{}, fmt.Errorf("%w: unsupported staking platform: %s", entity.ErrUnsupportedOperation, params.Platform)
	}
}

func (b *txBuilderImpl) buildAaveSupply(ctx context.Context, def entity.NetworkDefinition, params port.StakeParams) (port.BuildResult, error) {
	if def.AavePoolAddress == "" {
		return port.BuildResult{}, fmt.Errorf("%w: Aave V3 is not available on %s", entity.ErrUnsupportedOperation, def.Identifier)
	}
	addr, err := b.resolver.ResolveTokenAddress(params.Token, def.Identifier)
	if err != nil {
		return port.BuildResult{}, err
	}
	if entity.IsNativeAddress(addr) {
		return port.BuildResult{}, fmt.Errorf("%w: Aave V3 supply requires an ERC-20 asset, use W%s", entity.ErrUnsupportedOperation, def.NativeSymbol)
	}
	token, err := b.metadata.Describe(ctx, addr, def.Identifier)
	if err != nil {
		return port.BuildResult{}, err
	}
	amountWei, err := parseAmount("amountIn", params.Amount, token.Value.Decimals)
	if err != nil {
		return port.BuildResult{}, err
	}

	data, err := contracts.EncodeAaveSupply(addr, amountWei, params.From)
	if err != nil {
		return port.BuildResult{}, fmt.Errorf("failed to encode supply: %w", err)
	}
	approval, err := buildApproval(def, params.From, addr, def.AavePoolAddress, amountWei)
	if err != nil {
		return port.BuildResult{}, err
	}
	return port.BuildResult{
		Token:     token,
		AmountWei: amountWei,
		Approvals: []entity.Approval{approval},
		Transaction: entity.Live(entity.TransactionRequest{
			From:    params.From,
			To:      def.AavePoolAddress,
			Data:    hexData(data),
			Value:   "0",
			ChainID: def.ChainID,
		}),
	}, nil
}

// BuildBridge returns the unimplemented bridge stub.
func (b *txBuilderImpl) BuildBridge(ctx context.Context, params port.BridgeParams) (port.BuildResult, error) {
	def, err := lookupNetwork(b.networks, params.Network)
	if err != nil {
		return port.BuildResult{}, err
	}
	if params.DestinationNetwork != "" {
		if _, err := lookupNetwork(b.networks, params.DestinationNetwork); err != nil {
			return port.BuildResult{}, err
		}
	}
	token, err := b.describe(ctx, def, params.Token)
	if err != nil {
		return port.BuildResult{}, err
	}
	amountWei, err := parseAmount("amountIn", params.Amount, token.Value.Decimals)
	if err != nil {
		return port.BuildResult{}, err
	}

	recordFallback(b.fallbacks, "bridge_builder")
	return port.BuildResult{
		Token:     token,
		AmountWei: amountWei,
		Transaction: entity.Fallback(entity.TransactionRequest{
			From:    params.From,
			To:      StargateRouterAddress,
			Data:    "0x",
			Value:   "0",
			ChainID: def.ChainID,
		}, "bridge calldata is not implemented"),
	}, nil
}
