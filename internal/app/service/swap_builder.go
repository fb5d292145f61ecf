package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/contracts"
	"aura_gateway/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSlippageBps = 50
	maxSlippageBps     = 5000
	defaultDeadline    = 30 * time.Minute
)

// placeholderSwapData is exactInputSingle's selector followed by ten zero words.
// It is not a functional swap.
var placeholderSwapData = contracts.ExactInputSingleSelector + strings.Repeat("0", 64*10)

type swapBuilderImpl struct {
	networks  port.NetworkDefinitionProvider
	resolver  port.TokenResolver
	metadata  port.TokenMetadataService
	router    port.SwapRouter
	fallbacks port.FallbackRecorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewSwapBuilder creates a swap builder routing through router.
func NewSwapBuilder(
	networks port.NetworkDefinitionProvider,
	resolver port.TokenResolver,
	metadata port.TokenMetadataService,
	router port.SwapRouter,
	fallbacks port.FallbackRecorder,
	logger *zap.Logger,
) port.SwapBuilder {
	return &swapBuilderImpl{
		networks:  networks,
		resolver:  resolver,
		metadata:  metadata,
		router:    router,
		fallbacks: fallbacks,
		logger:    logger.Named("SwapBuilder"),
		now:       time.Now,
	}
}

// BuildSwap resolves and describes both tokens, routes the swap and encodes the router call.
// When routing fails a placeholder transaction is returned as a fallback outcome.
func (b *swapBuilderImpl) BuildSwap(ctx context.Context, params port.SwapParams) (port.SwapResult, error) {
	res, err := b.buildSwap(ctx, params)
	if err != nil {
		return port.SwapResult{}, fmt.Errorf("failed to build swap transaction: %w", err)
	}
	return res, nil
}

func (b *swapBuilderImpl) buildSwap(ctx context.Context, params port.SwapParams) (port.SwapResult, error) {
	def, err := lookupNetwork(b.networks, params.Network)
	if err != nil {
		return port.SwapResult{}, err
	}
	if !IsAddress(params.Recipient) {
		return port.SwapResult{}, entity.NewValidationError("fromAddress", "must be a 0x-prefixed 40 hex character address")
	}

	addrIn, err := b.resolver.ResolveTokenAddress(params.TokenIn, def.Identifier)
	if err != nil {
		return port.SwapResult{}, err
	}
	addrOut, err := b.resolver.ResolveTokenAddress(params.TokenOut, def.Identifier)
	if err != nil {
		return port.SwapResult{}, err
	}
	if strings.EqualFold(addrIn, addrOut) {
		return port.SwapResult{}, entity.NewValidationError("tokenOut", "must differ from tokenIn")
	}
	if strings.EqualFold(routingAddress(def, addrIn), routingAddress(def, addrOut)) {
		return port.SwapResult{}, entity.NewValidationError("tokenOut", "wrap/unwrap is not a swap")
	}

	var tokenIn, tokenOut entity.Outcome[entity.TokenInfo]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tokenIn, err = b.metadata.Describe(gctx, addrIn, def.Identifier)
		return err
	})
	g.Go(func() error {
		var err error
		tokenOut, err = b.metadata.Describe(gctx, addrOut, def.Identifier)
		return err
	})
	if err := g.Wait(); err != nil {
		return port.SwapResult{}, err
	}

	amountInWei, err := parseAmount("amountIn", params.AmountIn, tokenIn.Value.Decimals)
	if err != nil {
		return port.SwapResult{}, err
	}

	slippageBps, err := ParseSlippageBps(params.Slippage)
	if err != nil {
		return port.SwapResult{}, err
	}
	deadline := params.Deadline
	if deadline == 0 {
		deadline = b.now().Add(defaultDeadline).Unix()
	}

	isNativeIn := isWrappedOrNative(def, addrIn)
	isNativeOut := entity.IsNativeAddress(addrOut)

	result := port.SwapResult{
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
		AmountInWei: amountInWei,
		Deadline:    deadline,
		SlippageBps: slippageBps,
	}

	route, routeErr := b.router.Route(ctx, port.SwapRouteRequest{
		Network:     def,
		TokenIn:     routingAddress(def, addrIn),
		TokenOut:    routingAddress(def, addrOut),
		AmountIn:    amountInWei,
		Recipient:   params.Recipient,
		Deadline:    deadline,
		SlippageBps: slippageBps,
		NativeIn:    isNativeIn,
		NativeOut:   isNativeOut,
	})
	if routeErr == nil && (len(route.Data) == 0 || route.To == "") {
		routeErr = fmt.Errorf("router returned no call parameters")
	}

	if routeErr != nil {
		recordFallback(b.fallbacks, "swap_builder")
		b.logger.Warn("Swap routing failed, using placeholder transaction",
			zap.String("network", def.Identifier),
			zap.String("tokenIn", addrIn),
			zap.String("tokenOut", addrOut),
			zap.Error(routeErr))
		value := "0"
		if isNativeIn {
			value = amountInWei.String()
		}
		result.Transaction = entity.Fallback(entity.TransactionRequest{
			From:    params.Recipient,
			To:      def.SwapRouterAddress,
			Data:    placeholderSwapData,
			Value:   value,
			ChainID: def.ChainID,
		}, fmt.Sprintf("swap routing unavailable: %v", routeErr))
	} else {
		value := "0"
		if route.Value != nil {
			value = route.Value.String()
		}
		result.Transaction = entity.Live(entity.TransactionRequest{
			From:    params.Recipient,
			To:      route.To,
			Data:    hexData(route.Data),
			Value:   value,
			ChainID: def.ChainID,
		})
		result.FeeTier = route.FeeTier
		result.AmountOut = utils.MustFormatBigInt(route.AmountOut, tokenOut.Value.Decimals)
		result.AmountOutMinimum = utils.MustFormatBigInt(route.AmountOutMinimum, tokenOut.Value.Decimals)
	}

	if !isNativeIn {
		approval, err := buildApproval(def, params.Recipient, addrIn, def.SwapRouterAddress, amountInWei)
		if err != nil {
			return port.SwapResult{}, err
		}
		result.Approvals = []entity.Approval{approval}
	}
	return result, nil
}

// routingAddress maps the native sentinel to the wrapped native token.
func routingAddress(def entity.NetworkDefinition, addr string) string {
	if entity.IsNativeAddress(addr) {
		return def.WrappedNativeTokenAddress
	}
	return addr
}

func buildApproval(def entity.NetworkDefinition, owner, token, spender string, amount *big.Int) (entity.Approval, error) {
	data, err := contracts.EncodeApprove(spender, amount)
	if err != nil {
		return entity.Approval{}, fmt.Errorf("failed to encode approve: %w", err)
	}
	return entity.Approval{
		Token:   token,
		Spender: spender,
		Amount:  amount.String(),
		TransactionRequest: entity.TransactionRequest{
			From:    owner,
			To:      token,
			Data:    hexData(data),
			Value:   "0",
			ChainID: def.ChainID,
		},
	}, nil
}

// ParseSlippageBps converts a percentage such as "0.5" or "0.5%" to basis points.
// Empty input means the default of 0.5%.
func ParseSlippageBps(slippage string) (int64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(slippage), "%"))
	if s == "" {
		return defaultSlippageBps, nil
	}
	pct, ok := new(big.Rat).SetString(s)
	if !ok || pct.Sign() < 0 {
		return 0, entity.NewValidationError("slippage", "must be a non-negative percentage")
	}
	bps := new(big.Int).Quo(new(big.Int).Mul(pct.Num(), big.NewInt(100)), pct.Denom())
	if bps.Cmp(big.NewInt(maxSlippageBps)) > 0 {
		return 0, entity.NewValidationError("slippage", "must not exceed 50%")
	}
	return bps.Int64(), nil
}
