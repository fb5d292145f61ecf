package router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/contracts"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultFeeTiers are the Uniswap V3 pool fees in hundredths of a bip.
var DefaultFeeTiers = []uint32{100, 500, 3000, 10000}

// ErrNoRoute is returned when no fee tier produced a quote.
var ErrNoRoute = errors.New("no uniswap v3 pool quoted the pair")

// UniswapV3Router routes single-hop swaps through Uniswap V3.
type UniswapV3Router struct {
	clients  port.BlockchainClientProvider
	feeTiers []uint32
	logger   *zap.Logger
}

// NewUniswapV3Router creates a router that quotes every fee tier through QuoterV2.
func NewUniswapV3Router(clients port.BlockchainClientProvider, logger *zap.Logger) port.SwapRouter {
	return &UniswapV3Router{
		clients:  clients,
		feeTiers: DefaultFeeTiers,
		logger:   logger.Named("UniswapV3Router"),
	}
}

type tierQuote struct {
	fee   uint32
	quote contracts.Quote
}

// Route quotes all fee tiers concurrently, keeps the one with the largest output and
// encodes the router call for it.
func (r *UniswapV3Router) Route(ctx context.Context, req port.SwapRouteRequest) (port.SwapRoute, error) {
	def := req.Network
	if def.QuoterAddress == "" || def.SwapRouterAddress == "" {
		return port.SwapRoute{}, fmt.Errorf("uniswap v3 is not configured on %s", def.Identifier)
	}
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return port.SwapRoute{}, errors.New("amountIn must be positive")
	}

	client, err := r.clients.GetClient(ctx, def)
	if err != nil {
		return port.SwapRoute{}, err
	}

	var (
		mu     sync.Mutex
		quotes []tierQuote
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, fee := range r.feeTiers {
		g.Go(func() error {
			data, err := contracts.EncodeQuoteExactInputSingle(req.TokenIn, req.TokenOut, req.AmountIn, fee)
			if err != nil {
				return err
			}
			raw, err := client.CallContract(gctx, port.CallMsg{To: def.QuoterAddress, Data: data})
			if err != nil {
				// Missing pools revert; that tier is simply skipped.
				r.logger.Debug("Fee tier not quotable", zap.String("network", def.Identifier), zap.Uint32("fee", fee), zap.Error(err))
				return nil
			}
			q, err := contracts.DecodeQuoteExactInputSingle(raw)
			if err != nil {
				r.logger.Debug("Fee tier quote not decodable", zap.Uint32("fee", fee), zap.Error(err))
				return nil
			}
			if q.AmountOut == nil || q.AmountOut.Sign() == 0 {
				return nil
			}
			mu.Lock()
			quotes = append(quotes, tierQuote{fee: fee, quote: q})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return port.SwapRoute{}, err
	}
	if len(quotes) == 0 {
		return port.SwapRoute{}, ErrNoRoute
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		if q.quote.AmountOut.Cmp(best.quote.AmountOut) > 0 || (q.quote.AmountOut.Cmp(best.quote.AmountOut) == 0 && q.fee < best.fee) {
			best = q
		}
	}

	minOut := ApplySlippage(best.quote.AmountOut, req.SlippageBps)
	data, err := r.encodeSwap(req, best.fee, minOut)
	if err != nil {
		return port.SwapRoute{}, err
	}

	value := big.NewInt(0)
	if req.NativeIn {
		value = new(big.Int).Set(req.AmountIn)
	}

	route := port.SwapRoute{
		FeeTier:          best.fee,
		AmountOut:        best.quote.AmountOut,
		AmountOutMinimum: minOut,
		To:               def.SwapRouterAddress,
		Data:             data,
		Value:            value,
	}
	if best.quote.GasEstimate != nil && best.quote.GasEstimate.IsUint64() {
		route.GasEstimate = best.quote.GasEstimate.Uint64()
	}

	r.logger.Debug("Selected route",
		zap.String("network", def.Identifier),
		zap.Uint32("fee", best.fee),
		zap.String("amountOut", best.quote.AmountOut.String()),
		zap.Int("quotedTiers", len(quotes)))
	return route, nil
}

func (r *UniswapV3Router) encodeSwap(req port.SwapRouteRequest, fee uint32, minOut *big.Int) ([]byte, error) {
	def := req.Network
	params := contracts.ExactInputSingle{
		TokenIn:          req.TokenIn,
		TokenOut:         req.TokenOut,
		Fee:              fee,
		Recipient:        req.Recipient,
		Deadline:         req.Deadline,
		AmountIn:         req.AmountIn,
		AmountOutMinimum: minOut,
	}
	router02 := def.SwapRouterKind == entity.SwapRouterV3_02
	if !req.NativeOut {
		swapCall, err := contracts.EncodeExactInputSingle(def.SwapRouterKind, params)
		if err != nil || !router02 {
			return swapCall, err
		}
		return contracts.EncodeMulticallWithDeadline(req.Deadline, [][]byte{swapCall})
	}

	// Native output: the router receives the wrapped token and unwraps it to the recipient.
	params.Recipient = def.SwapRouterAddress
	if router02 {
		params.Recipient = contracts.Router02AddressThis
	}
	swapCall, err := contracts.EncodeExactInputSingle(def.SwapRouterKind, params)
	if err != nil {
		return nil, err
	}
	unwrapCall, err := contracts.EncodeUnwrapWETH9(minOut, req.Recipient)
	if err != nil {
		return nil, err
	}
	calls := [][]byte{swapCall, unwrapCall}
	if router02 {
		// SwapRouter02's exactInputSingle has no deadline argument.
		return contracts.EncodeMulticallWithDeadline(req.Deadline, calls)
	}
	return contracts.EncodeMulticall(calls)
}

// ApplySlippage returns amount * (10000 - bps) / 10000, rounded down.
func ApplySlippage(amount *big.Int, bps int64) *big.Int {
	if bps < 0 {
		bps = 0
	}
	if bps > 10000 {
		bps = 10000
	}
	out := new(big.Int).Mul(amount, big.NewInt(10000-bps))
	return out.Quo(out, big.NewInt(10000))
}
