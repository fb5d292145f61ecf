package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/contracts"
	networkdefinition "aura_gateway/internal/infrastructure/network/definition"
	"aura_gateway/internal/pkg/chaintest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdcClient() *chaintest.Client {
	return &chaintest.Client{Metadata: port.TokenMetadataResult{Decimals: 6, Symbol: "USDC", Name: "USD Coin"}}
}

func newSwapBuilder(client *chaintest.Client, router port.SwapRouter, rec *countingRecorder) port.SwapBuilder {
	networks := testNetworks()
	tokens := testTokens()
	metadata := NewTokenMetadataService(networks, &chaintest.Provider{Client: client}, tokens, time.Second, rec, nopLogger)
	return NewSwapBuilder(networks, NewTokenResolver(networks, tokens), metadata, router, rec, nopLogger)
}

func TestBuildSwap_NativeInLive(t *testing.T) {
	e18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	router := &fakeRouter{route: port.SwapRoute{
		FeeTier:          500,
		AmountOut:        big.NewInt(2_500_000_000),
		AmountOutMinimum: big.NewInt(2_487_500_000),
		To:               networkdefinition.Arbitrum.SwapRouterAddress,
		Data:             []byte{0x41, 0x4b, 0xf3, 0x89},
		Value:            e18,
	}}
	rec := &countingRecorder{}
	before := time.Now().Add(defaultDeadline).Unix()

	res, err := newSwapBuilder(usdcClient(), router, rec).BuildSwap(context.Background(), port.SwapParams{
		Network:   "arbitrum",
		TokenIn:   "ETH",
		TokenOut:  "USDC",
		AmountIn:  "1",
		Recipient: testWallet,
	})
	require.NoError(t, err)

	tx := res.Transaction
	assert.False(t, tx.Degraded())
	assert.Equal(t, "0x414bf389", tx.Value.Data)
	assert.Equal(t, "1000000000000000000", tx.Value.Value)
	assert.Equal(t, uint64(42161), tx.Value.ChainID)
	assert.Empty(t, res.Approvals)
	assert.Equal(t, uint32(500), res.FeeTier)
	assert.Equal(t, "2500", res.AmountOut)
	assert.Equal(t, "2487.5", res.AmountOutMinimum)
	assert.Equal(t, int64(defaultSlippageBps), res.SlippageBps)
	assert.GreaterOrEqual(t, res.Deadline, before)
	assert.Zero(t, rec.count("swap_builder"))

	assert.Equal(t, arbWETH, router.last.TokenIn)
	assert.Equal(t, arbUSDC, router.last.TokenOut)
	assert.True(t, router.last.NativeIn)
	assert.False(t, router.last.NativeOut)
	assert.Equal(t, e18, router.last.AmountIn)
}

func TestBuildSwap_RouterFailureFallsBack(t *testing.T) {
	router := &fakeRouter{err: errors.New("no pool")}
	rec := &countingRecorder{}

	res, err := newSwapBuilder(usdcClient(), router, rec).BuildSwap(context.Background(), port.SwapParams{
		Network:   "arbitrum",
		TokenIn:   "USDC",
		TokenOut:  "ETH",
		AmountIn:  "100",
		Recipient: testWallet,
		Slippage:  "1%",
	})
	require.NoError(t, err)

	tx := res.Transaction
	assert.True(t, tx.Degraded())
	assert.Contains(t, tx.Reason, "no pool")
	assert.Equal(t, networkdefinition.Arbitrum.SwapRouterAddress, tx.Value.To)
	assert.True(t, strings.HasPrefix(tx.Value.Data, contracts.ExactInputSingleSelector))
	assert.Len(t, tx.Value.Data, len(contracts.ExactInputSingleSelector)+640)
	assert.Equal(t, "0", tx.Value.Value)
	assert.Equal(t, 1, rec.count("swap_builder"))
	assert.Equal(t, int64(100), res.SlippageBps)

	require.Len(t, res.Approvals, 1)
	approval := res.Approvals[0]
	assert.Equal(t, arbUSDC, approval.Token)
	assert.Equal(t, networkdefinition.Arbitrum.SwapRouterAddress, approval.Spender)
	assert.Equal(t, "100000000", approval.Amount)
	assert.Equal(t, arbUSDC, approval.TransactionRequest.To)
	assert.True(t, strings.HasPrefix(approval.TransactionRequest.Data, "0x095ea7b3"))

	assert.Equal(t, arbWETH, router.last.TokenOut)
	assert.True(t, router.last.NativeOut)
}

func TestBuildSwap_EmptyRouteFallsBack(t *testing.T) {
	res, err := newSwapBuilder(usdcClient(), &fakeRouter{}, &countingRecorder{}).BuildSwap(context.Background(), port.SwapParams{
		Network: "arbitrum", TokenIn: "ETH", TokenOut: "USDC", AmountIn: "0.5", Recipient: testWallet,
	})
	require.NoError(t, err)
	assert.True(t, res.Transaction.Degraded())
	assert.Equal(t, "500000000000000000", res.Transaction.Value.Value)
}

func TestBuildSwap_InputErrors(t *testing.T) {
	builder := newSwapBuilder(usdcClient(), &fakeRouter{}, &countingRecorder{})
	base := port.SwapParams{Network: "arbitrum", TokenIn: "ETH", TokenOut: "USDC", AmountIn: "1", Recipient: testWallet}

	var verr *entity.ValidationError

	p := base
	p.TokenOut = "eth"
	_, err := builder.BuildSwap(context.Background(), p)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tokenOut", verr.Fields[0].Field)

	p = base
	p.TokenOut = "NOPE"
	_, err = builder.BuildSwap(context.Background(), p)
	assert.ErrorIs(t, err, entity.ErrUnknownToken)
	assert.Contains(t, err.Error(), "failed to build swap transaction")

	p = base
	p.AmountIn = "abc"
	_, err = builder.BuildSwap(context.Background(), p)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	p = base
	p.AmountIn = "0"
	_, err = builder.BuildSwap(context.Background(), p)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	p = base
	p.Recipient = "0x123"
	_, err = builder.BuildSwap(context.Background(), p)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	p = base
	p.Network = "solana"
	_, err = builder.BuildSwap(context.Background(), p)
	assert.ErrorIs(t, err, entity.ErrUnsupportedNetwork)
}

func TestBuildSwap_RejectsWrapAndUnwrap(t *testing.T) {
	router := &fakeRouter{}
	builder := newSwapBuilder(usdcClient(), router, &countingRecorder{})

	pairs := [][2]string{{"ETH", "WETH"}, {"weth", "eth"}, {entity.ZeroAddress, arbWETH}}
	for _, pair := range pairs {
		_, err := builder.BuildSwap(context.Background(), port.SwapParams{
			Network: "arbitrum", TokenIn: pair[0], TokenOut: pair[1], AmountIn: "1", Recipient: testWallet,
		})
		var verr *entity.ValidationError
		require.Truef(t, errors.As(err, &verr), "%s -> %s", pair[0], pair[1])
		assert.Equal(t, "tokenOut", verr.Fields[0].Field)
		assert.Equal(t, "wrap/unwrap is not a swap", verr.Fields[0].Message)
	}
	assert.Empty(t, router.last.TokenIn, "router is never consulted")
}

func TestParseSlippageBps(t *testing.T) {
	valid := map[string]int64{"": 50, "0.5": 50, "1%": 100, " 0.25 % ": 25, "50": 5000, "0.125": 12, "0": 0}
	for in, want := range valid {
		got, err := ParseSlippageBps(in)
		require.NoErrorf(t, err, "input %q", in)
		assert.Equalf(t, want, got, "input %q", in)
	}
	for _, in := range []string{"51", "-1", "x"} {
		_, err := ParseSlippageBps(in)
		assert.ErrorIsf(t, err, entity.ErrInvalidInput, "input %q", in)
	}
}
