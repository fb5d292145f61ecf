package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/chaintest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeeEstimator(provider *chaintest.Provider, prices port.TokenPriceService, rec *countingRecorder) port.FeeEstimator {
	return NewFeeEstimator(testNetworks(), provider, prices, testConfig(), rec, nopLogger)
}

func TestEstimate_FallbackWhenRPCUnavailable(t *testing.T) {
	rec := &countingRecorder{}
	estimator := newFeeEstimator(&chaintest.Provider{Err: errors.New("dial tcp: refused")}, fixedPrices{price: "3100"}, rec)

	fee, err := estimator.Estimate(context.Background(), "arbitrum", entity.TransactionRequest{To: arbUSDC, Value: "0"})
	require.NoError(t, err)

	assert.True(t, fee.Degraded())
	assert.Contains(t, fee.Reason, "gas estimation failed")
	assert.True(t, fee.Value.Degraded)
	assert.Equal(t, "200000", fee.Value.GasLimit)
	assert.Equal(t, "20000000000", fee.Value.GasPrice)
	assert.Equal(t, "0.004", fee.Value.TotalFeeETH)
	assert.Equal(t, "0.004", fee.Value.TotalFeeNative)
	assert.Equal(t, "10.00", fee.Value.TotalFeeUSD, "priced at the configured rate, not the live one")
	assert.Equal(t, "2500", fee.Value.NativeUSDRate)
	assert.Equal(t, "ETH", fee.Value.NativeSymbol)
	assert.Empty(t, fee.Value.MaxFeePerGas)
	assert.Equal(t, 1, rec.count("fee_estimator"))
	assert.Zero(t, rec.count("native_price"))
}

func TestEstimate_LiveEIP1559(t *testing.T) {
	client := &chaintest.Client{
		GasLimit: 21000,
		GasPrice: big.NewInt(1_000_000_000),
		BaseFee:  big.NewInt(1_000_000_000),
		TipCap:   big.NewInt(100_000_000),
	}
	rec := &countingRecorder{}
	estimator := newFeeEstimator(&chaintest.Provider{Client: client}, fixedPrices{price: "2500"}, rec)

	fee, err := estimator.Estimate(context.Background(), "arbitrum", entity.TransactionRequest{
		From: testWallet, To: testRecipient, Data: "0x", Value: "1000",
	})
	require.NoError(t, err)

	assert.False(t, fee.Degraded())
	assert.False(t, fee.Value.Degraded)
	assert.Equal(t, "21000", fee.Value.GasLimit)
	assert.Equal(t, "1000000000", fee.Value.GasPrice)
	assert.Equal(t, "2100000000", fee.Value.MaxFeePerGas)
	assert.Equal(t, "100000000", fee.Value.MaxPriorityFeePerGas)
	assert.Equal(t, "0.0000441", fee.Value.TotalFeeNative)
	assert.Equal(t, "0.11", fee.Value.TotalFeeUSD)
	assert.Equal(t, "2500", fee.Value.NativeUSDRate)
	assert.Zero(t, rec.count("fee_estimator"))
}

func TestEstimate_ConfiguredRateWithoutOracle(t *testing.T) {
	client := &chaintest.Client{GasLimit: 100000, GasPrice: big.NewInt(10_000_000_000)}
	rec := &countingRecorder{}
	estimator := newFeeEstimator(&chaintest.Provider{Client: client}, nil, rec)

	fee, err := estimator.Estimate(context.Background(), "arbitrum", entity.TransactionRequest{To: testRecipient, Value: "0"})
	require.NoError(t, err)

	assert.True(t, fee.Degraded())
	assert.Contains(t, fee.Reason, "price: native price oracle not configured")
	assert.Equal(t, "0.001", fee.Value.TotalFeeNative)
	assert.Equal(t, "2.50", fee.Value.TotalFeeUSD)
	assert.Empty(t, fee.Value.MaxFeePerGas)
	assert.Equal(t, 1, rec.count("native_price"))
}

func TestEstimate_PriceErrorUsesConfiguredRate(t *testing.T) {
	client := &chaintest.Client{GasLimit: 100000, GasPrice: big.NewInt(10_000_000_000)}
	estimator := newFeeEstimator(&chaintest.Provider{Client: client}, fixedPrices{err: errors.New("429")}, &countingRecorder{})

	fee, err := estimator.Estimate(context.Background(), "arbitrum", entity.TransactionRequest{To: testRecipient, Value: "0"})
	require.NoError(t, err)
	assert.True(t, fee.Degraded())
	assert.Contains(t, fee.Reason, "native price unavailable")
	assert.Equal(t, "2500", fee.Value.NativeUSDRate)
}

func TestEstimate_InvalidCalldataFallsBack(t *testing.T) {
	client := &chaintest.Client{GasLimit: 21000, GasPrice: big.NewInt(1)}
	estimator := newFeeEstimator(&chaintest.Provider{Client: client}, fixedPrices{price: "2500"}, &countingRecorder{})

	fee, err := estimator.Estimate(context.Background(), "arbitrum", entity.TransactionRequest{To: testRecipient, Data: "0xzz"})
	require.NoError(t, err)
	assert.True(t, fee.Degraded())
	assert.Contains(t, fee.Reason, "invalid calldata")
	assert.Zero(t, client.CallCount("EstimateGas"))
}

func TestEstimate_UnsupportedNetwork(t *testing.T) {
	estimator := newFeeEstimator(&chaintest.Provider{Client: &chaintest.Client{}}, nil, &countingRecorder{})
	_, err := estimator.Estimate(context.Background(), "solana", entity.TransactionRequest{})
	assert.ErrorIs(t, err, entity.ErrUnsupportedNetwork)
}

func TestQuickEstimate(t *testing.T) {
	t.Run("live gas price", func(t *testing.T) {
		client := &chaintest.Client{GasPrice: big.NewInt(1_000_000_000)}
		estimator := newFeeEstimator(&chaintest.Provider{Client: client}, fixedPrices{price: "2000"}, &countingRecorder{})

		fee, err := estimator.QuickEstimate(context.Background(), "arbitrum", entity.OperationTransfer)
		require.NoError(t, err)
		assert.False(t, fee.Degraded())
		assert.Equal(t, "65000", fee.Value.GasLimit)
		assert.Equal(t, "0.000065", fee.Value.TotalFeeNative)
		assert.Equal(t, "0.13", fee.Value.TotalFeeUSD)
	})

	t.Run("static table", func(t *testing.T) {
		rec := &countingRecorder{}
		client := &chaintest.Client{GasPriceErr: errors.New("timeout")}
		estimator := newFeeEstimator(&chaintest.Provider{Client: client}, fixedPrices{price: "3100"}, rec)

		fee, err := estimator.QuickEstimate(context.Background(), "arbitrum", entity.OperationSwap)
		require.NoError(t, err)
		assert.True(t, fee.Degraded())
		assert.Equal(t, "180000", fee.Value.GasLimit)
		assert.Equal(t, "0.002", fee.Value.TotalFeeNative)
		assert.Equal(t, "5.00", fee.Value.TotalFeeUSD)
		assert.Equal(t, "2500", fee.Value.NativeUSDRate)
		assert.Equal(t, "11111111111", fee.Value.GasPrice)
		assert.Equal(t, 1, rec.count("fee_estimator"))
	})

	t.Run("unlisted network uses arbitrum row", func(t *testing.T) {
		estimator := newFeeEstimator(&chaintest.Provider{Err: errors.New("down")}, fixedPrices{price: "1"}, &countingRecorder{})
		fee, err := estimator.QuickEstimate(context.Background(), "base", entity.OperationBridge)
		require.NoError(t, err)
		assert.Equal(t, "0.005", fee.Value.TotalFeeNative)
	})

	t.Run("unknown operation", func(t *testing.T) {
		estimator := newFeeEstimator(&chaintest.Provider{Client: &chaintest.Client{}}, nil, &countingRecorder{})
		_, err := estimator.QuickEstimate(context.Background(), "arbitrum", entity.Operation("lend"))
		assert.ErrorIs(t, err, entity.ErrUnsupportedOperation)
	})
}
