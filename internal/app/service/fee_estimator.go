package service

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/config"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/utils"

	"go.uber.org/zap"
)

var gwei = big.NewInt(1_000_000_000)

// typicalGasUnits are the gas amounts used for quick estimates per operation.
var typicalGasUnits = map[entity.Operation]uint64{
	entity.OperationTransfer: 65000,
	entity.OperationSwap:     180000,
	entity.OperationStake:    250000,
	entity.OperationBridge:   300000,
}

// staticFeeTable holds native-currency fees used when the gas price cannot be read.
var staticFeeTable = map[string]map[entity.Operation]string{
	"ethereum": {entity.OperationSwap: "0.015", entity.OperationTransfer: "0.005", entity.OperationStake: "0.02", entity.OperationBridge: "0.03"},
	"arbitrum": {entity.OperationSwap: "0.002", entity.OperationTransfer: "0.001", entity.OperationStake: "0.003", entity.OperationBridge: "0.005"},
	"polygon":  {entity.OperationSwap: "0.01", entity.OperationTransfer: "0.005", entity.OperationStake: "0.015", entity.OperationBridge: "0.02"},
}

type feeEstimatorImpl struct {
	networks  port.NetworkDefinitionProvider
	clients   port.BlockchainClientProvider
	prices    port.TokenPriceService
	cfg       *config.Config
	fallbacks port.FallbackRecorder
	logger    *zap.Logger
}

// NewFeeEstimator creates a fee estimator. prices may be nil, in which case the
// configured fixed rates are always used.
func NewFeeEstimator(
	networks port.NetworkDefinitionProvider,
	clients port.BlockchainClientProvider,
	prices port.TokenPriceService,
	cfg *config.Config,
	fallbacks port.FallbackRecorder,
	logger *zap.Logger,
) port.FeeEstimator {
	return &feeEstimatorImpl{
		networks:  networks,
		clients:   clients,
		prices:    prices,
		cfg:       cfg,
		fallbacks: fallbacks,
		logger:    logger.Named("FeeEstimator"),
	}
}

type gasQuote struct {
	gasLimit             uint64
	gasPrice             *big.Int
	maxFeePerGas         *big.Int
	maxPriorityFeePerGas *big.Int
}

func (q gasQuote) totalWei() *big.Int {
	price := q.gasPrice
	if q.maxFeePerGas != nil {
		price = q.maxFeePerGas
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(q.gasLimit), price)
}

// Estimate prices tx. Any RPC failure yields the configured fallback gas figures.
func (e *feeEstimatorImpl) Estimate(ctx context.Context, network string, tx entity.TransactionRequest) (entity.Outcome[entity.FeeEstimate], error) {
	def, err := lookupNetwork(e.networks, network)
	if err != nil {
		return entity.Outcome[entity.FeeEstimate]{}, err
	}

	var reasons entity.DegradedReasons
	quote, err := e.liveQuote(ctx, def, tx)
	if err != nil {
		recordFallback(e.fallbacks, "fee_estimator")
		e.logger.Warn("Gas estimation failed, using fallback gas figures",
			zap.String("network", def.Identifier),
			zap.String("to", tx.To),
			zap.Error(err))
		quote = e.fallbackQuote()
		reasons.Note("gas", true, fmt.Sprintf("gas estimation failed: %v", err))
		return e.buildEstimate(ctx, def, quote, quote.totalWei(), reasons, true), nil
	}

	return e.buildEstimate(ctx, def, quote, quote.totalWei(), reasons, false), nil
}

// QuickEstimate prices a typical transaction of the given kind.
func (e *feeEstimatorImpl) QuickEstimate(ctx context.Context, network string, operation entity.Operation) (entity.Outcome[entity.FeeEstimate], error) {
	def, err := lookupNetwork(e.networks, network)
	if err != nil {
		return entity.Outcome[entity.FeeEstimate]{}, err
	}
	units, ok := typicalGasUnits[operation]
	if !ok {
		return entity.Outcome[entity.FeeEstimate]{}, fmt.Errorf("%w: %s", entity.ErrUnsupportedOperation, operation)
	}

	var reasons entity.DegradedReasons
	quote := gasQuote{gasLimit: units}
	price, err := e.gasPrice(ctx, def)
	if err == nil {
		quote.gasPrice = price
		return e.buildEstimate(ctx, def, quote, quote.totalWei(), reasons, false), nil
	}

	recordFallback(e.fallbacks, "fee_estimator")
	e.logger.Warn("Gas price unavailable, using static fee table",
		zap.String("network", def.Identifier),
		zap.String("operation", string(operation)),
		zap.Error(err))
	row, ok := staticFeeTable[def.Identifier]
	if !ok {
		row = staticFeeTable["arbitrum"]
	}
	total, perr := utils.ParseUnits(row[operation], 18)
	if perr != nil {
		return entity.Outcome[entity.FeeEstimate]{}, perr
	}
	quote.gasPrice = new(big.Int).Quo(total, new(big.Int).SetUint64(units))
	reasons.Note("gas", true, fmt.Sprintf("gas price unavailable: %v", err))
	return e.buildEstimate(ctx, def, quote, total, reasons, true), nil
}

func (e *feeEstimatorImpl) gasPrice(ctx context.Context, def entity.NetworkDefinition) (*big.Int, error) {
	client, err := e.clients.GetClient(ctx, def)
	if err != nil {
		return nil, err
	}
	return client.SuggestGasPrice(ctx)
}

func (e *feeEstimatorImpl) liveQuote(ctx context.Context, def entity.NetworkDefinition, tx entity.TransactionRequest) (gasQuote, error) {
	client, err := e.clients.GetClient(ctx, def)
	if err != nil {
		return gasQuote{}, err
	}
	data, err := decodeHexData(tx.Data)
	if err != nil {
		return gasQuote{}, fmt.Errorf("invalid calldata: %w", err)
	}

	gasLimit, err := client.EstimateGas(ctx, port.CallMsg{From: tx.From, To: tx.To, Data: data, Value: parseWei(tx.Value)})
	if err != nil {
		return gasQuote{}, fmt.Errorf("eth_estimateGas: %w", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return gasQuote{}, fmt.Errorf("eth_gasPrice: %w", err)
	}
	quote := gasQuote{gasLimit: gasLimit, gasPrice: gasPrice}

	baseFee, err := client.LatestBaseFee(ctx)
	if err != nil {
		return gasQuote{}, fmt.Errorf("latest header: %w", err)
	}
	if baseFee != nil {
		tip, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			return gasQuote{}, fmt.Errorf("eth_maxPriorityFeePerGas: %w", err)
		}
		quote.maxPriorityFeePerGas = tip
		quote.maxFeePerGas = new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	}
	return quote, nil
}

func (e *feeEstimatorImpl) fallbackQuote() gasQuote {
	return gasQuote{
		gasLimit: e.cfg.Fees.FallbackGasLimit,
		gasPrice: new(big.Int).Mul(new(big.Int).SetUint64(e.cfg.Fees.FallbackGasPriceGwei), gwei),
	}
}

// buildEstimate derives the fee fields. A fee built from fallback gas figures is priced
// at the configured rate.
func (e *feeEstimatorImpl) buildEstimate(ctx context.Context, def entity.NetworkDefinition, quote gasQuote, totalWei *big.Int, reasons entity.DegradedReasons, gasFellBack bool) entity.Outcome[entity.FeeEstimate] {
	rate := e.cfg.NativeUSDRateFor(def.Identifier)
	if !gasFellBack {
		var rateReason string
		rate, rateReason = e.nativeUSDRate(ctx, def)
		reasons.Note("price", rateReason != "", rateReason)
	}

	totalNative := utils.MustFormatBigInt(totalWei, 18)
	totalUSD, err := utils.MulDecimalStrings(totalNative, rate, 2)
	if err != nil {
		e.logger.Error("Failed to convert fee to USD", zap.String("rate", rate), zap.Error(err))
		totalUSD = "0.00"
	}

	fee := entity.FeeEstimate{
		GasLimit:       strconv.FormatUint(quote.gasLimit, 10),
		GasPrice:       quote.gasPrice.String(),
		TotalFeeETH:    totalNative,
		TotalFeeNative: totalNative,
		TotalFeeUSD:    totalUSD,
		NativeSymbol:   def.NativeSymbol,
		NativeUSDRate:  rate,
		Degraded:       reasons.Any(),
	}
	if quote.maxFeePerGas != nil {
		fee.MaxFeePerGas = quote.maxFeePerGas.String()
		fee.MaxPriorityFeePerGas = quote.maxPriorityFeePerGas.String()
	}
	if reasons.Any() {
		return entity.Fallback(fee, strings.Join(reasons, "; "))
	}
	return entity.Live(fee)
}

// nativeUSDRate returns the live price of the wrapped native token, or the configured
// fixed rate together with the reason it was used.
func (e *feeEstimatorImpl) nativeUSDRate(ctx context.Context, def entity.NetworkDefinition) (string, string) {
	if e.prices != nil && def.DEXScreenerChainID != "" && def.WrappedNativeTokenAddress != "" {
		price, err := e.prices.GetPriceUSD(ctx, def.DEXScreenerChainID, def.WrappedNativeTokenAddress)
		if err == nil {
			return price, ""
		}
		e.logger.Debug("Native price unavailable, using configured rate", zap.String("network", def.Identifier), zap.Error(err))
		recordFallback(e.fallbacks, "native_price")
		return e.cfg.NativeUSDRateFor(def.Identifier), fmt.Sprintf("native price unavailable: %v", err)
	}
	recordFallback(e.fallbacks, "native_price")
	return e.cfg.NativeUSDRateFor(def.Identifier), "native price oracle not configured"
}
