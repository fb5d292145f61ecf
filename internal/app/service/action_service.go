package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPlatform      = "Uniswap"
	actionEstimatedTime  = "2-5 minutes"
	defaultRiskLevel     = "moderate"
	routingPlaceholder   = "placeholder"
	routingUniswapV3     = "uniswap-v3"
	routingNotApplicable = "direct"
)

var riskMatrix = map[entity.Operation]map[string]string{
	entity.OperationSwap:   {"uniswap": "low", "sushiswap": "low", "1inch": "moderate"},
	entity.OperationBridge: {"stargate": "moderate", "hop": "moderate", "synapse": "high"},
	entity.OperationStake:  {"aave": "low", "compound": "low", "yearn": "moderate"},
}

// RiskLevel rates an operation on a platform.
func RiskLevel(op entity.Operation, platform string) string {
	if level, ok := riskMatrix[op][strings.ToLower(platform)]; ok {
		return level
	}
	return defaultRiskLevel
}

type actionServiceImpl struct {
	networks port.NetworkDefinitionProvider
	swaps    port.SwapBuilder
	builder  port.TxBuilder
	fees     port.FeeEstimator
	store    port.KVStore[entity.ActionRecord]
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewActionService creates the action service. Records live in store for ttl.
func NewActionService(
	networks port.NetworkDefinitionProvider,
	swaps port.SwapBuilder,
	builder port.TxBuilder,
	fees port.FeeEstimator,
	store port.KVStore[entity.ActionRecord],
	ttl time.Duration,
	logger *zap.Logger,
) port.ActionService {
	return &actionServiceImpl{
		networks: networks,
		swaps:    swaps,
		builder:  builder,
		fees:     fees,
		store:    store,
		ttl:      ttl,
		logger:   logger.Named("ActionService"),
		now:      time.Now,
	}
}

// Prepare builds the transaction of a swap, stake or bridge, prices it and stores the record.
func (s *actionServiceImpl) Prepare(ctx context.Context, req port.ActionRequest) (entity.ActionRecord, error) {
	def, err := lookupNetwork(s.networks, req.Network)
	if err != nil {
		return entity.ActionRecord{}, err
	}
	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		platform = defaultPlatform
	}

	now := s.now()
	rec := entity.ActionRecord{
		ActionID:    "action_" + uuid.NewString(),
		Operation:   req.Operation,
		Platform:    platform,
		Network:     def.Identifier,
		FromAddress: req.FromAddress,
		Status:      entity.StatusPrepared,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
		Metadata: entity.ActionMetadata{
			TokenIn:       req.TokenIn,
			TokenOut:      req.TokenOut,
			AmountIn:      req.AmountIn,
			Slippage:      req.Slippage,
			Deadline:      req.Deadline,
			EstimatedTime: actionEstimatedTime,
			RiskLevel:     RiskLevel(req.Operation, platform),
		},
	}
	var reasons entity.DegradedReasons

	switch req.Operation {
	case entity.OperationSwap:
		res, err := s.swaps.BuildSwap(ctx, port.SwapParams{
			Network:   def.Identifier,
			TokenIn:   req.TokenIn,
			TokenOut:  req.TokenOut,
			AmountIn:  req.AmountIn,
			Recipient: req.FromAddress,
			Deadline:  req.Deadline,
			Slippage:  req.Slippage,
		})
		if err != nil {
			return entity.ActionRecord{}, err
		}
		rec.TransactionRequest = res.Transaction.Value
		rec.Approvals = res.Approvals
		rec.Metadata.Deadline = res.Deadline
		rec.Metadata.Slippage = formatBps(res.SlippageBps)
		rec.Metadata.FeeTier = res.FeeTier
		rec.Metadata.AmountOut = res.AmountOut
		rec.Metadata.AmountOutMin = res.AmountOutMinimum
		rec.Metadata.Routing = routingUniswapV3
		if res.Transaction.Degraded() {
			rec.Metadata.Routing = routingPlaceholder
		}
		reasons.Note("swap", res.Transaction.Degraded(), res.Transaction.Reason)
		reasons.Note("tokenIn", res.TokenIn.Degraded(), res.TokenIn.Reason)
		reasons.Note("tokenOut", res.TokenOut.Degraded(), res.TokenOut.Reason)

	case entity.OperationStake:
		res, err := s.builder.BuildStake(ctx, port.StakeParams{
			Network:  def.Identifier,
			Platform: platform,
			Token:    req.TokenIn,
			Amount:   req.AmountIn,
			From:     req.FromAddress,
		})
		if err != nil {
			return entity.ActionRecord{}, fmt.Errorf("failed to build stake transaction: %w", err)
		}
		s.applyBuild(&rec, res, &reasons, "stake")

	case entity.OperationBridge:
		res, err := s.builder.BuildBridge(ctx, port.BridgeParams{
			Network:            def.Identifier,
			DestinationNetwork: req.TokenOut,
			Token:              req.TokenIn,
			Amount:             req.AmountIn,
			From:               req.FromAddress,
		})
		if err != nil {
			return entity.ActionRecord{}, fmt.Errorf("failed to build bridge transaction: %w", err)
		}
		s.applyBuild(&rec, res, &reasons, "bridge")

	default:
		return entity.ActionRecord{}, fmt.Errorf("%w: %s", entity.ErrUnsupportedOperation, req.Operation)
	}

	fees, err := s.fees.Estimate(ctx, def.Identifier, rec.TransactionRequest)
	if err != nil {
		return entity.ActionRecord{}, err
	}
	rec.EstimatedFees = fees.Value
	reasons.Note("fees", fees.Degraded(), fees.Reason)

	rec.Degraded = reasons.Any()
	rec.DegradedReasons = reasons
	rec.History = []entity.StatusChange{{Status: entity.StatusPrepared, At: now}}

	s.store.Put(rec.ActionID, rec, s.ttl)
	s.logger.Info("Action prepared",
		zap.String("actionId", rec.ActionID),
		zap.String("operation", string(rec.Operation)),
		zap.String("network", rec.Network),
		zap.Bool("degraded", rec.Degraded))
	return rec, nil
}

func (s *actionServiceImpl) applyBuild(rec *entity.ActionRecord, res port.BuildResult, reasons *entity.DegradedReasons, component string) {
	rec.TransactionRequest = res.Transaction.Value
	rec.Approvals = res.Approvals
	rec.Metadata.Routing = routingNotApplicable
	if res.Transaction.Degraded() {
		rec.Metadata.Routing = routingPlaceholder
	}
	reasons.Note(component, res.Transaction.Degraded(), res.Transaction.Reason)
	reasons.Note("token", res.Token.Degraded(), res.Token.Reason)
}

// Get returns a stored action.
func (s *actionServiceImpl) Get(actionID string) (entity.ActionRecord, error) {
	rec, ok := s.store.Get(actionID)
	if !ok {
		return entity.ActionRecord{}, fmt.Errorf("%w: action %s", entity.ErrNotFound, actionID)
	}
	return rec, nil
}

// UpdateStatus appends a status change to a stored action, keeping its expiry.
func (s *actionServiceImpl) UpdateStatus(actionID string, status entity.ActionStatus, txHash string, errMsg string) (entity.ActionRecord, error) {
	rec, err := s.Get(actionID)
	if err != nil {
		return entity.ActionRecord{}, err
	}
	now := s.now()
	rec.Status = status
	if txHash != "" {
		rec.TxHash = txHash
	}
	rec.Error = errMsg
	rec.UpdatedAt = now
	rec.History = append(rec.History, entity.StatusChange{Status: status, TxHash: txHash, Error: errMsg, At: now})

	remaining := rec.ExpiresAt.Sub(now)
	if remaining <= 0 {
		s.store.Expire(actionID)
		return entity.ActionRecord{}, fmt.Errorf("%w: action %s", entity.ErrNotFound, actionID)
	}
	s.store.Put(actionID, rec, remaining)
	return rec, nil
}

// formatBps renders basis points as a percentage, e.g. 50 -> "0.5".
func formatBps(bps int64) string {
	whole, frac := bps/100, bps%100
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%02d", whole, frac), "0")
}
