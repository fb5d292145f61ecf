package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	txStatusPending = "pending"
	txStatusSuccess = "success"
	txStatusFailed  = "failed"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

type transferServiceImpl struct {
	networks port.NetworkDefinitionProvider
	clients  port.BlockchainClientProvider
	builder  port.TxBuilder
	fees     port.FeeEstimator
	balances port.BalanceService
	store    port.KVStore[entity.TransferRecord]
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewTransferService creates the transfer service.
func NewTransferService(
	networks port.NetworkDefinitionProvider,
	clients port.BlockchainClientProvider,
	builder port.TxBuilder,
	fees port.FeeEstimator,
	balances port.BalanceService,
	store port.KVStore[entity.TransferRecord],
	ttl time.Duration,
	logger *zap.Logger,
) port.TransferService {
	return &transferServiceImpl{
		networks: networks,
		clients:  clients,
		builder:  builder,
		fees:     fees,
		balances: balances,
		store:    store,
		ttl:      ttl,
		logger:   logger.Named("TransferService"),
		now:      time.Now,
	}
}

// Prepare builds and prices a transfer and checks that the sender can afford it.
func (s *transferServiceImpl) Prepare(ctx context.Context, req port.TransferRequest) (entity.TransferRecord, error) {
	def, err := lookupNetwork(s.networks, req.Network)
	if err != nil {
		return entity.TransferRecord{}, err
	}
	if !IsAddress(req.FromAddress) {
		return entity.TransferRecord{}, entity.NewValidationError("fromAddress", "must be a 0x-prefixed 40 hex character address")
	}

	built, err := s.builder.BuildTransfer(ctx, port.TransferParams{
		Network:   def.Identifier,
		Token:     req.Token,
		Amount:    req.Amount,
		From:      req.FromAddress,
		Recipient: req.ToAddress,
	})
	if err != nil {
		return entity.TransferRecord{}, fmt.Errorf("failed to build transfer transaction: %w", err)
	}

	var reasons entity.DegradedReasons
	reasons.Note("token", built.Token.Degraded(), built.Token.Reason)

	fees, err := s.fees.Estimate(ctx, def.Identifier, built.Transaction.Value)
	if err != nil {
		return entity.TransferRecord{}, err
	}
	reasons.Note("fees", fees.Degraded(), fees.Reason)

	feeWei, err := utils.ParseUnits(fees.Value.TotalFeeNative, 18)
	if err != nil {
		feeWei = big.NewInt(0)
	}

	check, err := s.balances.CheckTransferFeasibility(ctx, def.Identifier, built.Token.Value, req.Amount, req.FromAddress, feeWei)
	if err != nil {
		var funds *entity.InsufficientFundsError
		if errors.As(err, &funds) {
			return entity.TransferRecord{}, err
		}
		if !errors.Is(err, entity.ErrExternalService) {
			return entity.TransferRecord{}, err
		}
		s.logger.Warn("Balance check unavailable", zap.String("network", def.Identifier), zap.Error(err))
		reasons.Note("balance", true, err.Error())
	}

	now := s.now()
	rec := entity.TransferRecord{
		TransferID:         "transfer_" + uuid.NewString(),
		FromAddress:        req.FromAddress,
		ToAddress:          req.ToAddress,
		Token:              built.Token.Value,
		Amount:             req.Amount,
		Network:            def.Identifier,
		Memo:               req.Memo,
		TransactionRequest: built.Transaction.Value,
		EstimatedFees:      fees.Value,
		Status:             entity.StatusPrepared,
		BalanceCheck:       check,
		Degraded:           reasons.Any(),
		DegradedReasons:    reasons,
		CreatedAt:          now,
		ExpiresAt:          now.Add(s.ttl),
	}
	s.store.Put(rec.TransferID, rec, s.ttl)
	s.logger.Info("Transfer prepared",
		zap.String("transferId", rec.TransferID),
		zap.String("network", rec.Network),
		zap.String("token", rec.Token.Symbol),
		zap.String("amount", rec.Amount))
	return rec, nil
}

// Status reports whether a transaction is pending, succeeded or failed.
func (s *transferServiceImpl) Status(ctx context.Context, network string, txHash string) (port.TransactionStatus, error) {
	def, err := lookupNetwork(s.networks, network)
	if err != nil {
		return port.TransactionStatus{}, err
	}
	return transactionStatus(ctx, s.clients, def, txHash)
}

// transactionStatus looks up the receipt of txHash. A missing receipt means pending.
func transactionStatus(ctx context.Context, clients port.BlockchainClientProvider, def entity.NetworkDefinition, txHash string) (port.TransactionStatus, error) {
	if !txHashPattern.MatchString(txHash) {
		return port.TransactionStatus{}, entity.NewValidationError("txHash", "must be a 0x-prefixed 64 hex character hash")
	}
	status := port.TransactionStatus{
		TxHash:      txHash,
		Network:     def.Identifier,
		Status:      txStatusPending,
		ExplorerURL: def.ExplorerTxURL(txHash),
	}

	client, err := clients.GetClient(ctx, def)
	if err != nil {
		return port.TransactionStatus{}, fmt.Errorf("%w: %v", entity.ErrExternalService, err)
	}
	receipt, err := client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, entity.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return port.TransactionStatus{}, fmt.Errorf("%w: failed to fetch receipt: %v", entity.ErrExternalService, err)
	}

	status.Status = txStatusFailed
	if receipt.Status == 1 {
		status.Status = txStatusSuccess
	}
	status.BlockNumber = receipt.BlockNumber
	status.GasUsed = strconv.FormatUint(receipt.GasUsed, 10)
	status.EffectiveGasPrice = receipt.EffectiveGasPrice

	head, err := client.BlockNumber(ctx)
	if err == nil && head >= receipt.BlockNumber {
		status.Confirmations = head - receipt.BlockNumber + 1
	}
	return status, nil
}
