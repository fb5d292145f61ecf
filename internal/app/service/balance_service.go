package service

import (
	"context"
	"fmt"
	"math/big"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/utils"

	"go.uber.org/zap"
)

type balanceServiceImpl struct {
	networks port.NetworkDefinitionProvider
	clients  port.BlockchainClientProvider
	logger   *zap.Logger
}

// NewBalanceService creates the transfer feasibility checker.
func NewBalanceService(networks port.NetworkDefinitionProvider, clients port.BlockchainClientProvider, logger *zap.Logger) port.BalanceService {
	return &balanceServiceImpl{
		networks: networks,
		clients:  clients,
		logger:   logger.Named("BalanceService"),
	}
}

// CheckTransferFeasibility reads the native and token balances of from in one batch and
// checks them against the amount and the fee. An insufficient balance is reported both in
// the returned check and as an *entity.InsufficientFundsError.
func (s *balanceServiceImpl) CheckTransferFeasibility(
	ctx context.Context,
	network string,
	token entity.TokenInfo,
	amount string,
	from string,
	feeWei *big.Int,
) (entity.BalanceCheck, error) {
	def, err := lookupNetwork(s.networks, network)
	if err != nil {
		return entity.BalanceCheck{}, err
	}
	requested, err := parseAmount("amount", amount, token.Decimals)
	if err != nil {
		return entity.BalanceCheck{}, err
	}
	if feeWei == nil {
		feeWei = big.NewInt(0)
	}
	isNative := entity.IsNativeAddress(token.Address)

	requests := []entity.BalanceRequestItem{{
		ID:            "native",
		Type:          entity.NativeBalanceRequest,
		WalletAddress: from,
		TokenAddress:  entity.ZeroAddress,
		TokenSymbol:   def.NativeSymbol,
		TokenDecimals: 18,
	}}
	if !isNative {
		requests = append(requests, entity.BalanceRequestItem{
			ID:            "token",
			Type:          entity.TokenBalanceRequest,
			WalletAddress: from,
			TokenAddress:  token.Address,
			TokenSymbol:   token.Symbol,
			TokenDecimals: token.Decimals,
		})
	}

	client, err := s.clients.GetClient(ctx, def)
	if err != nil {
		return entity.BalanceCheck{}, fmt.Errorf("%w: %v", entity.ErrExternalService, err)
	}
	results, err := client.GetBalances(ctx, requests)
	if err != nil {
		return entity.BalanceCheck{}, fmt.Errorf("%w: failed to read balances: %v", entity.ErrExternalService, err)
	}
	for _, r := range results {
		if r.Error != nil || r.Balance == nil {
			return entity.BalanceCheck{}, fmt.Errorf("%w: failed to read %s balance: %v", entity.ErrExternalService, r.TokenSymbol, r.Error)
		}
	}

	nativeBalance := results[0].Balance
	tokenBalance := nativeBalance
	if !isNative {
		tokenBalance = results[1].Balance
	}

	check := entity.BalanceCheck{
		Sufficient:     true,
		TokenSymbol:    token.Symbol,
		CurrentBalance: utils.MustFormatBigInt(tokenBalance, token.Decimals),
		Requested:      utils.MustFormatBigInt(requested, token.Decimals),
		NativeBalance:  utils.MustFormatBigInt(nativeBalance, 18),
		RequiredFee:    utils.MustFormatBigInt(feeWei, 18),
	}

	if requested.Cmp(tokenBalance) > 0 {
		check.Sufficient = false
		check.AfterTransfer = "0"
		check.Shortfall = utils.MustFormatBigInt(new(big.Int).Sub(requested, tokenBalance), token.Decimals)
		s.logger.Info("Insufficient token balance",
			zap.String("network", def.Identifier),
			zap.String("from", from),
			zap.String("token", token.Symbol),
			zap.String("requested", check.Requested),
			zap.String("available", check.CurrentBalance))
		return check, &entity.InsufficientFundsError{
			Kind:      entity.ErrInsufficientBalance,
			Symbol:    token.Symbol,
			Required:  check.Requested,
			Available: check.CurrentBalance,
			Shortfall: check.Shortfall,
		}
	}
	check.AfterTransfer = utils.MustFormatBigInt(new(big.Int).Sub(tokenBalance, requested), token.Decimals)

	// The fee is paid from what is left of the native balance after a native transfer.
	nativeNeeded := new(big.Int).Set(feeWei)
	if isNative {
		nativeNeeded.Add(nativeNeeded, requested)
	}
	if nativeNeeded.Cmp(nativeBalance) > 0 {
		check.Sufficient = false
		check.Shortfall = utils.MustFormatBigInt(new(big.Int).Sub(nativeNeeded, nativeBalance), 18)
		s.logger.Info("Insufficient native balance for gas",
			zap.String("network", def.Identifier),
			zap.String("from", from),
			zap.String("requiredFee", check.RequiredFee),
			zap.String("nativeBalance", check.NativeBalance))
		available := nativeBalance
		if isNative {
			available = new(big.Int).Sub(nativeBalance, requested)
		}
		return check, &entity.InsufficientFundsError{
			Kind:      entity.ErrInsufficientGas,
			Symbol:    def.NativeSymbol,
			Required:  check.RequiredFee,
			Available: utils.MustFormatBigInt(available, 18),
			Shortfall: check.Shortfall,
		}
	}
	return check, nil
}
