package port

import (
	"context"

	"aura_gateway/internal/domain/entity"
)

// AuraClient fetches portfolio analytics from the AURA API.
type AuraClient interface {
	GetPortfolio(ctx context.Context, address string) (entity.WalletPortfolio, error)
	GetStrategies(ctx context.Context, address string) (entity.StrategyResponse, error)
}
