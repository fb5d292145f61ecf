package port

import (
	"context"

	"aura_gateway/internal/domain/entity"
)

// TokenProvider gives access to the known tokens of each network.
type TokenProvider interface {
	// LookupSymbol finds a token by upper-case symbol.
	LookupSymbol(networkIdentifier, symbol string) (entity.TokenEntry, bool)
	// LookupAddress finds a token by address, case-insensitively.
	LookupAddress(networkIdentifier, address string) (entity.TokenEntry, bool)
	// TokensByNetwork returns the known tokens of a network in table order.
	TokensByNetwork(networkIdentifier string) []entity.TokenEntry
}

// TokenPriceService resolves USD prices for tokens.
type TokenPriceService interface {
	// GetPriceUSD returns the USD price of a token as a decimal string.
	GetPriceUSD(ctx context.Context, dexScreenerChainID string, tokenAddress string) (string, error)
}
