package port

import (
	"context"
	"math/big"

	"aura_gateway/internal/domain/entity"
)

// SwapRouteRequest describes a single-hop exact-input swap.
// TokenIn and TokenOut are ERC-20 addresses; native legs are already mapped to the wrapped token.
type SwapRouteRequest struct {
	Network     entity.NetworkDefinition
	TokenIn     string
	TokenOut    string
	AmountIn    *big.Int
	Recipient   string
	Deadline    int64
	SlippageBps int64
	NativeIn    bool
	NativeOut   bool
}

// SwapRoute is the selected pool and the encoded router call.
type SwapRoute struct {
	FeeTier          uint32
	AmountOut        *big.Int
	AmountOutMinimum *big.Int
	GasEstimate      uint64
	To               string
	Data             []byte
	Value            *big.Int
}

// SwapRouter finds a route for a swap and encodes the router call.
type SwapRouter interface {
	Route(ctx context.Context, req SwapRouteRequest) (SwapRoute, error)
}
