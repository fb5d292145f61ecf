// Package chaintest provides an in-memory BlockchainClient for tests.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
)

// Client is a scriptable port.BlockchainClient. Zero values answer with zero balances and
// errors for everything that has no configured answer.
type Client struct {
	Metadata    port.TokenMetadataResult
	MetadataErr error

	// Balances are keyed by lower-case token address; the native balance uses entity.ZeroAddress.
	Balances    map[string]*big.Int
	BalancesErr error

	GasLimit    uint64
	GasErr      error
	GasPrice    *big.Int
	GasPriceErr error
	TipCap      *big.Int
	BaseFee     *big.Int

	// CallContractFn answers eth_call; nil means every call reverts.
	CallContractFn func(ctx context.Context, msg port.CallMsg) ([]byte, error)

	Receipts map[string]entity.Receipt
	Head     uint64

	mu    sync.Mutex
	Calls []string
}

var _ port.BlockchainClient = (*Client)(nil)

// ErrUnavailable is returned by unconfigured calls.
var ErrUnavailable = errors.New("chaintest: not configured")

func (c *Client) record(name string) {
	c.mu.Lock()
	c.Calls = append(c.Calls, name)
	c.mu.Unlock()
}

// CallCount reports how many times a method was called.
func (c *Client) CallCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.Calls {
		if call == name {
			n++
		}
	}
	return n
}

func (c *Client) ReadTokenMetadata(_ context.Context, _ string) (port.TokenMetadataResult, error) {
	c.record("ReadTokenMetadata")
	return c.Metadata, c.MetadataErr
}

func (c *Client) GetBalances(_ context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	c.record("GetBalances")
	if c.BalancesErr != nil {
		return nil, c.BalancesErr
	}
	out := make([]entity.BalanceResultItem, 0, len(requests))
	for _, r := range requests {
		key := strings.ToLower(r.TokenAddress)
		if r.Type == entity.NativeBalanceRequest {
			key = entity.ZeroAddress
		}
		bal, ok := c.Balances[key]
		if !ok || bal == nil {
			bal = big.NewInt(0)
		}
		out = append(out, entity.BalanceResultItem{
			RequestID:    r.ID,
			TokenAddress: r.TokenAddress,
			TokenSymbol:  r.TokenSymbol,
			Decimals:     r.TokenDecimals,
			IsNative:     r.Type == entity.NativeBalanceRequest,
			Balance:      new(big.Int).Set(bal),
		})
	}
	return out, nil
}

func (c *Client) EstimateGas(_ context.Context, _ port.CallMsg) (uint64, error) {
	c.record("EstimateGas")
	if c.GasErr != nil {
		return 0, c.GasErr
	}
	if c.GasLimit == 0 {
		return 0, ErrUnavailable
	}
	return c.GasLimit, nil
}

func (c *Client) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	c.record("SuggestGasPrice")
	if c.GasPriceErr != nil {
		return nil, c.GasPriceErr
	}
	if c.GasPrice == nil {
		return nil, ErrUnavailable
	}
	return new(big.Int).Set(c.GasPrice), nil
}

func (c *Client) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	c.record("SuggestGasTipCap")
	if c.TipCap == nil {
		return nil, ErrUnavailable
	}
	return new(big.Int).Set(c.TipCap), nil
}

func (c *Client) LatestBaseFee(_ context.Context) (*big.Int, error) {
	c.record("LatestBaseFee")
	if c.BaseFee == nil {
		return nil, nil
	}
	return new(big.Int).Set(c.BaseFee), nil
}

func (c *Client) CallContract(ctx context.Context, msg port.CallMsg) ([]byte, error) {
	c.record("CallContract")
	if c.CallContractFn == nil {
		return nil, errors.New("execution reverted")
	}
	return c.CallContractFn(ctx, msg)
}

func (c *Client) TransactionReceipt(_ context.Context, txHash string) (entity.Receipt, error) {
	c.record("TransactionReceipt")
	r, ok := c.Receipts[strings.ToLower(txHash)]
	if !ok {
		return entity.Receipt{}, entity.ErrNotFound
	}
	return r, nil
}

func (c *Client) BlockNumber(_ context.Context) (uint64, error) {
	c.record("BlockNumber")
	return c.Head, nil
}

// Provider hands out the same Client for every network, or Err when set.
type Provider struct {
	Client *Client
	Err    error
}

var _ port.BlockchainClientProvider = (*Provider)(nil)

func (p *Provider) GetClient(_ context.Context, _ entity.NetworkDefinition) (port.BlockchainClient, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Client, nil
}
