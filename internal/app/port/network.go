package port

import (
	"context"
	"math/big"

	"aura_gateway/internal/domain/entity"
)

// CallMsg is a read-only contract call or a gas estimation request.
type CallMsg struct {
	From  string
	To    string
	Data  []byte
	Value *big.Int
}

// TokenMetadataResult holds the per-field outcome of an ERC-20 metadata batch.
type TokenMetadataResult struct {
	Decimals    uint8
	Symbol      string
	Name        string
	DecimalsErr error
	SymbolErr   error
	NameErr     error
}

// BlockchainClient defines the interface for interacting with a blockchain network.
// Implementations will be specific to network types (e.g., EVM).
type BlockchainClient interface {
	// ReadTokenMetadata reads decimals, symbol and name of an ERC-20 token in one batch.
	// A returned error means the whole batch failed; per-field failures are reported in the result.
	ReadTokenMetadata(ctx context.Context, tokenAddress string) (TokenMetadataResult, error)

	// GetBalances fetches native and token balances in one batch.
	GetBalances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error)

	EstimateGas(ctx context.Context, msg CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	// LatestBaseFee returns nil when the network has no EIP-1559 base fee.
	LatestBaseFee(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg CallMsg) ([]byte, error)
	// TransactionReceipt returns entity.ErrNotFound while the transaction is not mined.
	TransactionReceipt(ctx context.Context, txHash string) (entity.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a network definition by identifier or alias, case-insensitively.
	GetNetworkDefinitionByName(nameOrAlias string) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByChainID returns a network definition by chain ID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(ctx context.Context, networkDefinition entity.NetworkDefinition) (BlockchainClient, error)
}
