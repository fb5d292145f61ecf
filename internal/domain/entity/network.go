package entity

// SwapRouterKind identifies which Uniswap V3 router ABI a network exposes.
type SwapRouterKind string

const (
	// SwapRouterV3 is the original SwapRouter, exactInputSingle takes a deadline.
	SwapRouterV3 SwapRouterKind = "v3"
	// SwapRouterV3_02 is SwapRouter02, exactInputSingle has no deadline field.
	SwapRouterV3_02 SwapRouterKind = "v3-02"
)

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"` // canonical key, e.g. "ethereum", "bnb"
	Aliases          []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName       string   `json:"nativeName" yaml:"nativeName"`
	Decimals         int32    `json:"decimals" yaml:"decimals"`
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`

	DEXScreenerChainID        string         `json:"dexScreenerChainId,omitempty" yaml:"dexScreenerChainId,omitempty"`
	WrappedNativeTokenAddress string         `json:"wrappedNativeTokenAddress" yaml:"wrappedNativeTokenAddress"`
	SwapRouterAddress         string         `json:"swapRouterAddress" yaml:"swapRouterAddress"`
	SwapRouterKind            SwapRouterKind `json:"swapRouterKind" yaml:"swapRouterKind"`
	QuoterAddress             string         `json:"quoterAddress" yaml:"quoterAddress"`
	AavePoolAddress           string         `json:"aavePoolAddress,omitempty" yaml:"aavePoolAddress,omitempty"`
}

// ExplorerTxURL returns the block explorer link for a transaction hash.
func (n NetworkDefinition) ExplorerTxURL(txHash string) string {
	if n.BlockExplorerURL == "" {
		return ""
	}
	return n.BlockExplorerURL + "/tx/" + txHash
}
