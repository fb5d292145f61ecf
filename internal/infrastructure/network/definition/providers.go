package networkdefinition

import (
	"sort"
	"strconv"
	"strings"

	"aura_gateway/internal/config"
	"aura_gateway/internal/domain/entity"

	"go.uber.org/zap"
)

const (
	uniswapV3Router   = "0xE592427A0AEce92De3Edee1F18E0157C05861564"
	uniswapV3QuoterV2 = "0x61fFE014bA17989E743c5F6cB21bF9697530B21e"
	aaveV3PoolL2      = "0x794a61358D6845594F94dc1DB02A252b5b4814aD"
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:                   1,
		Name:                      "Ethereum Mainnet",
		Identifier:                "ethereum",
		Aliases:                   []string{"eth", "mainnet", "ethereum mainnet"},
		NativeSymbol:              "ETH",
		NativeName:                "Ether",
		Decimals:                  18,
		PrimaryRPCURL:             "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:           []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL:          "https://etherscan.io",
		DEXScreenerChainID:        "ethereum",
		WrappedNativeTokenAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", // WETH
		SwapRouterAddress:         uniswapV3Router,
		SwapRouterKind:            entity.SwapRouterV3,
		QuoterAddress:             uniswapV3QuoterV2,
		AavePoolAddress:           "0x87870Bca3F3fD6335C3F4ce8392D69350B4fA4E2",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:                   42161,
		Name:                      "Arbitrum One",
		Identifier:                "arbitrum",
		Aliases:                   []string{"arb", "arbitrum one"},
		NativeSymbol:              "ETH",
		NativeName:                "Ether",
		Decimals:                  18,
		PrimaryRPCURL:             "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:           []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL:          "https://arbiscan.io",
		DEXScreenerChainID:        "arbitrum",
		WrappedNativeTokenAddress: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // WETH on Arbitrum
		SwapRouterAddress:         uniswapV3Router,
		SwapRouterKind:            entity.SwapRouterV3,
		QuoterAddress:             uniswapV3QuoterV2,
		AavePoolAddress:           aaveV3PoolL2,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:                   137,
		Name:                      "Polygon PoS",
		Identifier:                "polygon",
		Aliases:                   []string{"matic", "pol", "polygon mainnet", "polygon pos"},
		NativeSymbol:              "MATIC",
		NativeName:                "Matic",
		Decimals:                  18,
		PrimaryRPCURL:             "https://polygon-rpc.com/",
		FallbackRPCURLs:           []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL:          "https://polygonscan.com",
		DEXScreenerChainID:        "polygon",
		WrappedNativeTokenAddress: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", // WMATIC
		SwapRouterAddress:         uniswapV3Router,
		SwapRouterKind:            entity.SwapRouterV3,
		QuoterAddress:             uniswapV3QuoterV2,
		AavePoolAddress:           aaveV3PoolL2,
	}
	Optimism = entity.NetworkDefinition{
		ChainID:                   10,
		Name:                      "Optimism",
		Identifier:                "optimism",
		Aliases:                   []string{"op", "optimism mainnet"},
		NativeSymbol:              "ETH",
		NativeName:                "Ether",
		Decimals:                  18,
		PrimaryRPCURL:             "https://mainnet.optimism.io",
		FallbackRPCURLs:           []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL:          "https://optimistic.etherscan.io",
		DEXScreenerChainID:        "optimism",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on OP Stack
		SwapRouterAddress:         uniswapV3Router,
		SwapRouterKind:            entity.SwapRouterV3,
		QuoterAddress:             uniswapV3QuoterV2,
		AavePoolAddress:           aaveV3PoolL2,
	}
	Base = entity.NetworkDefinition{
		ChainID:                   8453,
		Name:                      "Base Mainnet",
		Identifier:                "base",
		Aliases:                   []string{"base mainnet"},
		NativeSymbol:              "ETH",
		NativeName:                "Ether",
		Decimals:                  18,
		PrimaryRPCURL:             "https://1rpc.io/base",
		FallbackRPCURLs:           []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL:          "https://basescan.org",
		DEXScreenerChainID:        "base",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Base
		SwapRouterAddress:         "0x2626664c2603336E57B271c5C0b26F421741e481",
		SwapRouterKind:            entity.SwapRouterV3_02,
		QuoterAddress:             "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a",
		AavePoolAddress:           "0xA238Dd80C259a72e81d7e4664a9801593F98d1c5",
	}
	BSC = entity.NetworkDefinition{
		ChainID:                   56,
		Name:                      "BNB Smart Chain",
		Identifier:                "bnb",
		Aliases:                   []string{"bsc", "binance", "bnb chain", "bnb smart chain"},
		NativeSymbol:              "BNB",
		NativeName:                "BNB",
		Decimals:                  18,
		PrimaryRPCURL:             "https://1rpc.io/bnb",
		FallbackRPCURLs:           []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL:          "https://bscscan.com",
		DEXScreenerChainID:        "bsc",
		WrappedNativeTokenAddress: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", // WBNB
		SwapRouterAddress:         "0xB971eF87ede563556b2ED4b1C0b0019111Dd85d2",
		SwapRouterKind:            entity.SwapRouterV3_02,
		QuoterAddress:             "0x78D78E420Da98ad378D7799bE8f4AF69033EB077",
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:                   43114,
		Name:                      "Avalanche C-Chain",
		Identifier:                "avalanche",
		Aliases:                   []string{"avax", "avalanche c-chain"},
		NativeSymbol:              "AVAX",
		NativeName:                "Avalanche",
		Decimals:                  18,
		PrimaryRPCURL:             "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:           []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		BlockExplorerURL:          "https://snowtrace.io",
		DEXScreenerChainID:        "avalanche",
		WrappedNativeTokenAddress: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // WAVAX
		SwapRouterAddress:         "0xbb00FF08d01D300023C629E8fFfFcb65A5a578cE",
		SwapRouterKind:            entity.SwapRouterV3_02,
		QuoterAddress:             "0xbe0F5544EC67e9B3b2D979aaA43f18Fd87E6257F",
		AavePoolAddress:           aaveV3PoolL2,
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = []entity.NetworkDefinition{
	Ethereum,
	Arbitrum,
	Polygon,
	Optimism,
	Base,
	BSC,
	Avalanche,
}

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger  *zap.Logger
	defs    map[string]entity.NetworkDefinition // identifier -> definition
	aliases map[string]string                   // lowercase alias or identifier -> identifier
	ordered []string
}

// NewNetworkDefinitionProvider creates a provider over the built-in networks,
// applying the RPC overrides from configuration.
func NewNetworkDefinitionProvider(nodes []config.NetworkNode, logger *zap.Logger) *NetworkDefinitionProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &NetworkDefinitionProvider{
		logger:  logger.Named("NetworkDefinitionProvider"),
		defs:    make(map[string]entity.NetworkDefinition, len(allKnownDefinitions)),
		aliases: make(map[string]string),
	}

	for _, def := range allKnownDefinitions {
		def.Aliases = append([]string(nil), def.Aliases...)
		def.FallbackRPCURLs = append([]string(nil), def.FallbackRPCURLs...)
		p.defs[def.Identifier] = def
		p.ordered = append(p.ordered, def.Identifier)
		p.aliases[def.Identifier] = def.Identifier
		for _, alias := range def.Aliases {
			p.aliases[alias] = def.Identifier
		}
	}

	for _, node := range nodes {
		id, ok := p.aliases[normalizeName(node.Identifier)]
		if !ok {
			p.logger.Warn("RPC override for unknown network, skipping", zap.String("network", node.Identifier))
			continue
		}
		def := p.defs[id]
		if node.RPCURL != "" {
			def.PrimaryRPCURL = node.RPCURL
		}
		if len(node.FallbackRPCURLs) > 0 {
			def.FallbackRPCURLs = append([]string(nil), node.FallbackRPCURLs...)
		}
		p.defs[id] = def
		p.logger.Debug("Applied RPC override", zap.String("network", id), zap.String("primaryRpcUrl", def.PrimaryRPCURL))
	}

	p.logger.Info("NetworkDefinitionProvider initialized", zap.Int("networks", len(p.defs)))
	return p
}

// NormalizeNetwork maps an alias or a chain ID to its canonical identifier. Unknown names
// are returned trimmed and lower-cased so that validation can report them.
func (p *NetworkDefinitionProvider) NormalizeNetwork(name string) string {
	cleaned := normalizeName(name)
	if id, ok := p.aliases[cleaned]; ok {
		return id
	}
	if def, ok := p.byChainIDString(cleaned); ok {
		return def.Identifier
	}
	return cleaned
}

// GetAllNetworkDefinitions returns all network definitions in registry order.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.ordered))
	for _, id := range p.ordered {
		defs = append(defs, p.defs[id])
	}
	return defs
}

// GetNetworkDefinitionByName returns a network definition by identifier, alias or chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(nameOrAlias string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	cleaned := normalizeName(nameOrAlias)
	if id, ok := p.aliases[cleaned]; ok {
		return p.defs[id], true
	}
	return p.byChainIDString(cleaned)
}

// byChainIDString resolves a decimal ("42161") or hex ("0xa4b1") chain ID, the forms
// wallets report.
func (p *NetworkDefinitionProvider) byChainIDString(s string) (entity.NetworkDefinition, bool) {
	var (
		id  uint64
		err error
	)
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		id, err = strconv.ParseUint(hex, 16, 64)
	} else {
		id, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return entity.NetworkDefinition{}, false
	}
	return p.GetNetworkDefinitionByChainID(id)
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.defs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Identifiers returns the sorted canonical identifiers.
func (p *NetworkDefinitionProvider) Identifiers() []string {
	ids := append([]string(nil), p.ordered...)
	sort.Strings(ids)
	return ids
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
