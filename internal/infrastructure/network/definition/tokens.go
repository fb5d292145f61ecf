package networkdefinition

import "aura_gateway/internal/domain/entity"

func native(symbol, name string) entity.TokenEntry {
	return entity.TokenEntry{Symbol: symbol, Address: entity.ZeroAddress, Decimals: 18, Name: name}
}

// StaticTokens is the built-in token mapping per network identifier.
// The native currency is listed under the zero address.
var StaticTokens = map[string][]entity.TokenEntry{ //nolint:gochecknoglobals // Global for definitions
	"ethereum": {
		native("ETH", "Ether"),
		{Symbol: "WETH", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "USDC", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6, Name: "Tether USD"},
		{Symbol: "DAI", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WBTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "UNI", Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", Decimals: 18, Name: "Uniswap"},
		{Symbol: "AAVE", Address: "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9", Decimals: 18, Name: "Aave Token"},
		{Symbol: "LINK", Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA", Decimals: 18, Name: "ChainLink Token"},
		{Symbol: "MKR", Address: "0x9f8F72AA9304c8B593d555F12eF6589cC3A579A2", Decimals: 18, Name: "Maker"},
	},
	"arbitrum": {
		native("ETH", "Ether"),
		{Symbol: "WETH", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "USDC", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Decimals: 6, Name: "Tether USD"},
		{Symbol: "DAI", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WBTC", Address: "0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "UNI", Address: "0xFa7F8980b0f1E64A2062791cc3b0871572f1F7f0", Decimals: 18, Name: "Uniswap"},
		{Symbol: "AAVE", Address: "0xba5DdD1f9d7F570dc94a51479a000E3BCE967196", Decimals: 18, Name: "Aave Token"},
		{Symbol: "LINK", Address: "0xf97f4df75117a78c1A5a0DBb814Af92458539FB4", Decimals: 18, Name: "ChainLink Token"},
	},
	"polygon": {
		native("MATIC", "Matic"),
		{Symbol: "WMATIC", Address: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", Decimals: 18, Name: "Wrapped Matic"},
		{Symbol: "USDC", Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Decimals: 6, Name: "USD Coin (PoS)"},
		{Symbol: "USDT", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6, Name: "Tether USD (PoS)"},
		{Symbol: "DAI", Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", Decimals: 18, Name: "Dai Stablecoin (PoS)"},
		{Symbol: "WETH", Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "WBTC", Address: "0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "UNI", Address: "0xb33EaAd8d922B1083446DC23f610c2567fB5180f", Decimals: 18, Name: "Uniswap"},
		{Symbol: "AAVE", Address: "0xD6DF932A45C0f255f85145f286eA0b292B21C90B", Decimals: 18, Name: "Aave Token"},
		{Symbol: "LINK", Address: "0x53E0bca35eC356BD5ddDFebbD1Fc0fD03FaBad39", Decimals: 18, Name: "ChainLink Token"},
	},
	"optimism": {
		native("ETH", "Ether"),
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "USDC", Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", Decimals: 6, Name: "Tether USD"},
		{Symbol: "DAI", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WBTC", Address: "0x68f180fcCe6836688e9084f035309E29Bf0A2095", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "UNI", Address: "0x6fd9d7AD17242c41f7131d257212c54A0e816691", Decimals: 18, Name: "Uniswap"},
		{Symbol: "AAVE", Address: "0x76FB31fb4af56892A25e32cFC43De717950c9278", Decimals: 18, Name: "Aave Token"},
		{Symbol: "LINK", Address: "0x350a791Bfc2C21F9Ed5d10980Dad2e2638ffa7f6", Decimals: 18, Name: "ChainLink Token"},
	},
	"base": {
		native("ETH", "Ether"),
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDBC", Address: "0xd9Aa342a7cA20616bB0b20b79A1e0A5726b2b206", Decimals: 6, Name: "USD Base Coin"},
		{Symbol: "DAI", Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WBTC", Address: "0x0555E30da8f98308EdB960aa94C0Db47230d2B9c", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "UNI", Address: "0xc3De830EA07524a0761646a6a4e4be0e114a3C83", Decimals: 18, Name: "Uniswap"},
	},
	"bnb": {
		native("BNB", "BNB"),
		{Symbol: "WBNB", Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Decimals: 18, Name: "Wrapped BNB"},
		{Symbol: "USDC", Address: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", Decimals: 18, Name: "Binance-Peg USD Coin"},
		{Symbol: "USDT", Address: "0x55d398326f99059fF775485246999027B3197955", Decimals: 18, Name: "Binance-Peg BSC-USD"},
		{Symbol: "DAI", Address: "0x1AF3F329e8BE154074D8769D1FFa4eE058B1DBc3", Decimals: 18, Name: "Binance-Peg Dai Token"},
		{Symbol: "ETH", Address: "0x2170Ed0880ac9A755fd29B2688956BD959F933F8", Decimals: 18, Name: "Binance-Peg Ethereum Token"},
		{Symbol: "BTCB", Address: "0x7130d2A12B9BCbFAe4f2634d864A1Ee1Ce3Ead9c", Decimals: 18, Name: "Binance-Peg BTCB Token"},
		{Symbol: "UNI", Address: "0xBf5140A22578168FD562DCcF235E5D43A02ce9B1", Decimals: 18, Name: "Binance-Peg Uniswap"},
		{Symbol: "CAKE", Address: "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82", Decimals: 18, Name: "PancakeSwap Token"},
	},
	"avalanche": {
		native("AVAX", "Avalanche"),
		{Symbol: "WAVAX", Address: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", Decimals: 18, Name: "Wrapped AVAX"},
		{Symbol: "USDC", Address: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7", Decimals: 6, Name: "TetherToken"},
		{Symbol: "DAI", Address: "0xd586E7F844cEa2F87f50152665BCbc2C279D8d70", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WETH", Address: "0x49D5c2BdFfac6CE2BFdB6640F4F80f226bc10bAB", Decimals: 18, Name: "Wrapped Ether"},
		{Symbol: "WBTC", Address: "0x50b7545627a5162F82A992c33b87aDc75187B218", Decimals: 8, Name: "Wrapped BTC"},
	},
}
