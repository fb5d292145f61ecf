package entity

import "strings"

// ZeroAddress represents the Ethereum zero address. It stands for the native currency in token mappings.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// TokenEntry is a statically known token of a network.
type TokenEntry struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Address  string `json:"address" yaml:"address"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	Name     string `json:"name" yaml:"name"`
}

// TokenInfo holds the details of a specific token.
type TokenInfo struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// IsNativeAddress reports whether addr is the native currency sentinel.
func IsNativeAddress(addr string) bool {
	return strings.EqualFold(addr, ZeroAddress)
}
