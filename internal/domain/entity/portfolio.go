package entity

import (
	"bytes"
	"strconv"
)

// FlexString is a string field that also accepts a bare JSON number.
// The AURA API is not consistent about quoting numeric values.
type FlexString string

// UnmarshalJSON accepts "1.5", 1.5 and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*f = FlexString(data)
	return nil
}

// PortfolioToken is a token balance inside a portfolio network.
type PortfolioToken struct {
	Address    string     `json:"address"`
	Symbol     string     `json:"symbol"`
	Balance    FlexString `json:"balance"`
	BalanceUSD FlexString `json:"balanceUSD"`
	Network    string     `json:"network"`
	Decimals   int        `json:"decimals,omitempty"`
	LogoURI    string     `json:"logoURI,omitempty"`
}

// PortfolioNetwork identifies the network a group of balances belongs to.
type PortfolioNetwork struct {
	Name        string     `json:"name"`
	ChainID     FlexString `json:"chainId"`
	RPCURL      string     `json:"rpcUrl,omitempty"`
	ExplorerURL string     `json:"explorerUrl,omitempty"`
}

// NetworkTokens represents all token balances for a specific network.
type NetworkTokens struct {
	Network       PortfolioNetwork `json:"network"`
	Tokens        []PortfolioToken `json:"tokens"`
	TotalValueUSD FlexString       `json:"totalValueUSD"`
}

// WalletPortfolio represents the aggregated balances of a wallet as reported by AURA.
type WalletPortfolio struct {
	Address       string          `json:"address"`
	TotalValueUSD FlexString      `json:"totalValueUSD"`
	Networks      []NetworkTokens `json:"networks"`
}

// StrategyPlatform is a protocol a strategy action runs on.
type StrategyPlatform struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StrategyAction is one step of a strategy. The enrichment fields are filled by the gateway.
type StrategyAction struct {
	Tokens       string             `json:"tokens"`
	Description  string             `json:"description"`
	Platforms    []StrategyPlatform `json:"platforms"`
	Networks     []string           `json:"networks"`
	Operations   []string           `json:"operations"`
	APY          FlexString         `json:"apy,omitempty"`
	Risk         string             `json:"risk,omitempty"`
	EstimatedGas FlexString         `json:"estimatedGas,omitempty"`
	Slippage     FlexString         `json:"slippage,omitempty"`

	ID            string `json:"id,omitempty"`
	Executable    bool   `json:"executable,omitempty"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
	Complexity    string `json:"complexity,omitempty"`
}

// Strategy is a recommendation produced by one of AURA's models.
type Strategy struct {
	Name          string           `json:"name"`
	Risk          string           `json:"risk"`
	ExpectedYield FlexString       `json:"expectedYield"`
	Timeframe     string           `json:"timeframe"`
	Description   string           `json:"description"`
	Actions       []StrategyAction `json:"actions"`
}

// LLMInfo names the model behind a strategy set.
type LLMInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// StrategySet groups the strategies proposed by a single model.
type StrategySet struct {
	LLM      LLMInfo    `json:"llm"`
	Response []Strategy `json:"response"`
}

// StrategyResponse is the AURA strategies payload.
type StrategyResponse struct {
	Strategies []StrategySet `json:"strategies"`
}
