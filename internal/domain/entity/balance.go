package entity

import "math/big"

// BalanceRequestType defines the type of balance request.
type BalanceRequestType int

const (
	// NativeBalanceRequest requests the native balance of a wallet.
	NativeBalanceRequest BalanceRequestType = iota
	// TokenBalanceRequest requests the balance of a specific token for a wallet.
	TokenBalanceRequest
)

// BalanceRequestItem represents a single item in a batch request for balances.
type BalanceRequestItem struct {
	ID            string
	Type          BalanceRequestType
	WalletAddress string
	TokenAddress  string
	TokenSymbol   string
	TokenDecimals uint8
}

// BalanceResultItem represents the result of a single balance request from a batch.
type BalanceResultItem struct {
	RequestID    string
	TokenAddress string
	TokenSymbol  string
	Decimals     uint8
	IsNative     bool
	Balance      *big.Int
	Error        error
}

// BalanceCheck is the outcome of a transfer feasibility check. All amounts are decimal strings.
type BalanceCheck struct {
	Sufficient     bool   `json:"sufficient"`
	TokenSymbol    string `json:"tokenSymbol"`
	CurrentBalance string `json:"currentBalance"`
	Requested      string `json:"requested"`
	AfterTransfer  string `json:"afterTransfer"`
	NativeBalance  string `json:"nativeBalance"`
	RequiredFee    string `json:"requiredFee"`
	Shortfall      string `json:"shortfall,omitempty"`
}
