package entity

// TransactionRequest is an unsigned EVM transaction descriptor ready to be handed to a wallet.
// Value and the fee fields are base-10 integer strings in wei.
type TransactionRequest struct {
	From                 string `json:"from,omitempty"`
	To                   string `json:"to"`
	Data                 string `json:"data,omitempty"`
	Value                string `json:"value"`
	GasLimit             string `json:"gasLimit,omitempty"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	ChainID              uint64 `json:"chainId"`
}

// Approval is a prerequisite ERC-20 approve transaction.
type Approval struct {
	Token              string             `json:"token"`
	Spender            string             `json:"spender"`
	Amount             string             `json:"amount"`
	TransactionRequest TransactionRequest `json:"transactionRequest"`
}

// FeeEstimate describes the expected cost of a transaction.
type FeeEstimate struct {
	GasLimit             string `json:"gasLimit"`
	GasPrice             string `json:"gasPrice"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	TotalFeeETH          string `json:"totalFeeETH"`
	TotalFeeNative       string `json:"totalFeeNative"`
	TotalFeeUSD          string `json:"totalFeeUSD"`
	NativeSymbol         string `json:"nativeSymbol"`
	NativeUSDRate        string `json:"nativeUsdRate"`
	Degraded             bool   `json:"degraded"`
}

// OutcomeSource tells whether a value came from a live dependency or a fallback path.
type OutcomeSource string

const (
	SourceLive     OutcomeSource = "live"
	SourceFallback OutcomeSource = "fallback"
)

// Outcome wraps a value with where it came from. Fallback outcomes carry the reason.
type Outcome[T any] struct {
	Value  T
	Source OutcomeSource
	Reason string
}

// Live wraps a value obtained from the real dependency.
func Live[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceLive}
}

// Fallback wraps a substitute value together with the reason it was used.
func Fallback[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Source: SourceFallback, Reason: reason}
}

// Degraded reports whether the value is a substitute.
func (o Outcome[T]) Degraded() bool {
	return o.Source == SourceFallback
}

// DegradedReasons collects fallback reasons in order.
type DegradedReasons []string

// Note records the reason of a degraded outcome under the given component name.
func (d *DegradedReasons) Note(component string, degraded bool, reason string) {
	if !degraded {
		return
	}
	if reason == "" {
		reason = "fallback used"
	}
	*d = append(*d, component+": "+reason)
}

// Any reports whether at least one reason was recorded.
func (d DegradedReasons) Any() bool {
	return len(d) > 0
}
