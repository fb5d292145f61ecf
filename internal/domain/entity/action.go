package entity

import "time"

// Operation is a transaction kind the gateway can prepare.
type Operation string

const (
	OperationSwap     Operation = "swap"
	OperationBridge   Operation = "bridge"
	OperationStake    Operation = "stake"
	OperationTransfer Operation = "transfer"
)

// ActionStatus is the lifecycle state of a prepared action or signing session.
type ActionStatus string

const (
	StatusPrepared         ActionStatus = "prepared"
	StatusPendingSignature ActionStatus = "pending_signature"
	StatusSuccess          ActionStatus = "success"
	StatusFail             ActionStatus = "fail"
	StatusCancelled        ActionStatus = "cancelled"
)

// StatusChange is a single entry of an action's history.
type StatusChange struct {
	Status ActionStatus `json:"status"`
	TxHash string       `json:"txHash,omitempty"`
	Error  string       `json:"error,omitempty"`
	At     time.Time    `json:"at"`
}

// ActionMetadata is the descriptive part of a prepared action.
type ActionMetadata struct {
	TokenIn       string `json:"tokenIn"`
	TokenOut      string `json:"tokenOut"`
	AmountIn      string `json:"amountIn"`
	Slippage      string `json:"slippage"`
	Deadline      int64  `json:"deadline"`
	EstimatedTime string `json:"estimatedTime"`
	RiskLevel     string `json:"riskLevel"`
	Routing       string `json:"routing,omitempty"`
	FeeTier       uint32 `json:"feeTier,omitempty"`
	AmountOut     string `json:"expectedAmountOut,omitempty"`
	AmountOutMin  string `json:"amountOutMinimum,omitempty"`
}

// ActionRecord is a prepared transaction kept in the action store.
type ActionRecord struct {
	ActionID           string             `json:"actionId"`
	Operation          Operation          `json:"operation"`
	Platform           string             `json:"platform"`
	Network            string             `json:"network"`
	FromAddress        string             `json:"fromAddress"`
	TransactionRequest TransactionRequest `json:"transactionRequest"`
	Approvals          []Approval         `json:"approvals"`
	EstimatedFees      FeeEstimate        `json:"estimatedFees"`
	Metadata           ActionMetadata     `json:"metadata"`
	Status             ActionStatus       `json:"status"`
	TxHash             string             `json:"txHash,omitempty"`
	Error              string             `json:"error,omitempty"`
	History            []StatusChange     `json:"history"`
	Degraded           bool               `json:"degraded"`
	DegradedReasons    []string           `json:"degradedReasons,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	ExpiresAt          time.Time          `json:"expiresAt"`
}

// TransferRecord is a prepared token transfer.
type TransferRecord struct {
	TransferID         string             `json:"transferId"`
	FromAddress        string             `json:"fromAddress"`
	ToAddress          string             `json:"toAddress"`
	Token              TokenInfo          `json:"token"`
	Amount             string             `json:"amount"`
	Network            string             `json:"network"`
	Memo               string             `json:"memo,omitempty"`
	TransactionRequest TransactionRequest `json:"transactionRequest"`
	EstimatedFees      FeeEstimate        `json:"estimatedFees"`
	Status             ActionStatus       `json:"status"`
	BalanceCheck       BalanceCheck       `json:"balanceCheck"`
	Degraded           bool               `json:"degraded"`
	DegradedReasons    []string           `json:"degradedReasons,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	ExpiresAt          time.Time          `json:"expiresAt"`
}

// SignSession tracks a transaction handed to an external wallet for signing.
type SignSession struct {
	SessionID          string             `json:"sessionId"`
	ActionID           string             `json:"actionId,omitempty"`
	FromAddress        string             `json:"fromAddress"`
	Operation          Operation          `json:"operation"`
	Network            string             `json:"network"`
	TransactionRequest TransactionRequest `json:"transactionRequest"`
	Approvals          []Approval         `json:"approvals,omitempty"`
	EstimatedFees      FeeEstimate        `json:"estimatedFees"`
	OperationDetails   map[string]string  `json:"operationDetails"`
	CallbackURL        string             `json:"callbackUrl"`
	Status             ActionStatus       `json:"status"`
	TxHash             string             `json:"txHash,omitempty"`
	Error              string             `json:"error,omitempty"`
	Degraded           bool               `json:"degraded"`
	CreatedAt          time.Time          `json:"createdAt"`
	ExpiresAt          time.Time          `json:"expiresAt"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty"`
}

// Receipt is the chain-agnostic view of a mined transaction.
type Receipt struct {
	TxHash            string
	Status            uint64
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice string
}
