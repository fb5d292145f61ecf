package port

import (
	"context"
	"math/big"
	"time"

	"aura_gateway/internal/domain/entity"
)

// TokenResolver maps a symbol or address to a token address on a network.
type TokenResolver interface {
	ResolveTokenAddress(input string, network string) (string, error)
}

// TokenMetadataService describes tokens by address.
type TokenMetadataService interface {
	Describe(ctx context.Context, address string, network string) (entity.Outcome[entity.TokenInfo], error)
}

// SwapParams is the input of a swap build. Amounts are human-readable decimals.
type SwapParams struct {
	Network   string
	TokenIn   string
	TokenOut  string
	AmountIn  string
	Recipient string
	Deadline  int64  // unix seconds, 0 means now + 30 minutes
	Slippage  string // percent, "" means 0.5
}

// SwapResult is a built swap with everything the caller needs to present it.
type SwapResult struct {
	Transaction      entity.Outcome[entity.TransactionRequest]
	Approvals        []entity.Approval
	TokenIn          entity.Outcome[entity.TokenInfo]
	TokenOut         entity.Outcome[entity.TokenInfo]
	AmountInWei      *big.Int
	Deadline         int64
	SlippageBps      int64
	FeeTier          uint32
	AmountOut        string
	AmountOutMinimum string
}

// SwapBuilder prepares swap transactions.
type SwapBuilder interface {
	BuildSwap(ctx context.Context, params SwapParams) (SwapResult, error)
}

// FeeEstimator estimates transaction costs.
type FeeEstimator interface {
	// Estimate fails only for an unsupported network; RPC failures produce a fallback outcome.
	Estimate(ctx context.Context, network string, tx entity.TransactionRequest) (entity.Outcome[entity.FeeEstimate], error)
	// QuickEstimate prices a typical transaction of the given kind without building it.
	QuickEstimate(ctx context.Context, network string, operation entity.Operation) (entity.Outcome[entity.FeeEstimate], error)
}

// TransferParams is the input of a transfer build.
type TransferParams struct {
	Network   string
	Token     string // symbol or address
	Amount    string
	From      string
	Recipient string
}

// StakeParams is the input of a stake build.
type StakeParams struct {
	Network  string
	Platform string
	Token    string
	Amount   string
	From     string
}

// BridgeParams is the input of a bridge build.
type BridgeParams struct {
	Network            string
	DestinationNetwork string
	Token              string
	Amount             string
	From               string
}

// BuildResult is a built non-swap transaction.
type BuildResult struct {
	Transaction entity.Outcome[entity.TransactionRequest]
	Approvals   []entity.Approval
	Token       entity.Outcome[entity.TokenInfo]
	AmountWei   *big.Int
}

// TxBuilder prepares transfer, stake and bridge transactions.
type TxBuilder interface {
	BuildTransfer(ctx context.Context, params TransferParams) (BuildResult, error)
	BuildStake(ctx context.Context, params StakeParams) (BuildResult, error)
	BuildBridge(ctx context.Context, params BridgeParams) (BuildResult, error)
}

// BalanceService checks whether a wallet can afford a transfer.
type BalanceService interface {
	CheckTransferFeasibility(ctx context.Context, network string, token entity.TokenInfo, amount string, from string, feeWei *big.Int) (entity.BalanceCheck, error)
}

// StrategyFilter narrows the strategies returned to the caller.
type StrategyFilter struct {
	RiskLevel string
	Timeframe string
}

// PortfolioResult is a portfolio lookup.
type PortfolioResult struct {
	Portfolio entity.Outcome[entity.WalletPortfolio]
	Cached    bool
}

// StrategyResult is a strategy lookup after filtering and enrichment.
type StrategyResult struct {
	Strategies      entity.Outcome[entity.StrategyResponse]
	TotalStrategies int
}

// PortfolioService serves AURA data to the API.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, address string) (PortfolioResult, error)
	GetStrategies(ctx context.Context, address string, filter StrategyFilter) (StrategyResult, error)
}

// ActionRequest is the input of an action preparation.
type ActionRequest struct {
	Operation   entity.Operation
	Platform    string
	Network     string
	TokenIn     string
	TokenOut    string
	AmountIn    string
	FromAddress string
	Slippage    string
	Deadline    int64
}

// ActionService prepares and tracks DeFi actions.
type ActionService interface {
	Prepare(ctx context.Context, req ActionRequest) (entity.ActionRecord, error)
	Get(actionID string) (entity.ActionRecord, error)
	UpdateStatus(actionID string, status entity.ActionStatus, txHash string, errMsg string) (entity.ActionRecord, error)
}

// TransferRequest is the input of a transfer preparation.
type TransferRequest struct {
	FromAddress string
	ToAddress   string
	Token       string
	Amount      string
	Network     string
	Memo        string
}

// TransactionStatus is the on-chain state of a submitted transaction.
type TransactionStatus struct {
	TxHash            string `json:"txHash"`
	Network           string `json:"network"`
	Status            string `json:"status"` // pending, success or failed
	BlockNumber       uint64 `json:"blockNumber,omitempty"`
	GasUsed           string `json:"gasUsed,omitempty"`
	EffectiveGasPrice string `json:"effectiveGasPrice,omitempty"`
	Confirmations     uint64 `json:"confirmations"`
	ExplorerURL       string `json:"explorerUrl"`
}

// TransferService prepares transfers and reports transaction status.
type TransferService interface {
	Prepare(ctx context.Context, req TransferRequest) (entity.TransferRecord, error)
	Status(ctx context.Context, network string, txHash string) (TransactionStatus, error)
}

// SignRequest is the input of a signing session.
type SignRequest struct {
	ActionID        string
	Operation       entity.Operation
	FromAddress     string
	Network         string
	Platform        string
	TokenIn         string
	TokenOut        string
	AmountIn        string
	TargetAddress   string
	Slippage        string
	UserCallbackURL string
	Metadata        map[string]any
}

// SignRequestResult is a created signing session plus the wallet hand-off links.
type SignRequestResult struct {
	Session          entity.SignSession
	WalletConnectURI string
	QRCodeURL        string
	DeepLinks        map[string]string
	Instructions     map[string]string
	DegradedReasons  []string
}

// SignCallback is the result reported back by a wallet.
type SignCallback struct {
	SessionID string
	TxHash    string
	Status    entity.ActionStatus
	Network   string
	Error     string
}

// SignCallbackResult is the outcome of processing a wallet callback.
type SignCallbackResult struct {
	Session                entity.SignSession
	Transaction            *TransactionStatus
	TransactionError       string
	PortfolioRefreshNeeded bool
	NextSteps              []string
}

// SigningService hands prepared transactions to external wallets.
type SigningService interface {
	CreateSession(ctx context.Context, req SignRequest) (SignRequestResult, error)
	HandleCallback(ctx context.Context, cb SignCallback) (SignCallbackResult, error)
	SessionTTL() time.Duration
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolCall records a tool invocation made while answering a chat message.
type ToolCall struct {
	Name   string         `json:"name"`
	Input  map[string]any `json:"input"`
	Result any            `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Message   string     `json:"message"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// ChatService answers chat messages, calling gateway operations as tools.
type ChatService interface {
	Chat(ctx context.Context, messages []ChatMessage, walletAddress string) (ChatResponse, error)
}

// FallbackRecorder counts fallbacks taken by components.
type FallbackRecorder interface {
	RecordFallback(component string)
}
