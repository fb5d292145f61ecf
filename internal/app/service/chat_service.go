package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// MessageCreator is the part of the Anthropic client the chat service uses.
type MessageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

const chatSystemPrompt = `You are AURA, a DeFi assistant. You help users understand their portfolio and prepare on-chain transactions.
Prepared transactions are never signed or sent by you; the user signs them in their own wallet.
Use the tools to read portfolios and strategies, prepare swaps, stakes, bridges and transfers, estimate fees and check transaction or action status.
Supported networks: ethereum, arbitrum, polygon, optimism, base, bnb, avalanche.
Answer concisely and state amounts with their token symbols.`

// ChatTools are the tools offered to the model.
var ChatTools = []anthropic.ToolParam{
	{
		Name:        "get_portfolio",
		Description: anthropic.String("Get the token balances of a wallet across networks."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"address": map[string]any{"type": "string", "description": "Wallet address, defaults to the connected wallet"},
			},
		},
	},
	{
		Name:        "get_strategy",
		Description: anthropic.String("Get DeFi strategy recommendations for a wallet."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"address":   map[string]any{"type": "string", "description": "Wallet address, defaults to the connected wallet"},
				"riskLevel": map[string]any{"type": "string", "enum": []string{"low", "moderate", "high"}},
			},
		},
	},
	{
		Name:        "execute_action",
		Description: anthropic.String("Prepare a swap, stake or bridge transaction for the user to sign."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"operation":   map[string]any{"type": "string", "enum": []string{"swap", "stake", "bridge"}},
				"platform":    map[string]any{"type": "string", "description": "DeFi protocol to use (e.g., Uniswap, Aave, Compound)"},
				"network":     map[string]any{"type": "string"},
				"tokenIn":     map[string]any{"type": "string", "description": "Symbol or address of the input token"},
				"tokenOut":    map[string]any{"type": "string", "description": "Output token, or destination network for bridges"},
				"amountIn":    map[string]any{"type": "string"},
				"slippage":    map[string]any{"type": "string", "description": "Percent, default 0.5"},
				"fromAddress": map[string]any{"type": "string"},
			},
			Required: []string{"operation", "network", "tokenIn", "amountIn"},
		},
	},
	{
		Name:        "transfer_tokens",
		Description: anthropic.String("Prepare a native or ERC-20 token transfer for the user to sign."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"toAddress":   map[string]any{"type": "string"},
				"token":       map[string]any{"type": "string", "description": "Symbol or address"},
				"amount":      map[string]any{"type": "string"},
				"network":     map[string]any{"type": "string"},
				"fromAddress": map[string]any{"type": "string"},
			},
			Required: []string{"toAddress", "token", "amount", "network"},
		},
	},
	{
		Name:        "estimate_fees",
		Description: anthropic.String("Estimate the network fee of a typical transaction."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"network":   map[string]any{"type": "string"},
				"operation": map[string]any{"type": "string", "enum": []string{"swap", "stake", "bridge", "transfer"}},
			},
			Required: []string{"network", "operation"},
		},
	},
	{
		Name:        "get_transaction_status",
		Description: anthropic.String("Check whether a submitted transaction is pending, succeeded or failed."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"txHash":  map[string]any{"type": "string"},
				"network": map[string]any{"type": "string"},
			},
			Required: []string{"txHash", "network"},
		},
	},
	{
		Name:        "get_action_status",
		Description: anthropic.String("Get a previously prepared action by id."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]any{
				"actionId": map[string]any{"type": "string"},
			},
			Required: []string{"actionId"},
		},
	},
}

type chatServiceImpl struct {
	messages     MessageCreator
	model        string
	maxTokens    int64
	maxToolTurns int
	portfolio    port.PortfolioService
	actions      port.ActionService
	transfers    port.TransferService
	fees         port.FeeEstimator
	logger       *zap.Logger
}

// NewChatService creates the chat service. A nil messages client yields a service that
// reports itself as not configured.
func NewChatService(
	messages MessageCreator,
	model string,
	maxTokens int64,
	maxToolTurns int,
	portfolio port.PortfolioService,
	actions port.ActionService,
	transfers port.TransferService,
	fees port.FeeEstimator,
	logger *zap.Logger,
) port.ChatService {
	if maxToolTurns <= 0 {
		maxToolTurns = 4
	}
	return &chatServiceImpl{
		messages:     messages,
		model:        model,
		maxTokens:    maxTokens,
		maxToolTurns: maxToolTurns,
		portfolio:    portfolio,
		actions:      actions,
		transfers:    transfers,
		fees:         fees,
		logger:       logger.Named("ChatService"),
	}
}

// Chat answers the last user message, running tool calls in-process between model turns.
func (s *chatServiceImpl) Chat(ctx context.Context, messages []port.ChatMessage, walletAddress string) (port.ChatResponse, error) {
	if s.messages == nil {
		return port.ChatResponse{}, fmt.Errorf("chat is %w", entity.ErrNotConfigured)
	}
	if len(messages) == 0 {
		return port.ChatResponse{}, entity.NewValidationError("messages", "at least one message is required")
	}

	history := make([]anthropic.MessageParam, 0, len(messages))
	for i, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			return port.ChatResponse{}, entity.NewValidationError(fmt.Sprintf("messages[%d].content", i), "must not be empty")
		}
		switch m.Role {
		case "user":
			history = append(history, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			history = append(history, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return port.ChatResponse{}, entity.NewValidationError(fmt.Sprintf("messages[%d].role", i), "must be user or assistant")
		}
	}

	system := chatSystemPrompt
	if walletAddress != "" {
		system += "\nThe connected wallet address is " + walletAddress + "."
	}
	tools := make([]anthropic.ToolUnionParam, len(ChatTools))
	for i := range ChatTools {
		tools[i] = anthropic.ToolUnionParam{OfTool: &ChatTools[i]}
	}

	var (
		calls []port.ToolCall
		text  string
	)
	for turn := 0; turn <= s.maxToolTurns; turn++ {
		resp, err := s.messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(s.model),
			MaxTokens: s.maxTokens,
			System:    []anthropic.TextBlockParam{{Text: system}},
			Messages:  history,
			Tools:     tools,
		})
		if err != nil {
			s.logger.Error("Anthropic request failed", zap.Int("turn", turn), zap.Error(err))
			return port.ChatResponse{}, fmt.Errorf("%w: chat completion failed: %v", entity.ErrExternalService, err)
		}

		var (
			assistant []anthropic.ContentBlockParamUnion
			results   []anthropic.ContentBlockParamUnion
		)
		text = ""
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text += block.Text
				assistant = append(assistant, anthropic.NewTextBlock(block.Text))
			case "tool_use":
				assistant = append(assistant, anthropic.NewToolUseBlock(block.ID, block.Input, block.Name))
				call := s.runTool(ctx, block.Name, block.Input, walletAddress)
				calls = append(calls, call)
				if call.Error != "" {
					results = append(results, anthropic.NewToolResultBlock(block.ID, call.Error, true))
					continue
				}
				payload, err := json.Marshal(call.Result)
				if err != nil {
					results = append(results, anthropic.NewToolResultBlock(block.ID, err.Error(), true))
					continue
				}
				results = append(results, anthropic.NewToolResultBlock(block.ID, string(payload), false))
			}
		}

		if len(results) == 0 {
			return port.ChatResponse{Message: text, ToolCalls: calls}, nil
		}
		history = append(history, anthropic.NewAssistantMessage(assistant...), anthropic.NewUserMessage(results...))
	}

	s.logger.Warn("Tool turn limit reached", zap.Int("maxToolTurns", s.maxToolTurns), zap.Int("toolCalls", len(calls)))
	if text == "" {
		text = "I could not finish this request within the allowed number of steps. Please try a more specific question."
	}
	return port.ChatResponse{Message: text, ToolCalls: calls}, nil
}

type chatToolInput struct {
	Address     string `json:"address"`
	RiskLevel   string `json:"riskLevel"`
	Operation   string `json:"operation"`
	Platform    string `json:"platform"`
	Network     string `json:"network"`
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	Slippage    string `json:"slippage"`
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Token       string `json:"token"`
	Amount      string `json:"amount"`
	TxHash      string `json:"txHash"`
	ActionID    string `json:"actionId"`
}

func (s *chatServiceImpl) runTool(ctx context.Context, name string, raw []byte, walletAddress string) port.ToolCall {
	call := port.ToolCall{Name: name}
	_ = json.Unmarshal(raw, &call.Input)

	var in chatToolInput
	if err := json.Unmarshal(raw, &in); err != nil {
		call.Error = fmt.Sprintf("invalid tool input: %v", err)
		return call
	}
	orWallet := func(addr string) string {
		if addr == "" {
			return walletAddress
		}
		return addr
	}

	result, err := s.dispatch(ctx, name, in, orWallet)
	if err != nil {
		s.logger.Debug("Tool call failed", zap.String("tool", name), zap.Error(err))
		call.Error = err.Error()
		return call
	}
	call.Result = result
	return call
}

func (s *chatServiceImpl) dispatch(ctx context.Context, name string, in chatToolInput, orWallet func(string) string) (any, error) {
	switch name {
	case "get_portfolio":
		addr := orWallet(in.Address)
		if !IsAddress(addr) {
			return nil, errors.New("a valid wallet address is required")
		}
		res, err := s.portfolio.GetPortfolio(ctx, addr)
		if err != nil {
			return nil, err
		}
		return res.Portfolio.Value, nil
	case "get_strategy":
		addr := orWallet(in.Address)
		if !IsAddress(addr) {
			return nil, errors.New("a valid wallet address is required")
		}
		res, err := s.portfolio.GetStrategies(ctx, addr, port.StrategyFilter{RiskLevel: in.RiskLevel})
		if err != nil {
			return nil, err
		}
		return res.Strategies.Value, nil
	case "execute_action":
		return s.actions.Prepare(ctx, port.ActionRequest{
			Operation:   entity.Operation(strings.ToLower(in.Operation)),
			Platform:    in.Platform,
			Network:     in.Network,
			TokenIn:     in.TokenIn,
			TokenOut:    in.TokenOut,
			AmountIn:    in.AmountIn,
			FromAddress: orWallet(in.FromAddress),
			Slippage:    in.Slippage,
		})
	case "transfer_tokens":
		return s.transfers.Prepare(ctx, port.TransferRequest{
			FromAddress: orWallet(in.FromAddress),
			ToAddress:   in.ToAddress,
			Token:       in.Token,
			Amount:      in.Amount,
			Network:     in.Network,
		})
	case "estimate_fees":
		res, err := s.fees.QuickEstimate(ctx, in.Network, entity.Operation(strings.ToLower(in.Operation)))
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	case "get_transaction_status":
		return s.transfers.Status(ctx, in.Network, in.TxHash)
	case "get_action_status":
		return s.actions.Get(in.ActionID)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}
