package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/chaintest"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCreator struct {
	mu        sync.Mutex
	responses []string
	err       error
	params    []anthropic.MessageNewParams
}

func (c *scriptedCreator) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = append(c.params, params)
	if c.err != nil {
		return nil, c.err
	}
	raw := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	var msg anthropic.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *scriptedCreator) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.params)
}

const (
	textReply = `{"id":"msg_2","type":"message","role":"assistant","model":"claude-sonnet-4-5","stop_reason":"end_turn",
		"content":[{"type":"text","text":"A swap on Arbitrum costs about $0.45."}],
		"usage":{"input_tokens":10,"output_tokens":12}}`
	feeToolReply = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5","stop_reason":"tool_use",
		"content":[{"type":"text","text":"Let me check."},{"type":"tool_use","id":"toolu_1","name":"estimate_fees","input":{"network":"arbitrum","operation":"swap"}}],
		"usage":{"input_tokens":10,"output_tokens":12}}`
	portfolioToolReply = `{"id":"msg_3","type":"message","role":"assistant","model":"claude-sonnet-4-5","stop_reason":"tool_use",
		"content":[{"type":"tool_use","id":"toolu_2","name":"get_portfolio","input":{}}],
		"usage":{"input_tokens":10,"output_tokens":12}}`
)

func newChatService(creator MessageCreator, maxToolTurns int) port.ChatService {
	client := &chaintest.Client{GasPrice: big.NewInt(1_000_000_000)}
	fees := NewFeeEstimator(testNetworks(), &chaintest.Provider{Client: client}, fixedPrices{price: "2500"}, testConfig(), nil, nopLogger)
	portfolio := NewPortfolioService(&fakeAura{portfolio: entity.WalletPortfolio{Address: testWallet, TotalValueUSD: "1"}}, 0, false, nil, nopLogger)
	return NewChatService(creator, "claude-sonnet-4-5", 1024, maxToolTurns, portfolio, nil, nil, fees, nopLogger)
}

func userSays(text string) []port.ChatMessage {
	return []port.ChatMessage{{Role: "user", Content: text}}
}

func TestChat_NotConfigured(t *testing.T) {
	_, err := newChatService(nil, 0).Chat(context.Background(), userSays("hi"), "")
	assert.ErrorIs(t, err, entity.ErrNotConfigured)
}

func TestChat_InvalidMessages(t *testing.T) {
	svc := newChatService(&scriptedCreator{responses: []string{textReply}}, 0)

	_, err := svc.Chat(context.Background(), nil, "")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Chat(context.Background(), []port.ChatMessage{{Role: "system", Content: "x"}}, "")
	var verr *entity.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "messages[0].role", verr.Fields[0].Field)

	_, err = svc.Chat(context.Background(), []port.ChatMessage{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "  "}}, "")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "messages[1].content", verr.Fields[0].Field)
}

func TestChat_PlainAnswer(t *testing.T) {
	creator := &scriptedCreator{responses: []string{textReply}}

	resp, err := newChatService(creator, 0).Chat(context.Background(), userSays("How much is a swap?"), testWallet)
	require.NoError(t, err)
	assert.Equal(t, "A swap on Arbitrum costs about $0.45.", resp.Message)
	assert.Empty(t, resp.ToolCalls)
	require.Equal(t, 1, creator.calls())

	params := creator.params[0]
	assert.Equal(t, int64(1024), params.MaxTokens)
	assert.Len(t, params.Tools, len(ChatTools))
	require.Len(t, params.System, 1)
	assert.Contains(t, params.System[0].Text, testWallet)
}

func TestChat_RunsToolBetweenTurns(t *testing.T) {
	creator := &scriptedCreator{responses: []string{feeToolReply, textReply}}

	resp, err := newChatService(creator, 0).Chat(context.Background(), userSays("What does a swap cost on Arbitrum?"), "")
	require.NoError(t, err)

	assert.Equal(t, "A swap on Arbitrum costs about $0.45.", resp.Message)
	require.Len(t, resp.ToolCalls, 1)
	call := resp.ToolCalls[0]
	assert.Equal(t, "estimate_fees", call.Name)
	assert.Empty(t, call.Error)
	assert.Equal(t, "arbitrum", call.Input["network"])
	fee, ok := call.Result.(entity.FeeEstimate)
	require.True(t, ok)
	assert.Equal(t, "180000", fee.GasLimit)

	require.Equal(t, 2, creator.calls())
	assert.Len(t, creator.params[1].Messages, 3)
}

func TestChat_ToolErrorIsReportedToModel(t *testing.T) {
	creator := &scriptedCreator{responses: []string{portfolioToolReply, textReply}}

	resp, err := newChatService(creator, 0).Chat(context.Background(), userSays("Show my portfolio"), "")
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "a valid wallet address is required", resp.ToolCalls[0].Error)
	assert.Nil(t, resp.ToolCalls[0].Result)

	creator = &scriptedCreator{responses: []string{portfolioToolReply, textReply}}
	resp, err = newChatService(creator, 0).Chat(context.Background(), userSays("Show my portfolio"), testWallet)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Empty(t, resp.ToolCalls[0].Error)
	assert.Equal(t, testWallet, resp.ToolCalls[0].Result.(entity.WalletPortfolio).Address)
}

func TestChat_ToolTurnLimit(t *testing.T) {
	creator := &scriptedCreator{responses: []string{portfolioToolReply}}

	resp, err := newChatService(creator, 2).Chat(context.Background(), userSays("loop"), testWallet)
	require.NoError(t, err)
	assert.Equal(t, 3, creator.calls())
	assert.Len(t, resp.ToolCalls, 3)
	assert.Contains(t, resp.Message, "could not finish")
}

func TestChat_UpstreamError(t *testing.T) {
	creator := &scriptedCreator{err: errors.New("529 overloaded")}
	_, err := newChatService(creator, 0).Chat(context.Background(), userSays("hi"), "")
	assert.ErrorIs(t, err, entity.ErrExternalService)
}
