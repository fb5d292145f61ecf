package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	networkdefinition "aura_gateway/internal/infrastructure/network/definition"
	"aura_gateway/internal/pkg/chaintest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTxBuilder(client *chaintest.Client, rec *countingRecorder) port.TxBuilder {
	networks := testNetworks()
	tokens := testTokens()
	metadata := NewTokenMetadataService(networks, &chaintest.Provider{Client: client}, tokens, time.Second, rec, nopLogger)
	return NewTxBuilder(networks, NewTokenResolver(networks, tokens), metadata, rec, nopLogger)
}

func TestBuildTransfer_Native(t *testing.T) {
	client := usdcClient()
	res, err := newTxBuilder(client, &countingRecorder{}).BuildTransfer(context.Background(), port.TransferParams{
		Network: "arbitrum", Token: "eth", Amount: "0.25", From: testWallet, Recipient: testRecipient,
	})
	require.NoError(t, err)

	tx := res.Transaction
	assert.False(t, tx.Degraded())
	assert.Equal(t, testRecipient, tx.Value.To)
	assert.Equal(t, "0x", tx.Value.Data)
	assert.Equal(t, "250000000000000000", tx.Value.Value)
	assert.Equal(t, "ETH", res.Token.Value.Symbol)
	assert.Equal(t, "250000000000000000", res.AmountWei.String())
	assert.Empty(t, res.Approvals)
	assert.Zero(t, client.CallCount("ReadTokenMetadata"))
}

func TestBuildTransfer_ERC20(t *testing.T) {
	res, err := newTxBuilder(usdcClient(), &countingRecorder{}).BuildTransfer(context.Background(), port.TransferParams{
		Network: "arbitrum", Token: "USDC", Amount: "12.5", From: testWallet, Recipient: testRecipient,
	})
	require.NoError(t, err)

	tx := res.Transaction.Value
	assert.Equal(t, arbUSDC, tx.To)
	assert.Equal(t, "0", tx.Value)
	assert.True(t, strings.HasPrefix(tx.Data, "0xa9059cbb"))
	assert.Len(t, tx.Data, 2+8+64*2)
	assert.Contains(t, strings.ToLower(tx.Data), strings.ToLower(testRecipient[2:]))
	assert.Equal(t, "12500000", res.AmountWei.String())
}

func TestBuildTransfer_Errors(t *testing.T) {
	builder := newTxBuilder(usdcClient(), &countingRecorder{})

	_, err := builder.BuildTransfer(context.Background(), port.TransferParams{
		Network: "arbitrum", Token: "USDC", Amount: "1", From: testWallet, Recipient: "vitalik.eth",
	})
	var verr *entity.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "toAddress", verr.Fields[0].Field)

	_, err = builder.BuildTransfer(context.Background(), port.TransferParams{
		Network: "arbitrum", Token: "DOGE", Amount: "1", From: testWallet, Recipient: testRecipient,
	})
	assert.ErrorIs(t, err, entity.ErrUnknownToken)
}

func TestBuildStake_AaveSupply(t *testing.T) {
	res, err := newTxBuilder(usdcClient(), &countingRecorder{}).BuildStake(context.Background(), port.StakeParams{
		Network: "arbitrum", Platform: "Aave", Token: "USDC", Amount: "100", From: testWallet,
	})
	require.NoError(t, err)

	pool := networkdefinition.Arbitrum.AavePoolAddress
	tx := res.Transaction
	assert.False(t, tx.Degraded())
	assert.Equal(t, pool, tx.Value.To)
	assert.True(t, strings.HasPrefix(tx.Value.Data, "0x617ba037"))
	assert.Equal(t, "0", tx.Value.Value)

	require.Len(t, res.Approvals, 1)
	assert.Equal(t, pool, res.Approvals[0].Spender)
	assert.Equal(t, arbUSDC, res.Approvals[0].Token)
	assert.Equal(t, "100000000", res.Approvals[0].Amount)
}

func TestBuildStake_PlaceholderAndUnsupported(t *testing.T) {
	rec := &countingRecorder{}
	builder := newTxBuilder(usdcClient(), rec)

	res, err := builder.BuildStake(context.Background(), port.StakeParams{
		Network: "arbitrum", Platform: "compound", Token: "USDC", Amount: "5", From: testWallet,
	})
	require.NoError(t, err)
	assert.True(t, res.Transaction.Degraded())
	assert.Equal(t, placeholderStakeContracts["compound"], res.Transaction.Value.To)
	assert.Equal(t, 1, rec.count("stake_builder"))

	_, err = builder.BuildStake(context.Background(), port.StakeParams{
		Network: "arbitrum", Platform: "lido", Token: "USDC", Amount: "5", From: testWallet,
	})
	assert.ErrorIs(t, err, entity.ErrUnsupportedOperation)

	_, err = builder.BuildStake(context.Background(), port.StakeParams{
		Network: "arbitrum", Platform: "aave", Token: "ETH", Amount: "1", From: testWallet,
	})
	assert.ErrorIs(t, err, entity.ErrUnsupportedOperation)

	_, err = builder.BuildStake(context.Background(), port.StakeParams{
		Network: "bnb", Platform: "aave", Token: "USDT", Amount: "1", From: testWallet,
	})
	assert.ErrorIs(t, err, entity.ErrUnsupportedOperation)
}

func TestBuildBridge_Stub(t *testing.T) {
	rec := &countingRecorder{}
	builder := newTxBuilder(usdcClient(), rec)

	res, err := builder.BuildBridge(context.Background(), port.BridgeParams{
		Network: "arbitrum", DestinationNetwork: "optimism", Token: "USDC", Amount: "20", From: testWallet,
	})
	require.NoError(t, err)
	assert.True(t, res.Transaction.Degraded())
	assert.Equal(t, StargateRouterAddress, res.Transaction.Value.To)
	assert.Equal(t, "bridge calldata is not implemented", res.Transaction.Reason)
	assert.Equal(t, "20000000", res.AmountWei.String())
	assert.Equal(t, 1, rec.count("bridge_builder"))

	_, err = builder.BuildBridge(context.Background(), port.BridgeParams{
		Network: "arbitrum", DestinationNetwork: "solana", Token: "USDC", Amount: "20", From: testWallet,
	})
	assert.ErrorIs(t, err, entity.ErrUnsupportedNetwork)
}
