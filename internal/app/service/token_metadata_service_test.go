package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/chaintest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetadata(client *chaintest.Client, providerErr error, rec port.FallbackRecorder) port.TokenMetadataService {
	return NewTokenMetadataService(testNetworks(), &chaintest.Provider{Client: client, Err: providerErr}, testTokens(), time.Second, rec, nopLogger)
}

func TestDescribe_WrappedAndNativeWithoutIO(t *testing.T) {
	client := &chaintest.Client{}
	svc := newMetadata(client, nil, nil)

	for _, addr := range []string{arbWETH, entity.ZeroAddress} {
		got, err := svc.Describe(context.Background(), addr, "arbitrum")
		require.NoError(t, err)
		assert.False(t, got.Degraded())
		assert.Equal(t, "WETH", got.Value.Symbol)
		assert.Equal(t, "Wrapped Ether", got.Value.Name)
		assert.Equal(t, uint8(18), got.Value.Decimals)
		assert.Equal(t, uint64(42161), got.Value.ChainID)
	}
	assert.Equal(t, 0, client.CallCount("ReadTokenMetadata"))
}

func TestDescribe_Live(t *testing.T) {
	client := &chaintest.Client{Metadata: port.TokenMetadataResult{Decimals: 6, Symbol: "USDC", Name: "USD Coin"}}
	got, err := newMetadata(client, nil, nil).Describe(context.Background(), arbUSDC, "arbitrum")
	require.NoError(t, err)
	assert.False(t, got.Degraded())
	assert.Equal(t, entity.TokenInfo{ChainID: 42161, Address: arbUSDC, Name: "USD Coin", Symbol: "USDC", Decimals: 6}, got.Value)
}

func TestDescribe_PartialFieldFailures(t *testing.T) {
	client := &chaintest.Client{Metadata: port.TokenMetadataResult{
		Symbol:      "ODD",
		DecimalsErr: errors.New("reverted"),
		NameErr:     errors.New("reverted"),
	}}
	got, err := newMetadata(client, nil, nil).Describe(context.Background(), unlistedToken, "arbitrum")
	require.NoError(t, err)
	assert.False(t, got.Degraded())
	assert.Equal(t, uint8(18), got.Value.Decimals)
	assert.Equal(t, "ODD", got.Value.Symbol)
	assert.Equal(t, "Unknown Token", got.Value.Name)
}

func TestDescribe_FallbackToWellKnown(t *testing.T) {
	rec := &countingRecorder{}
	client := &chaintest.Client{MetadataErr: errors.New("rpc down")}
	got, err := newMetadata(client, nil, rec).Describe(context.Background(), arbUSDC, "arbitrum")
	require.NoError(t, err)
	assert.True(t, got.Degraded())
	assert.Equal(t, "USDC", got.Value.Symbol)
	assert.Equal(t, uint8(6), got.Value.Decimals)
	assert.Equal(t, 1, rec.count("token_metadata"))
}

func TestDescribe_FallbackToGeneric(t *testing.T) {
	got, err := newMetadata(&chaintest.Client{}, errors.New("dial failed"), nil).Describe(context.Background(), unlistedToken, "arbitrum")
	require.NoError(t, err)
	assert.True(t, got.Degraded())
	assert.Equal(t, "UNKNOWN", got.Value.Symbol)
	assert.Equal(t, "Unknown Token", got.Value.Name)
	assert.Equal(t, uint8(18), got.Value.Decimals)
}

func TestDescribe_UnsupportedNetwork(t *testing.T) {
	_, err := newMetadata(&chaintest.Client{}, nil, nil).Describe(context.Background(), arbUSDC, "nowhere")
	assert.ErrorIs(t, err, entity.ErrUnsupportedNetwork)
}

func TestDescribe_RepeatedCallsAgree(t *testing.T) {
	cases := []struct {
		name        string
		client      *chaintest.Client
		providerErr error
		address     string
	}{
		{"live", &chaintest.Client{Metadata: port.TokenMetadataResult{Decimals: 6, Symbol: "USDC", Name: "USD Coin"}}, nil, arbUSDC},
		{"partial", &chaintest.Client{Metadata: port.TokenMetadataResult{Symbol: "ODD", DecimalsErr: errors.New("reverted")}}, nil, unlistedToken},
		{"native", &chaintest.Client{}, nil, entity.ZeroAddress},
		{"fallback", &chaintest.Client{}, errors.New("dial failed"), arbUSDC},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newMetadata(tc.client, tc.providerErr, nil)
			first, err := svc.Describe(context.Background(), tc.address, "arbitrum")
			require.NoError(t, err)
			second, err := svc.Describe(context.Background(), tc.address, "arbitrum")
			require.NoError(t, err)
			assert.Equal(t, first.Value, second.Value)
			assert.Equal(t, first.Degraded(), second.Degraded())
		})
	}
}
