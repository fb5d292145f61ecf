package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"aura_gateway/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func findNetwork(cfg *config.Config, identifier string) (config.NetworkNode, bool) {
	for _, n := range cfg.Networks {
		if n.Identifier == identifier {
			return n, true
		}
	}
	return config.NetworkNode{}, false
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
networks:
  - identifier: polygon
    nativeUsdRate: "0.55"
aura:
  baseURLs: ["https://a.example", "https://b.example"]
  mockFallback: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Aura.BaseURLs)
	assert.False(t, cfg.Aura.UseMockFallback())
	assert.Equal(t, "0.55", cfg.NativeUSDRateFor("polygon"))
	assert.Equal(t, "2500", cfg.NativeUSDRateFor("arbitrum"))

	assert.Equal(t, uint64(200000), cfg.Fees.FallbackGasLimit)
	assert.Equal(t, uint64(20), cfg.Fees.FallbackGasPriceGwei)
	assert.Equal(t, int64(5000), cfg.RpcClient.MetadataTimeoutMs)
	assert.Equal(t, 30, cfg.Store.ActionTTLMinutes)
	assert.Equal(t, 4, cfg.Chat.MaxToolTurns)
	assert.Equal(t, "https://api.dexscreener.com", cfg.DEXScreener.BaseURL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Aura.UseMockFallback())
	assert.Equal(t, []string{"https://aura.adex.network/api"}, cfg.Aura.BaseURLs)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
networks:
  - identifier: arbitrum
    rpcURL: https://file.example/rpc
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("DEFAULT_WALLET_ADDRESS", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	t.Setenv("ARBITRUM_RPC_URL", "https://env.example/arb")
	t.Setenv("BASE_RPC_URL", "https://env.example/base")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Chat.APIKey)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", cfg.Defaults.WalletAddress)

	arb, ok := findNetwork(cfg, "arbitrum")
	require.True(t, ok)
	assert.Equal(t, "https://env.example/arb", arb.RPCURL)
	base, ok := findNetwork(cfg, "base")
	require.True(t, ok)
	assert.Equal(t, "https://env.example/base", base.RPCURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config data")
}
