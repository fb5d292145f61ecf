package config

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server        ServerConfig            `yaml:"server"`
	Logging       LoggingConfig           `yaml:"logging"`
	Networks      []NetworkNode           `yaml:"networks"`
	RpcClient     RpcClientConfig         `yaml:"rpcClient"`
	DEXScreener   DEXScreenerConfig       `yaml:"dexScreener"`
	TokenPriceSvc TokenPriceServiceConfig `yaml:"tokenPriceService"`
	Fees          FeesConfig              `yaml:"fees"`
	Aura          AuraConfig              `yaml:"aura"`
	Store         StoreConfig             `yaml:"store"`
	Tokens        TokensConfig            `yaml:"tokens"`
	Chat          ChatConfig              `yaml:"chat"`
	Defaults      DefaultsConfig          `yaml:"defaults"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port               string `yaml:"port"`
	ReadTimeout        int    `yaml:"readTimeout"`
	WriteTimeout       int    `yaml:"writeTimeout"`
	IdleTimeout        int    `yaml:"idleTimeout"`
	ShutdownTimeoutSec int    `yaml:"shutdownTimeoutSec"`
	// PublicBaseURL is used to build wallet callback links when the request does not name one.
	PublicBaseURL string `yaml:"publicBaseURL"`
}

// NetworkNode overrides the RPC endpoints of a built-in network definition.
type NetworkNode struct {
	Identifier      string   `yaml:"identifier"`
	RPCURL          string   `yaml:"rpcURL"`
	FallbackRPCURLs []string `yaml:"fallbackRPCURLs"`
	NativeUSDRate   string   `yaml:"nativeUsdRate"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	DefaultTimeoutMs  int64 `yaml:"defaultTimeoutMs"`
	DialTimeoutMs     int64 `yaml:"dialTimeoutMs"`
	MetadataTimeoutMs int64 `yaml:"metadataTimeoutMs"`
}

// DEXScreenerConfig holds the configuration for the DEX Screener client.
type DEXScreenerConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
}

// TokenPriceServiceConfig holds configuration for the TokenPriceService.
type TokenPriceServiceConfig struct {
	CacheTTLMinutes int `yaml:"cacheTTLMinutes"`
}

// FeesConfig holds the fee estimator fallbacks.
type FeesConfig struct {
	FallbackGasLimit      uint64 `yaml:"fallbackGasLimit"`
	FallbackGasPriceGwei  uint64 `yaml:"fallbackGasPriceGwei"`
	FallbackNativeUSDRate string `yaml:"fallbackNativeUsdRate"`
}

// AuraConfig holds the AURA API client configuration.
type AuraConfig struct {
	BaseURLs           []string `yaml:"baseURLs"`
	APIKey             string   `yaml:"apiKey"`
	CandidateTimeoutMs int64    `yaml:"candidateTimeoutMs"`
	CacheTTLSeconds    int      `yaml:"cacheTTLSeconds"`
	MockFallback       *bool    `yaml:"mockFallback"`
	RateLimitPerSecond float64  `yaml:"rateLimitPerSecond"`
	RateLimitBurst     int      `yaml:"rateLimitBurst"`
}

// UseMockFallback reports whether development data replaces a failed AURA lookup.
func (c AuraConfig) UseMockFallback() bool {
	return c.MockFallback == nil || *c.MockFallback
}

// StoreConfig holds the action and session store settings.
type StoreConfig struct {
	ActionTTLMinutes       int `yaml:"actionTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// TokensConfig points at optional token list files.
type TokensConfig struct {
	Directory string `yaml:"directory"`
}

// ChatConfig holds the assistant configuration.
type ChatConfig struct {
	APIKey       string `yaml:"apiKey"`
	Model        string `yaml:"model"`
	MaxTokens    int64  `yaml:"maxTokens"`
	MaxToolTurns int    `yaml:"maxToolTurns"`
}

// DefaultsConfig holds request defaults.
type DefaultsConfig struct {
	// WalletAddress is used when an action request names no sender.
	WalletAddress string `yaml:"walletAddress"`
}

// NativeUSDRateFor returns the configured fixed USD rate for a network's native currency.
func (c *Config) NativeUSDRateFor(identifier string) string {
	for _, n := range c.Networks {
		if strings.EqualFold(n.Identifier, identifier) && n.NativeUSDRate != "" {
			return n.NativeUSDRate
		}
	}
	return c.Fees.FallbackNativeUSDRate
}

// ApplyDefaults fills every unset value with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", c.Server.Port)
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120
	}
	if c.Server.ShutdownTimeoutSec == 0 {
		c.Server.ShutdownTimeoutSec = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.RpcClient.DefaultTimeoutMs == 0 {
		c.RpcClient.DefaultTimeoutMs = 10000
		logrus.Infof("RpcClient.DefaultTimeoutMs not set, defaulting to %d ms", c.RpcClient.DefaultTimeoutMs)
	}
	if c.RpcClient.DialTimeoutMs == 0 {
		c.RpcClient.DialTimeoutMs = 5000
	}
	if c.RpcClient.MetadataTimeoutMs == 0 {
		c.RpcClient.MetadataTimeoutMs = 5000
		logrus.Infof("RpcClient.MetadataTimeoutMs not set, defaulting to %d ms", c.RpcClient.MetadataTimeoutMs)
	}

	if c.DEXScreener.BaseURL == "" {
		c.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", c.DEXScreener.BaseURL)
	}
	if c.DEXScreener.RequestTimeoutMillis == 0 {
		c.DEXScreener.RequestTimeoutMillis = 10000
		logrus.Infof("DEXScreener.RequestTimeoutMillis not set, defaulting to %d ms", c.DEXScreener.RequestTimeoutMillis)
	}
	if c.DEXScreener.RateLimitPerSecond == 0 {
		c.DEXScreener.RateLimitPerSecond = 4
	}
	if c.DEXScreener.RateLimitBurst == 0 {
		c.DEXScreener.RateLimitBurst = 4
	}
	if c.TokenPriceSvc.CacheTTLMinutes == 0 {
		c.TokenPriceSvc.CacheTTLMinutes = 5
		logrus.Infof("CacheTTLMinutes for TokenPriceSvc not set, defaulting to %d minutes", c.TokenPriceSvc.CacheTTLMinutes)
	}

	if c.Fees.FallbackGasLimit == 0 {
		c.Fees.FallbackGasLimit = 200000
	}
	if c.Fees.FallbackGasPriceGwei == 0 {
		c.Fees.FallbackGasPriceGwei = 20
	}
	if c.Fees.FallbackNativeUSDRate == "" {
		c.Fees.FallbackNativeUSDRate = "2500"
		logrus.Infof("Fees.FallbackNativeUSDRate not set, defaulting to %s", c.Fees.FallbackNativeUSDRate)
	}

	if len(c.Aura.BaseURLs) == 0 {
		c.Aura.BaseURLs = []string{"https://aura.adex.network/api"}
		logrus.Infof("Aura.BaseURLs not set, defaulting to %v", c.Aura.BaseURLs)
	}
	if c.Aura.CandidateTimeoutMs == 0 {
		c.Aura.CandidateTimeoutMs = 8000
	}
	if c.Aura.CacheTTLSeconds == 0 {
		c.Aura.CacheTTLSeconds = 60
	}
	if c.Aura.RateLimitPerSecond == 0 {
		c.Aura.RateLimitPerSecond = 5
	}
	if c.Aura.RateLimitBurst == 0 {
		c.Aura.RateLimitBurst = 5
	}

	if c.Store.ActionTTLMinutes == 0 {
		c.Store.ActionTTLMinutes = 30
	}
	if c.Store.CleanupIntervalMinutes == 0 {
		c.Store.CleanupIntervalMinutes = 5
	}

	if c.Chat.Model == "" {
		c.Chat.Model = "claude-sonnet-4-5"
	}
	if c.Chat.MaxTokens == 0 {
		c.Chat.MaxTokens = 2048
	}
	if c.Chat.MaxToolTurns == 0 {
		c.Chat.MaxToolTurns = 4
	}
}
