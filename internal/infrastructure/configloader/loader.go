package configloader

import (
	"fmt"
	"os"
	"strings"

	"aura_gateway/internal/config"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yaml"

// Load reads .env (if present), the YAML configuration file, applies environment
// overrides and fills defaults.
func Load(path string) (*config.Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	logrus.Infof("Loading configuration from path: %s", path)
	var cfg config.Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.ApplyDefaults()

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyEnv(cfg *config.Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Chat.APIKey = v
	}
	if v := os.Getenv("AURA_API_KEY"); v != "" {
		cfg.Aura.APIKey = v
	}
	if v := os.Getenv("DEFAULT_WALLET_ADDRESS"); v != "" {
		cfg.Defaults.WalletAddress = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = v
	}

	// <NETWORK>_RPC_URL, e.g. ARBITRUM_RPC_URL
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasSuffix(key, "_RPC_URL") {
			continue
		}
		identifier := strings.ToLower(strings.TrimSuffix(key, "_RPC_URL"))
		if identifier == "" {
			continue
		}
		setNetworkRPC(cfg, identifier, value)
	}
}

func setNetworkRPC(cfg *config.Config, identifier, rpcURL string) {
	for i := range cfg.Networks {
		if strings.EqualFold(cfg.Networks[i].Identifier, identifier) {
			cfg.Networks[i].RPCURL = rpcURL
			return
		}
	}
	cfg.Networks = append(cfg.Networks, config.NetworkNode{Identifier: identifier, RPCURL: rpcURL})
}
