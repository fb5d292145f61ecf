// Command tokeninfo resolves a token on a network, describes it and prints a quick fee
// estimate for a typical transaction.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"aura_gateway/internal/app/gateway"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/configloader"
	"aura_gateway/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type report struct {
	Input     string             `json:"input"`
	Network   string             `json:"network"`
	Address   string             `json:"address"`
	Token     entity.TokenInfo   `json:"token"`
	Source    string             `json:"source"`
	Reason    string             `json:"reason,omitempty"`
	Operation string             `json:"operation"`
	Fees      entity.FeeEstimate `json:"estimatedFees"`
}

func main() {
	configPath := flag.String("config", "", "Path to the configuration file (default $CONFIG_PATH or config/config.yaml).")
	network := flag.String("network", "ethereum", "Network identifier or alias.")
	token := flag.String("token", "", "Token symbol or address.")
	operation := flag.String("operation", "transfer", "Operation to price: transfer, swap, stake or bridge.")
	timeout := flag.Duration("timeout", 20*time.Second, "Overall timeout.")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "usage: tokeninfo -token <symbol|address> [-network ethereum] [-operation transfer]")
		os.Exit(2)
	}

	cfg, err := configloader.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Logging.Level = "warn"
	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.BridgeGethLog(zapLogger)

	gw, err := gateway.New(cfg, nil, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to wire services", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	id := gw.Networks.NormalizeNetwork(*network)
	address, err := gw.Resolver.ResolveTokenAddress(*token, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve: %v\n", err)
		os.Exit(1)
	}
	info, err := gw.Metadata.Describe(ctx, address, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "describe: %v\n", err)
		os.Exit(1)
	}
	fees, err := gw.Fees.QuickEstimate(ctx, id, entity.Operation(*operation))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fees: %v\n", err)
		os.Exit(1)
	}

	out := report{
		Input:     *token,
		Network:   id,
		Address:   address,
		Token:     info.Value,
		Source:    string(info.Source),
		Reason:    info.Reason,
		Operation: *operation,
		Fees:      fees.Value,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
