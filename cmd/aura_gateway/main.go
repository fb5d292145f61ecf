package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"aura_gateway/internal/app/gateway"
	"aura_gateway/internal/infrastructure/configloader"
	"aura_gateway/internal/infrastructure/metrics"
	"aura_gateway/internal/infrastructure/restapi"
	"aura_gateway/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configloader.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.BridgeGethLog(zapLogger)

	if !strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	gw, err := gateway.New(cfg, m, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to wire services", zap.Error(err))
	}
	zapLogger.Info("Services initialized",
		zap.Strings("networks", gw.Networks.Identifiers()),
		zap.Bool("chatEnabled", gw.ChatEnabled))

	handler := restapi.NewHandler(gw.Networks, restapi.Services{
		Portfolio: gw.Portfolio,
		Actions:   gw.Actions,
		Transfers: gw.Transfers,
		Signing:   gw.Signing,
		Fees:      gw.Fees,
		Chat:      gw.Chat,
	}, restapi.Options{
		DefaultWalletAddress: cfg.Defaults.WalletAddress,
		PublicBaseURL:        cfg.Server.PublicBaseURL,
		ChatEnabled:          gw.ChatEnabled,
	}, zapLogger)
	router := restapi.SetupRouter(handler, m, zapLogger)

	addr := cfg.Server.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
