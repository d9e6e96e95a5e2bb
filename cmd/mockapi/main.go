package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/mockapi"
	"github.com/spec-kit/helpdesk-client/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := mockapi.New(ctx, cfg.MockAPI, logger, mockapi.WithVersion(cfg.App.Version))
	if err != nil {
		logger.Fatal("failed to build mock api", zap.Error(err))
	}

	ln, err := net.Listen("tcp", cfg.MockAPI.Addr())
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.MockAPI.Addr()), zap.Error(err))
	}
	logger.Info("mock api listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("admin", mockapi.SeedAdminLogin),
		zap.String("mailbox", mockapi.SeedMailbox))

	go func() {
		if err := srv.Serve(ln); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
