package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/softether-exporter/internal/collector"
	"github.com/HerbHall/softether-exporter/internal/config"
	"github.com/HerbHall/softether-exporter/internal/metrics"
	"github.com/HerbHall/softether-exporter/internal/server"
	"github.com/HerbHall/softether-exporter/internal/softether"
	"github.com/HerbHall/softether-exporter/internal/sysstat"
	"github.com/HerbHall/softether-exporter/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	listenAddr := flag.String("listen", "", "listen address; overrides the config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("SoftEther exporter starting", zap.String("version", version.Short()))

	if *configPath == "" {
		logger.Fatal("no configuration file given, use -config")
	}

	// Load configuration; any error here is fatal before serving begins.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	addr := cfg.Listen
	if *listenAddr != "" {
		addr = *listenAddr
	}
	addr = config.NormalizeListen(addr)

	// Wire the collection pipeline into the owned registry.
	registry := metrics.New()
	reader := softether.NewReader(cfg.Vpncmd, cfg.Server, cfg.AdminPassword,
		softether.WithTimeout(cfg.CommandTimeout))
	system := sysstat.NewCollector(nil, registry, logger)
	hubs := collector.NewHubCollector(reader, cfg.Hubs, registry, logger)
	orch := collector.NewOrchestrator(system, hubs, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []server.Option{server.WithPacing(cfg.Sleep)}
	if cfg.RefreshInterval > 0 {
		opts = append(opts, server.WithBackgroundRefresh())
		go orch.Run(ctx, cfg.RefreshInterval)
	}
	srv := server.New(addr, orch, registry.Gatherer(), logger, opts...)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("SoftEther exporter ready",
		zap.String("addr", addr),
		zap.Int("hubs", len(cfg.Hubs)),
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("SoftEther exporter stopped")
}
