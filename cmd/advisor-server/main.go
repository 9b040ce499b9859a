// Package main provides the advisor HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/complyward/advisor-go/internal/agent"
	"github.com/complyward/advisor-go/internal/client"
	"github.com/complyward/advisor-go/internal/config"
	"github.com/complyward/advisor-go/internal/db"
	"github.com/complyward/advisor-go/internal/llm"
	"github.com/complyward/advisor-go/internal/memory"
	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/rag"
	"github.com/complyward/advisor-go/internal/server"
	"github.com/complyward/advisor-go/internal/session"
	"github.com/complyward/advisor-go/internal/tools"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			slog.Error("failed to load config file", "path", *configFile, "error", err)
			os.Exit(1)
		}
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting advisor-server", "port", cfg.Port, "llm_provider", cfg.LLMProvider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := dbClient.InitSchema(ctx); err != nil {
		cancel()
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	if *wipeDB {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			logger.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
		logger.Warn("wiped all advisor data")
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	collector := metrics.NewCollector()

	model, err := llm.NewModel(context.Background(), cfg, collector)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}
	embedder, err := llm.NewEmbedder(cfg, collector)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}

	retriever := rag.New(embedder, dbClient, logger)
	domain := client.NewDomainClient(cfg.DomainServiceURL)

	deps := &tools.Dependencies{
		Store:     dbClient,
		Knowledge: retriever,
		Embedder:  embedder,
		Domain:    domain,
		Logger:    logger,
		Metrics:   collector,
	}
	dispatcher := tools.NewDispatcher(tools.NewRegistry(deps), deps)

	sessions := session.NewManager(dbClient, memory.NewHTTPStore(cfg.MemoryStoreURL), logger)
	ag := agent.New(sessions, model, dispatcher, logger)
	srv := server.New(cfg.Port, ag, collector, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("advisor-server stopped")
}
