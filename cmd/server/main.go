package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/cmd"
	"github.com/taleniq/ai-gateway/internal/analytics"
	"github.com/taleniq/ai-gateway/internal/catalog"
	"github.com/taleniq/ai-gateway/internal/config"
	"github.com/taleniq/ai-gateway/internal/jobs"
	"github.com/taleniq/ai-gateway/internal/platform/logger"
	"github.com/taleniq/ai-gateway/internal/platform/otel"
	"github.com/taleniq/ai-gateway/internal/server"
	v1 "github.com/taleniq/ai-gateway/internal/server/v1"
	"github.com/taleniq/ai-gateway/internal/store/cache"
	"github.com/taleniq/ai-gateway/internal/store/sqlite"
	"github.com/taleniq/ai-gateway/internal/vendors/gemini"
	"github.com/taleniq/ai-gateway/internal/vendors/minimax"
	"github.com/taleniq/ai-gateway/internal/vendors/openai"
	"github.com/taleniq/ai-gateway/internal/vendors/proprietary"
)

func main() {
	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	go cmd.CheckForUpdates()

	shutdownTracer, err := otel.InitTracer("ai-gateway", log, os.Stdout)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	// Catalog cache: Redis when configured, in-memory otherwise.
	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheSvc = redisCache
		log.Info("Using Redis catalog cache", zap.String("addr", cfg.Redis.Addr))
	} else {
		cacheSvc = cache.NewMemoryCache()
	}

	backendURL := cfg.Backend.Resolve()
	if backendURL == "" {
		log.Warn("No backend URL configured; provider catalog will be empty")
	}

	catalogClient := &http.Client{Timeout: 30 * time.Second}
	catalogStore := catalog.NewStore(backendURL, catalogClient, cacheSvc, cfg.Catalog.TTL, log)
	resolver := catalog.NewResolver(catalogStore)

	repo, err := sqlite.NewSQLiteStorage(cfg.Store.DSN)
	if err != nil {
		log.Fatal("Failed to open accounting store", zap.Error(err))
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor := analytics.NewIngestor(log, repo)
	ingestor.Start(ctx)

	poller := jobs.NewPoller(cfg.Poller.Interval, cfg.Poller.MaxAttempts, log)

	openaiClient := openai.NewClient(log)
	geminiClient := gemini.NewClient(log)
	minimaxClient := minimax.NewClient(log)
	proprietaryClient := proprietary.NewClient(log)

	handlers := server.Handlers{
		Chat:  v1.NewChatHandler(resolver, openaiClient, geminiClient, minimaxClient, ingestor, log),
		Image: v1.NewImageHandler(resolver, openaiClient, minimaxClient, proprietaryClient, ingestor, log),
		Video: v1.NewVideoHandler(resolver, catalogStore, poller, openaiClient, minimaxClient, proprietaryClient, ingestor, log),
		Debug: v1.NewDebugHandler(catalogStore, log),
		Usage: v1.NewUsageHandler(analytics.NewService(repo)),
	}

	srv := server.New(cfg, log, handlers)
	httpServer := srv.HTTPServer()

	go func() {
		log.Info("Gateway listening",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	ingestor.Stop()
}
