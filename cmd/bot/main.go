package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liveplace/liveplace-bot/config"
	"github.com/liveplace/liveplace-bot/internal/delivery/telegram"
	"github.com/liveplace/liveplace-bot/internal/domain/entity"
	"github.com/liveplace/liveplace-bot/internal/domain/repository"
	"github.com/liveplace/liveplace-bot/internal/infrastructure/sheets"
	"github.com/liveplace/liveplace-bot/internal/infrastructure/storage"
	"github.com/liveplace/liveplace-bot/internal/usecase"
	"github.com/liveplace/liveplace-bot/pkg/logger"
)

const heartbeatInterval = 5 * time.Minute

func main() {
	logger.Init()
	logger.InfoLogger.Println("🚀 Starting LivePlace bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var provider repository.ListingProvider = emptyProvider{}
	if cfg.SheetsEnabled {
		client, err := sheets.NewClient(ctx, cfg.CredentialsJSON, cfg.SheetID, cfg.SheetTab)
		if err != nil {
			log.Fatalf("❌ Failed to init Google Sheets client: %v", err)
		}
		provider = client
	} else {
		logger.InfoLogger.Println("⚠️ Google Sheets disabled, serving an empty listing set")
	}

	cache := storage.NewListingCache(provider, cfg.RefreshInterval)
	cache.Get(ctx, true)

	engine := usecase.NewFilterEngine(cfg.IncludeUnpriced)
	sessions := storage.NewMemorySessionStore(cfg.SessionTTL)

	var stats repository.StatsRepository = storage.NoopStats{}
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStats(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		stats = pg
	} else {
		logger.InfoLogger.Println("⚠️ DATABASE_URL is empty, stats are disabled")
	}

	handler, err := telegram.NewBotHandler(cfg, cache, engine, sessions, stats)
	if err != nil {
		log.Fatalf("❌ Failed to create bot: %v", err)
	}

	go cache.AutoRefresh(ctx)
	go cache.Heartbeat(ctx, heartbeatInterval)
	go sessions.Cleanup(ctx)
	go handler.Start(ctx)

	handler.NotifyStartup()
	logger.InfoLogger.Printf("✅ Bot @%s is up", handler.BotUsername())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.InfoLogger.Println("🛑 Shutting down...")
	handler.NotifyShutdown()
	cancel()
	time.Sleep(time.Second)
}

// emptyProvider backs the cache when Sheets access is disabled.
type emptyProvider struct{}

func (emptyProvider) Load(context.Context) ([]entity.Listing, error) {
	return []entity.Listing{}, nil
}
