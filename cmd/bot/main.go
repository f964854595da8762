package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guildforge/coinbot/internal/coinflip"
	"github.com/guildforge/coinbot/internal/concurrency"
	"github.com/guildforge/coinbot/internal/config"
	"github.com/guildforge/coinbot/internal/database"
	"github.com/guildforge/coinbot/internal/database/postgres"
	"github.com/guildforge/coinbot/internal/discord"
	"github.com/guildforge/coinbot/internal/economy"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/scheduler"
	"github.com/guildforge/coinbot/internal/server"
	"github.com/guildforge/coinbot/internal/session"
	"github.com/guildforge/coinbot/internal/shop"
	"github.com/guildforge/coinbot/internal/worker"
)

const (
	shutdownTimeout    = 15 * time.Second
	workerCount        = 4
	workerQueueSize    = 64
	sessionSweepEvery  = time.Minute
	cooldownPruneEvery = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	if err := database.RunMigrations(cfg.GetDBConnString()); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), database.DefaultMaxConnections,
		database.DefaultMaxIdleTime, database.DefaultMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Repositories and core services
	profileRepo := postgres.NewProfileRepository(pool)
	shopRepo := postgres.NewShopRepository(pool)
	guildRepo := postgres.NewGuildRepository(pool)

	bus := event.NewBus()
	locks := concurrency.NewLockManager()
	economySvc := economy.NewService(profileRepo, guildRepo, bus, locks)
	shopSvc := shop.NewService(shopRepo, profileRepo, economySvc)
	coinflipSvc := coinflip.NewService(economySvc, random.NewSource())
	sessions := session.NewManager(economySvc, bus)

	// Background jobs
	workerPool := worker.NewPool(workerCount, workerQueueSize)
	workerPool.Start()
	sched := scheduler.New(workerPool)
	sched.Schedule(sessionSweepEvery, worker.SessionSweepJob{Manager: sessions})
	sched.Schedule(cooldownPruneEvery, worker.CooldownPruneJob{Economy: economySvc})

	// Discord gateway
	bot, err := discord.New(discord.Config{Token: cfg.DiscordToken},
		economySvc, shopSvc, coinflipSvc, sessions, bus)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}
	if err := bot.Start(); err != nil {
		slog.Error("Failed to start bot", "error", err)
		os.Exit(1)
	}

	// Ops HTTP server
	srv := server.New(cfg.Port, pool)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("Ops server failed", "error", err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bot.Stop()
	sessions.Shutdown(ctx)
	sched.Stop()
	workerPool.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Ops server shutdown failed", "error", err)
	}
	slog.Info("Shutdown complete")
}
