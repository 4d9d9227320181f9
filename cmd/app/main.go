package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberfield/village/internal/config"
	"github.com/emberfield/village/internal/database"
	"github.com/emberfield/village/internal/database/postgres"
	"github.com/emberfield/village/internal/economy"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/handler"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/metrics"
	"github.com/emberfield/village/internal/node"
	"github.com/emberfield/village/internal/player"
	"github.com/emberfield/village/internal/scheduler"
	"github.com/emberfield/village/internal/server"
	"github.com/emberfield/village/internal/skill"
	"github.com/emberfield/village/internal/village"
)

const (
	dbMaxConns       = 10
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute
	shutdownDeadline = 10 * time.Second
)

// @title Village API
// @version 1.0
// @description Resource-node and player-task simulation engine for the village idle game.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	playerRepo := postgres.NewPlayerRepository(pool)
	nodeRepo := postgres.NewNodeRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	villageRepo := postgres.NewVillageRepository(pool)
	commandRepo := postgres.NewCommandRepository(pool)

	bus := event.NewMemoryBus()
	metrics.NewEventCollector().Register(bus)

	inventoryService := inventory.NewService(inventoryRepo)
	villageService := village.NewService(villageRepo)
	skillService := skill.NewService(playerRepo, inventoryService, bus)
	nodeService := node.NewService(nodeRepo, commandRepo, playerRepo, inventoryService, bus)
	playerService := player.NewService(playerRepo, nodeRepo, commandRepo, inventoryService, bus)
	economyService := economy.NewService(playerRepo, inventoryService, villageService, bus)

	handler.InitValidator()

	sched := scheduler.New()
	sched.Schedule(cfg.GrowthInterval, scheduler.JobFunc{
		JobName: "node_growth",
		Fn:      nodeService.TickGrowth,
	})
	sched.Schedule(cfg.CompletionInterval, scheduler.JobFunc{
		JobName: "work_completion",
		Fn:      nodeService.SweepCompletions,
	})
	sched.Schedule(cfg.IdleSweepInterval, scheduler.JobFunc{
		JobName: "idle_eviction",
		Fn:      playerService.SweepIdle,
	})

	srv := server.NewServer(
		cfg.Port,
		pool,
		playerService,
		nodeService,
		inventoryService,
		skillService,
		villageService,
		economyService,
		commandRepo,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("Application started", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		log.Fatalf("Server failed to start: %v", err)
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
