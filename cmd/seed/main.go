package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/emberfield/village/internal/config"
	"github.com/emberfield/village/internal/database"
	"github.com/emberfield/village/internal/database/postgres"
	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/inventory"
)

// seed inserts a handful of demo players with starter gear so a fresh
// local database has something to look at. Existing players are left
// untouched, so it is safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := database.NewPool(cfg.GetDBConnString(), 2, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	playerRepo := postgres.NewPlayerRepository(pool)
	inventoryService := inventory.NewService(postgres.NewInventoryRepository(pool))

	ctx := context.Background()
	now := time.Now()

	demos := []struct {
		id    string
		name  string
		coins int
		color int
		tool  domain.ItemType
		stock domain.ItemType
		count int
	}{
		{id: "demo-lumberjack", name: "Sven", coins: 5, color: 12, tool: domain.ItemAxe, stock: domain.ItemWood, count: 8},
		{id: "demo-miner", name: "Greta", coins: 25, color: 47, tool: domain.ItemPickaxe, stock: domain.ItemStone, count: 3},
		{id: "demo-drifter", name: "Olaf", coins: 0, color: 73},
	}

	for _, d := range demos {
		if _, err := playerRepo.Get(ctx, d.id); err == nil {
			log.Printf("Player %s already exists, skipping", d.id)
			continue
		} else if !errors.Is(err, domain.ErrPlayerNotFound) {
			log.Fatalf("Failed to check player %s: %v", d.id, err)
		}

		p := &domain.Player{
			ID:           d.id,
			Name:         d.name,
			X:            domain.OffscreenX,
			Y:            domain.OffscreenY,
			State:        domain.StateIdle,
			LastActionAt: now,
			Coins:        d.coins,
			WoodSkill:    domain.Skill{NextLevelAt: 100},
			MiningSkill:  domain.Skill{NextLevelAt: 100},
			ColorIndex:   d.color,
		}
		if err := playerRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to create player %s: %v", d.id, err)
		}

		if d.tool != "" {
			if _, err := inventoryService.Grant(ctx, d.id, d.tool, 1); err != nil {
				log.Fatalf("Failed to grant %s to %s: %v", d.tool, d.id, err)
			}
		}
		if d.count > 0 {
			if _, err := inventoryService.Grant(ctx, d.id, d.stock, d.count); err != nil {
				log.Fatalf("Failed to grant %s to %s: %v", d.stock, d.id, err)
			}
		}
		log.Printf("Seeded player %s (%s)", d.id, d.name)
	}

	// Open a cooperative goal if none is active
	tag, err := pool.Exec(ctx, `
		UPDATE villages SET global_target = 0, global_target_success = 50
		WHERE global_target IS NULL`)
	if err != nil {
		log.Fatalf("Failed to open village goal: %v", err)
	}
	if tag.RowsAffected() > 0 {
		log.Println("Opened village goal: 0/50")
	}
}
