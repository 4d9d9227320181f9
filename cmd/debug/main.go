package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emberfield/village/internal/config"
	"github.com/emberfield/village/internal/database"
)

// debug dumps the current world state to stdout. Read-only.
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

	ctx := context.Background()

	fmt.Println("--- Players ---")
	rows, err := pool.Query(ctx, `
		SELECT player_id, name, state, x, y, coins, reputation, last_action_at
		FROM players ORDER BY last_action_at DESC`)
	if err != nil {
		log.Fatalf("Failed to query players: %v", err)
	}
	for rows.Next() {
		var id, name, state string
		var x, y float64
		var coins, reputation int
		var lastAction time.Time
		if err := rows.Scan(&id, &name, &state, &x, &y, &coins, &reputation, &lastAction); err != nil {
			log.Fatalf("Failed to scan player: %v", err)
		}
		fmt.Printf("%-20s %-12s %-10s (%6.1f,%6.1f) coins=%-4d rep=%-4d last=%s\n",
			id, name, state, x, y, coins, reputation, lastAction.Format(time.RFC3339))
	}
	rows.Close()

	fmt.Println("--- Resource Nodes ---")
	rows, err = pool.Query(ctx, `
		SELECT node_id, kind, state, size, yield, tier, progress_finish_at
		FROM resource_nodes ORDER BY node_id`)
	if err != nil {
		log.Fatalf("Failed to query nodes: %v", err)
	}
	for rows.Next() {
		var id, kind, state string
		var size, yield, tier int
		var finishAt *time.Time
		if err := rows.Scan(&id, &kind, &state, &size, &yield, &tier, &finishAt); err != nil {
			log.Fatalf("Failed to scan node: %v", err)
		}
		finish := "-"
		if finishAt != nil {
			finish = finishAt.Format(time.RFC3339)
		}
		fmt.Printf("%-10s %-6s %-8s size=%-3d yield=%-2d tier=%d finish=%s\n",
			id, kind, state, size, yield, tier, finish)
	}
	rows.Close()

	fmt.Println("--- Village ---")
	var wood, stone int
	var target, success *int
	err = pool.QueryRow(ctx, `
		SELECT wood, stone, global_target, global_target_success
		FROM villages LIMIT 1`).Scan(&wood, &stone, &target, &success)
	if err != nil {
		log.Fatalf("Failed to query village: %v", err)
	}
	fmt.Printf("wood=%d stone=%d", wood, stone)
	if target != nil && success != nil {
		fmt.Printf(" goal=%d/%d", *target, *success)
	}
	fmt.Println()

	fmt.Println("--- Recent Commands ---")
	rows, err = pool.Query(ctx, `
		SELECT command_id, player_id, command, target_id, created_at
		FROM commands ORDER BY created_at DESC LIMIT 20`)
	if err != nil {
		log.Fatalf("Failed to query commands: %v", err)
	}
	for rows.Next() {
		var id, playerID, command, targetID string
		var createdAt time.Time
		if err := rows.Scan(&id, &playerID, &command, &targetID, &createdAt); err != nil {
			log.Fatalf("Failed to scan command: %v", err)
		}
		fmt.Printf("%s %-20s %-6s -> %s\n", createdAt.Format(time.RFC3339), playerID, command, targetID)
	}
	rows.Close()
}
