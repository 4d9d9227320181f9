package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emberfield/village/internal/config"
	"github.com/emberfield/village/internal/database"
)

// reset drops and recreates the game database, then reapplies every
// migration. Destroys all player progress. Intended for local
// development only.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to the 'postgres' database to manage the game database
	adminConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	adminPool, err := database.NewPool(adminConnString, 2, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL server: %v", err)
	}
	defer adminPool.Close()

	ctx := context.Background()

	log.Printf("Terminating existing connections to database %s...", cfg.DBName)
	_, err = adminPool.Exec(ctx, fmt.Sprintf(`
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = '%s'
		AND pid <> pg_backend_pid()
	`, cfg.DBName))
	if err != nil {
		log.Printf("Warning: Failed to terminate connections: %v", err)
	}

	log.Printf("Dropping database %s if it exists...", cfg.DBName)
	if _, err = adminPool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", cfg.DBName)); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}

	log.Printf("Creating database %s...", cfg.DBName)
	if _, err = adminPool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", cfg.DBName)); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Reset complete.")
}
