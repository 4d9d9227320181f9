package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfield/village/internal/domain"
)

const commandColumns = `command_id, player_id, command, target_id, created_at`

// CommandRepository implements the command log repository for PostgreSQL
type CommandRepository struct {
	db *pgxpool.Pool
}

// NewCommandRepository creates a new CommandRepository
func NewCommandRepository(db *pgxpool.Pool) *CommandRepository {
	return &CommandRepository{db: db}
}

// Create inserts a write-once command record
func (r *CommandRepository) Create(ctx context.Context, command *domain.Command) error {
	query := `
		INSERT INTO commands (command_id, player_id, command, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		command.ID, command.PlayerID, command.Command, command.TargetID, command.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert command: %w", err)
	}
	return nil
}

// LatestForTarget returns the most recent command referencing a node
func (r *CommandRepository) LatestForTarget(ctx context.Context, targetID string) (*domain.Command, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM commands
		WHERE target_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, commandColumns)

	var c domain.Command
	err := r.db.QueryRow(ctx, query, targetID).Scan(&c.ID, &c.PlayerID, &c.Command, &c.TargetID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrphanedNode
		}
		return nil, fmt.Errorf("failed to get latest command: %w", err)
	}
	return &c, nil
}

// ListRecent returns the newest commands, newest first
func (r *CommandRepository) ListRecent(ctx context.Context, limit int) ([]domain.Command, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM commands
		ORDER BY created_at DESC
		LIMIT $1`, commandColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	var commands []domain.Command
	for rows.Next() {
		var c domain.Command
		if err := rows.Scan(&c.ID, &c.PlayerID, &c.Command, &c.TargetID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}
