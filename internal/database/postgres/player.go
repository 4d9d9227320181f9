package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfield/village/internal/domain"
)

const playerColumns = `player_id, name, x, y, target_id, target_x, target_y, state,
	last_action_at, coins, reputation,
	wood_level, wood_exp, wood_next_at,
	mining_level, mining_exp, mining_next_at, color_index`

// PlayerRepository implements the player repository for PostgreSQL
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.X, &p.Y, &p.TargetID, &p.TargetX, &p.TargetY, &p.State,
		&p.LastActionAt, &p.Coins, &p.Reputation,
		&p.WoodSkill.Level, &p.WoodSkill.Experience, &p.WoodSkill.NextLevelAt,
		&p.MiningSkill.Level, &p.MiningSkill.Experience, &p.MiningSkill.NextLevelAt,
		&p.ColorIndex,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return &p, nil
}

// Create inserts a new player
func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	query := `
		INSERT INTO players (player_id, name, x, y, state, last_action_at,
			wood_next_at, mining_next_at, color_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		player.ID, player.Name, player.X, player.Y, player.State, player.LastActionAt,
		player.WoodSkill.NextLevelAt, player.MiningSkill.NextLevelAt, player.ColorIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

// Get retrieves a player by ID
func (r *PlayerRepository) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE player_id = $1`, playerColumns)
	return scanPlayer(r.db.QueryRow(ctx, query, playerID))
}

// List returns all players
func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players ORDER BY player_id`, playerColumns)
	return r.queryPlayers(ctx, query)
}

// TopByReputation returns the highest-reputation players, best first
func (r *PlayerRepository) TopByReputation(ctx context.Context, limit int) ([]domain.Player, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM players
		WHERE reputation > 0
		ORDER BY reputation DESC
		LIMIT $1`, playerColumns)
	return r.queryPlayers(ctx, query, limit)
}

// ListIdleSince returns players inactive since the cutoff who are still on screen
func (r *PlayerRepository) ListIdleSince(ctx context.Context, cutoff time.Time) ([]domain.Player, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM players
		WHERE last_action_at < $1 AND x <> $2`, playerColumns)
	return r.queryPlayers(ctx, query, cutoff, float64(domain.OffscreenX))
}

func (r *PlayerRepository) queryPlayers(ctx context.Context, query string, args ...any) ([]domain.Player, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// SetMoving records a new movement target and marks the player busy running
func (r *PlayerRepository) SetMoving(ctx context.Context, playerID, targetID string, x, y float64, at time.Time) error {
	query := `
		UPDATE players
		SET target_id = $2, target_x = $3, target_y = $4, state = $5, last_action_at = $6
		WHERE player_id = $1
	`
	return r.exec(ctx, query, playerID, targetID, x, y, domain.StateRunning, at)
}

// SetWorking snaps the player to the work site, clears the target and sets the work state
func (r *PlayerRepository) SetWorking(ctx context.Context, playerID string, state domain.PlayerState, x, y float64, at time.Time) error {
	query := `
		UPDATE players
		SET x = $3, y = $4, target_id = '', target_x = 0, target_y = 0,
			state = $2, last_action_at = $5
		WHERE player_id = $1
	`
	return r.exec(ctx, query, playerID, state, x, y, at)
}

// SetIdle clears the target and busy state
func (r *PlayerRepository) SetIdle(ctx context.Context, playerID string) error {
	query := `
		UPDATE players
		SET target_id = '', target_x = 0, target_y = 0, state = $2
		WHERE player_id = $1
	`
	return r.exec(ctx, query, playerID, domain.StateIdle)
}

// SetIdleFromWork clears the target and busy state only if the player is
// still in the expected work state. An evicted player is mid-return with
// target "0" by the time their node resolves; the condition keeps the
// completion sweep from cancelling that trip.
func (r *PlayerRepository) SetIdleFromWork(ctx context.Context, playerID string, from domain.PlayerState) (bool, error) {
	query := `
		UPDATE players
		SET target_id = '', target_x = 0, target_y = 0, state = $3
		WHERE player_id = $1 AND state = $2
	`
	tag, err := r.db.Exec(ctx, query, playerID, from, domain.StateIdle)
	if err != nil {
		return false, fmt.Errorf("failed to clear work state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetPosition updates only the player's coordinates
func (r *PlayerRepository) SetPosition(ctx context.Context, playerID string, x, y float64) error {
	return r.exec(ctx, `UPDATE players SET x = $2, y = $3 WHERE player_id = $1`, playerID, x, y)
}

// Touch stamps the last-action timestamp
func (r *PlayerRepository) Touch(ctx context.Context, playerID string, at time.Time) error {
	return r.exec(ctx, `UPDATE players SET last_action_at = $2 WHERE player_id = $1`, playerID, at)
}

// SpendCoins decrements the balance only when it covers the price
func (r *PlayerRepository) SpendCoins(ctx context.Context, playerID string, price int) (bool, error) {
	query := `
		UPDATE players
		SET coins = coins - $2
		WHERE player_id = $1 AND coins >= $2
	`
	tag, err := r.db.Exec(ctx, query, playerID, price)
	if err != nil {
		return false, fmt.Errorf("failed to spend coins: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddCoins atomically increments the balance
func (r *PlayerRepository) AddCoins(ctx context.Context, playerID string, amount int) error {
	return r.exec(ctx, `UPDATE players SET coins = coins + $2 WHERE player_id = $1`, playerID, amount)
}

// AddReputation atomically increments reputation
func (r *PlayerRepository) AddReputation(ctx context.Context, playerID string, amount int) error {
	return r.exec(ctx, `UPDATE players SET reputation = reputation + $2 WHERE player_id = $1`, playerID, amount)
}

// AddSkillExperience atomically increments a skill's experience
func (r *PlayerRepository) AddSkillExperience(ctx context.Context, playerID string, kind domain.SkillKind, amount int) error {
	query := `UPDATE players SET wood_exp = wood_exp + $2 WHERE player_id = $1`
	if kind == domain.SkillMining {
		query = `UPDATE players SET mining_exp = mining_exp + $2 WHERE player_id = $1`
	}
	return r.exec(ctx, query, playerID, amount)
}

// SetSkillLevel records a level-up: new level and threshold, experience reset
func (r *PlayerRepository) SetSkillLevel(ctx context.Context, playerID string, kind domain.SkillKind, level, nextLevelAt int) error {
	query := `UPDATE players SET wood_level = $2, wood_next_at = $3, wood_exp = 0 WHERE player_id = $1`
	if kind == domain.SkillMining {
		query = `UPDATE players SET mining_level = $2, mining_next_at = $3, mining_exp = 0 WHERE player_id = $1`
	}
	return r.exec(ctx, query, playerID, level, nextLevelAt)
}

func (r *PlayerRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}
