package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfield/village/internal/domain"
)

// VillageRepository implements the village singleton repository for PostgreSQL
type VillageRepository struct {
	db *pgxpool.Pool
}

// NewVillageRepository creates a new VillageRepository
func NewVillageRepository(db *pgxpool.Pool) *VillageRepository {
	return &VillageRepository{db: db}
}

// Get returns the village aggregate
func (r *VillageRepository) Get(ctx context.Context) (*domain.Village, error) {
	query := `
		SELECT village_id, wood, stone, global_target, global_target_success
		FROM villages
		LIMIT 1
	`
	var v domain.Village
	err := r.db.QueryRow(ctx, query).Scan(&v.ID, &v.Wood, &v.Stone, &v.GlobalTarget, &v.GlobalTargetSuccess)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVillageNotFound
		}
		return nil, fmt.Errorf("failed to get village: %w", err)
	}
	return &v, nil
}

// AddStock atomically increments the village stock of a resource
func (r *VillageRepository) AddStock(ctx context.Context, resource domain.ItemType, amount int) error {
	query := `UPDATE villages SET wood = wood + $1`
	if resource == domain.ItemStone {
		query = `UPDATE villages SET stone = stone + $1`
	}
	if _, err := r.db.Exec(ctx, query, amount); err != nil {
		return fmt.Errorf("failed to add village stock: %w", err)
	}
	return nil
}

// AdvanceGlobalTarget credits the cooperative counter only when the full
// amount fits under the success threshold. The predicate runs inside the
// update so concurrent donations cannot overshoot.
func (r *VillageRepository) AdvanceGlobalTarget(ctx context.Context, amount int) (int, error) {
	query := `
		UPDATE villages
		SET global_target = global_target + $1
		WHERE global_target IS NOT NULL
		  AND global_target_success IS NOT NULL
		  AND global_target + $1 <= global_target_success
	`
	tag, err := r.db.Exec(ctx, query, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to advance global target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, nil
	}
	return amount, nil
}
