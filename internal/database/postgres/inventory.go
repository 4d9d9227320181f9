package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfield/village/internal/domain"
)

const itemColumns = `item_id, player_id, item_type, amount, durability`

// InventoryRepository implements the inventory repository for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(&item.ID, &item.PlayerID, &item.Type, &item.Amount, &item.Durability)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	return &item, nil
}

// Create inserts a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (item_id, player_id, item_type, amount, durability)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.PlayerID, item.Type, item.Amount, item.Durability)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// GetByType returns the player's single stack or tool of the given type
func (r *InventoryRepository) GetByType(ctx context.Context, playerID string, itemType domain.ItemType) (*domain.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE player_id = $1 AND item_type = $2`, itemColumns)
	return scanItem(r.db.QueryRow(ctx, query, playerID, itemType))
}

// ListByPlayer returns all items a player holds
func (r *InventoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE player_id = $1 ORDER BY item_type`, itemColumns)
	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// AddAmount atomically increments a stack
func (r *InventoryRepository) AddAmount(ctx context.Context, itemID string, amount int) error {
	query := `UPDATE inventory_items SET amount = amount + $2 WHERE item_id = $1`
	return r.exec(ctx, query, itemID, amount)
}

// ReduceDurability atomically decrements a tool's durability
func (r *InventoryRepository) ReduceDurability(ctx context.Context, itemID string, amount int) error {
	query := `UPDATE inventory_items SET durability = durability - $2 WHERE item_id = $1`
	return r.exec(ctx, query, itemID, amount)
}

// Delete removes an item entirely
func (r *InventoryRepository) Delete(ctx context.Context, itemID string) error {
	return r.exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1`, itemID)
}

func (r *InventoryRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
