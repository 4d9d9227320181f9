package repository

import (
	"context"

	"github.com/emberfield/village/internal/domain"
)

// Inventory defines the interface for inventory item persistence
type Inventory interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByType(ctx context.Context, playerID string, itemType domain.ItemType) (*domain.InventoryItem, error)
	ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryItem, error)
	AddAmount(ctx context.Context, itemID string, amount int) error
	ReduceDurability(ctx context.Context, itemID string, amount int) error
	Delete(ctx context.Context, itemID string) error
}
