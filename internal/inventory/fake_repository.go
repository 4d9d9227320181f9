package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/emberfield/village/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Inventory for integration-style unit tests. It lives in the
// package (not in _test files) so other packages' tests can reuse it.
type FakeRepository struct {
	mu    sync.Mutex
	next  int
	items map[string]*domain.InventoryItem // keyed by item ID
}

// NewFakeRepository creates an empty fake inventory store
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{items: make(map[string]*domain.InventoryItem)}
}

// Seed inserts an item directly, for test setup
func (f *FakeRepository) Seed(item domain.InventoryItem) *domain.InventoryItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item.ID == "" {
		f.next++
		item.ID = fmt.Sprintf("item-%d", f.next)
	}
	f.items[item.ID] = &item
	return &item
}

func (f *FakeRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *FakeRepository) GetByType(ctx context.Context, playerID string, itemType domain.ItemType) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.PlayerID == playerID && item.Type == itemType {
			clone := *item
			return &clone, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *FakeRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.InventoryItem
	for _, item := range f.items {
		if item.PlayerID == playerID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *FakeRepository) AddAmount(ctx context.Context, itemID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Amount += amount
	return nil
}

func (f *FakeRepository) ReduceDurability(ctx context.Context, itemID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Durability -= amount
	return nil
}

func (f *FakeRepository) Delete(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	delete(f.items, itemID)
	return nil
}
