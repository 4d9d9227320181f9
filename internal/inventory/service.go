package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
)

// ToolDurability is the durability a freshly granted tool starts with
const ToolDurability = 100

// Service defines the inventory and durability business logic
type Service interface {
	// Grant adds to a player's stack of the given type, creating it first
	// if the player holds none.
	Grant(ctx context.Context, playerID string, itemType domain.ItemType, amount int) (*domain.InventoryItem, error)

	// Items returns everything the player holds.
	Items(ctx context.Context, playerID string) ([]domain.InventoryItem, error)

	// GetItem returns the player's stack or tool of the given type.
	GetItem(ctx context.Context, playerID string, itemType domain.ItemType) (*domain.InventoryItem, error)

	// HasTool reports whether the player holds the given tool.
	HasTool(ctx context.Context, playerID string, tool domain.ItemType) (bool, error)

	// ConsumeStack removes the player's whole stack of a resource and
	// returns the amount it held. Stacks are sack-and-dump: there is no
	// partial withdrawal.
	ConsumeStack(ctx context.Context, playerID string, itemType domain.ItemType) (int, error)

	// Wear reduces a tool's durability, deleting it when the wear meets
	// or exceeds what is left. Returns true when the tool broke.
	Wear(ctx context.Context, playerID string, tool domain.ItemType, amount int) (bool, error)
}

type service struct {
	repo  repository.Inventory
	newID func() string
}

// NewService creates a new inventory service
func NewService(repo repository.Inventory) Service {
	return &service{
		repo:  repo,
		newID: uuid.NewString,
	}
}

func (s *service) Grant(ctx context.Context, playerID string, itemType domain.ItemType, amount int) (*domain.InventoryItem, error) {
	item, err := s.repo.GetByType(ctx, playerID, itemType)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			return nil, fmt.Errorf("failed to get item: %w", err)
		}

		item = &domain.InventoryItem{
			ID:       s.newID(),
			PlayerID: playerID,
			Type:     itemType,
			Amount:   amount,
		}
		if itemType.IsTool() {
			item.Durability = ToolDurability
		}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create item: %w", err)
		}
		return item, nil
	}

	if err := s.repo.AddAmount(ctx, item.ID, amount); err != nil {
		return nil, fmt.Errorf("failed to add to stack: %w", err)
	}
	item.Amount += amount
	return item, nil
}

func (s *service) Items(ctx context.Context, playerID string) ([]domain.InventoryItem, error) {
	return s.repo.ListByPlayer(ctx, playerID)
}

func (s *service) GetItem(ctx context.Context, playerID string, itemType domain.ItemType) (*domain.InventoryItem, error) {
	return s.repo.GetByType(ctx, playerID, itemType)
}

func (s *service) HasTool(ctx context.Context, playerID string, tool domain.ItemType) (bool, error) {
	_, err := s.repo.GetByType(ctx, playerID, tool)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up tool: %w", err)
	}
	return true, nil
}

func (s *service) ConsumeStack(ctx context.Context, playerID string, itemType domain.ItemType) (int, error) {
	item, err := s.repo.GetByType(ctx, playerID, itemType)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return 0, fmt.Errorf("failed to consume stack: %w", err)
	}
	return item.Amount, nil
}

func (s *service) Wear(ctx context.Context, playerID string, tool domain.ItemType, amount int) (bool, error) {
	log := logger.FromContext(ctx)

	item, err := s.repo.GetByType(ctx, playerID, tool)
	if err != nil {
		return false, err
	}

	if item.Durability <= amount {
		if err := s.repo.Delete(ctx, item.ID); err != nil {
			return false, fmt.Errorf("failed to break tool: %w", err)
		}
		log.Info("Tool broke", "playerID", playerID, "tool", tool)
		return true, nil
	}

	if err := s.repo.ReduceDurability(ctx, item.ID, amount); err != nil {
		return false, fmt.Errorf("failed to wear tool: %w", err)
	}
	return false, nil
}
