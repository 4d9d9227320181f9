package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
	"github.com/emberfield/village/internal/village"
)

const (
	// SellUnitPrice is the coin value of one resource unit
	SellUnitPrice = 1
	// ToolPrice is what the dealer charges for either tool
	ToolPrice = 20
)

// Service defines the trading business logic: donations to the village,
// resource sales and tool purchases. Stacks are sack-and-dump: donating
// or selling always moves the whole stack.
type Service interface {
	// Donate moves the player's whole stack of a resource into the
	// village stock, paying one reputation per unit donated.
	Donate(ctx context.Context, playerID string, resource domain.ItemType) (*domain.Player, error)

	// Sell converts the player's whole stack of a resource into coins.
	Sell(ctx context.Context, playerID string, resource domain.ItemType) (*domain.Player, error)

	// BuyTool sells the player a tool at full durability. Owning one
	// already or lacking the coins fails the purchase.
	BuyTool(ctx context.Context, playerID string, tool domain.ItemType) (*domain.Player, error)
}

type service struct {
	players   repository.Player
	inventory inventory.Service
	village   village.Service
	bus       event.Bus
	now       func() time.Time
}

// NewService creates a new economy service
func NewService(players repository.Player, inv inventory.Service, vil village.Service, bus event.Bus) Service {
	return &service{
		players:   players,
		inventory: inv,
		village:   vil,
		bus:       bus,
		now:       time.Now,
	}
}

func (s *service) Donate(ctx context.Context, playerID string, resource domain.ItemType) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	amount, err := s.inventory.ConsumeStack(ctx, playerID, resource)
	if err != nil {
		return nil, err
	}

	advanced, err := s.village.Donate(ctx, resource, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit village: %w", err)
	}

	if err := s.players.AddReputation(ctx, playerID, amount); err != nil {
		return nil, fmt.Errorf("failed to add reputation: %w", err)
	}
	if err := s.players.Touch(ctx, playerID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to touch player: %w", err)
	}

	payload := domain.VillageDonatedPayload{
		PlayerID:       playerID,
		Resource:       resource,
		Amount:         amount,
		TargetAdvanced: advanced,
		Timestamp:      s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeVillageDonated, payload)); err != nil {
		log.Error("Failed to publish donation event", "error", err)
	}

	log.Info("Player donated", "playerID", playerID, "resource", resource, "amount", amount)
	return s.players.Get(ctx, playerID)
}

func (s *service) Sell(ctx context.Context, playerID string, resource domain.ItemType) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	amount, err := s.inventory.ConsumeStack(ctx, playerID, resource)
	if err != nil {
		return nil, err
	}

	coins := amount * SellUnitPrice
	if err := s.players.AddCoins(ctx, playerID, coins); err != nil {
		return nil, fmt.Errorf("failed to add coins: %w", err)
	}
	if err := s.players.Touch(ctx, playerID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to touch player: %w", err)
	}

	payload := domain.ResourceSoldPayload{
		PlayerID:    playerID,
		Resource:    resource,
		Amount:      amount,
		CoinsGained: coins,
		Timestamp:   s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeResourceSold, payload)); err != nil {
		log.Error("Failed to publish sale event", "error", err)
	}

	log.Info("Player sold resources", "playerID", playerID, "resource", resource, "amount", amount, "coins", coins)
	return s.players.Get(ctx, playerID)
}

func (s *service) BuyTool(ctx context.Context, playerID string, tool domain.ItemType) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	if _, err := s.players.Get(ctx, playerID); err != nil {
		return nil, err
	}

	owned, err := s.inventory.HasTool(ctx, playerID, tool)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if owned {
		return nil, domain.ErrAlreadyOwned
	}

	paid, err := s.players.SpendCoins(ctx, playerID, ToolPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to spend coins: %w", err)
	}
	if !paid {
		return nil, domain.ErrInsufficientCoins
	}

	if _, err := s.inventory.Grant(ctx, playerID, tool, 1); err != nil {
		return nil, fmt.Errorf("failed to grant tool: %w", err)
	}
	if err := s.players.Touch(ctx, playerID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to touch player: %w", err)
	}

	payload := domain.ToolBoughtPayload{
		PlayerID:  playerID,
		Tool:      tool,
		Price:     ToolPrice,
		Timestamp: s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeToolBought, payload)); err != nil {
		log.Error("Failed to publish purchase event", "error", err)
	}

	log.Info("Player bought tool", "playerID", playerID, "tool", tool, "price", ToolPrice)
	return s.players.Get(ctx, playerID)
}
