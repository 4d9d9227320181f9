package village

import (
	"context"
	"fmt"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
)

// Service defines the village aggregate business logic
type Service interface {
	// Get returns the village singleton.
	Get(ctx context.Context) (*domain.Village, error)

	// Donate credits the village stock with the donated amount and, when
	// a cooperative goal is active, advances the goal counter. The
	// advance is all-or-nothing: an amount that would push the counter
	// past the success threshold credits the goal nothing. Returns the
	// amount actually credited toward the goal.
	Donate(ctx context.Context, resource domain.ItemType, amount int) (int, error)
}

type service struct {
	repo repository.Village
}

// NewService creates a new village service
func NewService(repo repository.Village) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*domain.Village, error) {
	return s.repo.Get(ctx)
}

func (s *service) Donate(ctx context.Context, resource domain.ItemType, amount int) (int, error) {
	log := logger.FromContext(ctx)

	if err := s.repo.AddStock(ctx, resource, amount); err != nil {
		return 0, fmt.Errorf("failed to add village stock: %w", err)
	}

	advanced, err := s.repo.AdvanceGlobalTarget(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to advance global target: %w", err)
	}

	log.Info("Village received donation", "resource", resource, "amount", amount, "targetAdvanced", advanced)
	return advanced, nil
}
