package repository

import (
	"context"

	"github.com/emberfield/village/internal/domain"
)

// Command defines the interface for the write-once command log
type Command interface {
	Create(ctx context.Context, command *domain.Command) error

	// LatestForTarget returns the most recent command referencing the
	// given node, used to resolve who is owed a completed node's yield.
	LatestForTarget(ctx context.Context, targetID string) (*domain.Command, error)

	ListRecent(ctx context.Context, limit int) ([]domain.Command, error)
}
