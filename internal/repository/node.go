package repository

import (
	"context"
	"time"

	"github.com/emberfield/village/internal/domain"
)

// Node defines the interface for resource node persistence.
// Reserve and CompleteAndReset are conditional updates: they must only
// apply when the node is still in the expected state, and report whether
// they won, so concurrent callers cannot double-assign or double-pay a node.
type Node interface {
	Create(ctx context.Context, node *domain.ResourceNode) error
	Get(ctx context.Context, nodeID string) (*domain.ResourceNode, error)
	ListByKind(ctx context.Context, kind domain.NodeKind) ([]domain.ResourceNode, error)

	// PickHarvestable returns the best reservable node of the given kind
	// (size >= 50, still growing), preferring nodes nearing natural
	// completion. Returns ErrNodeNotFound when none qualify.
	PickHarvestable(ctx context.Context, kind domain.NodeKind) (*domain.ResourceNode, error)

	// ListGrowing returns all nodes below the size cap.
	ListGrowing(ctx context.Context) ([]domain.ResourceNode, error)

	// ApplyGrowth atomically increments size (capped at the max) and yield.
	ApplyGrowth(ctx context.Context, nodeID string, sizeDelta, yieldDelta int) error

	// Reserve flips the node from growing to reserved; false means the
	// node was no longer reservable (lost race, too small, or missing).
	Reserve(ctx context.Context, nodeID string) (bool, error)

	// StartWork moves a reserved or growing node into the working state
	// with the given deadline; false means the node was already working
	// or missing.
	StartWork(ctx context.Context, nodeID string, finishAt time.Time) (bool, error)

	// ListCompleted returns nodes whose work deadline has passed.
	ListCompleted(ctx context.Context, now time.Time) ([]domain.ResourceNode, error)

	// CompleteAndReset atomically resets a due node back to growing
	// (size and yield reset, tier advanced). False means another sweep
	// already claimed it — the caller must not pay out.
	CompleteAndReset(ctx context.Context, nodeID string, now time.Time, nextTier, nextYield int) (bool, error)
}
