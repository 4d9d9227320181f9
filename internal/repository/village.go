package repository

import (
	"context"

	"github.com/emberfield/village/internal/domain"
)

// Village defines the interface for the village singleton.
// Stock changes are atomic increments; AdvanceGlobalTarget is a guarded
// conditional update so concurrent donations can neither lose stock nor
// push the cooperative counter past its success threshold.
type Village interface {
	Get(ctx context.Context) (*domain.Village, error)

	AddStock(ctx context.Context, resource domain.ItemType, amount int) error

	// AdvanceGlobalTarget advances the cooperative counter by amount only
	// if a goal is active and the advance would not overshoot the success
	// threshold. Returns the amount actually credited (amount or 0).
	AdvanceGlobalTarget(ctx context.Context, amount int) (int, error)
}
