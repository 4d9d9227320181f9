package village

import (
	"context"
	"sync"

	"github.com/emberfield/village/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Village for integration-style unit tests. It lives in the
// package (not in _test files) so other packages' tests can reuse it.
type FakeRepository struct {
	mu      sync.Mutex
	village domain.Village
}

// NewFakeRepository creates a fake holding an empty village
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{village: domain.Village{ID: "village"}}
}

// SetGoal activates a cooperative goal, for test setup
func (f *FakeRepository) SetGoal(target, success int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.village.GlobalTarget = &target
	f.village.GlobalTargetSuccess = &success
}

func (f *FakeRepository) Get(ctx context.Context) (*domain.Village, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := f.village
	if f.village.GlobalTarget != nil {
		target := *f.village.GlobalTarget
		clone.GlobalTarget = &target
	}
	if f.village.GlobalTargetSuccess != nil {
		success := *f.village.GlobalTargetSuccess
		clone.GlobalTargetSuccess = &success
	}
	return &clone, nil
}

func (f *FakeRepository) AddStock(ctx context.Context, resource domain.ItemType, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch resource {
	case domain.ItemStone:
		f.village.Stone += amount
	default:
		f.village.Wood += amount
	}
	return nil
}

func (f *FakeRepository) AdvanceGlobalTarget(ctx context.Context, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.village.GlobalTarget == nil || f.village.GlobalTargetSuccess == nil {
		return 0, nil
	}
	if *f.village.GlobalTarget+amount > *f.village.GlobalTargetSuccess {
		return 0, nil
	}
	*f.village.GlobalTarget += amount
	return amount, nil
}
