package node

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/emberfield/village/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Node for integration-style unit tests. Conditional updates
// behave like their SQL counterparts: they report whether the predicate
// held, so reservation and completion races can be exercised directly.
type FakeRepository struct {
	mu    sync.Mutex
	next  int
	nodes map[string]*domain.ResourceNode
}

// NewFakeRepository creates an empty fake node store
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{nodes: make(map[string]*domain.ResourceNode)}
}

// Seed inserts a node directly, for test setup
func (f *FakeRepository) Seed(node domain.ResourceNode) *domain.ResourceNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if node.ID == "" {
		f.next++
		node.ID = fmt.Sprintf("node-%d", f.next)
	}
	if node.State == "" {
		node.State = domain.NodeGrowing
	}
	if node.Tier == 0 {
		node.Tier = 1
	}
	f.nodes[node.ID] = &node
	return &node
}

func (f *FakeRepository) Create(ctx context.Context, node *domain.ResourceNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *node
	f.nodes[node.ID] = &clone
	return nil
}

func (f *FakeRepository) Get(ctx context.Context, nodeID string) (*domain.ResourceNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[nodeID]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	clone := *n
	return &clone, nil
}

func (f *FakeRepository) ListByKind(ctx context.Context, kind domain.NodeKind) ([]domain.ResourceNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var nodes []domain.ResourceNode
	for _, n := range f.nodes {
		if n.Kind == kind {
			nodes = append(nodes, *n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (f *FakeRepository) PickHarvestable(ctx context.Context, kind domain.NodeKind) (*domain.ResourceNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *domain.ResourceNode
	for _, n := range f.nodes {
		if n.Kind != kind || !n.Harvestable() {
			continue
		}
		if best == nil || finishBefore(n, best) {
			best = n
		}
	}
	if best == nil {
		return nil, domain.ErrNodeNotFound
	}
	clone := *best
	return &clone, nil
}

func finishBefore(a, b *domain.ResourceNode) bool {
	switch {
	case a.ProgressFinishAt == nil:
		return false
	case b.ProgressFinishAt == nil:
		return true
	default:
		return a.ProgressFinishAt.Before(*b.ProgressFinishAt)
	}
}

func (f *FakeRepository) ListGrowing(ctx context.Context) ([]domain.ResourceNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var nodes []domain.ResourceNode
	for _, n := range f.nodes {
		if n.Size < domain.NodeMaxSize {
			nodes = append(nodes, *n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (f *FakeRepository) ApplyGrowth(ctx context.Context, nodeID string, sizeDelta, yieldDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[nodeID]
	if !ok {
		return domain.ErrNodeNotFound
	}
	n.Size += sizeDelta
	if n.Size > domain.NodeMaxSize {
		n.Size = domain.NodeMaxSize
	}
	n.Yield += yieldDelta
	return nil
}

func (f *FakeRepository) Reserve(ctx context.Context, nodeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[nodeID]
	if !ok || !n.Harvestable() {
		return false, nil
	}
	n.State = domain.NodeReserved
	return true, nil
}

func (f *FakeRepository) StartWork(ctx context.Context, nodeID string, finishAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[nodeID]
	if !ok || n.State == domain.NodeWorking {
		return false, nil
	}
	n.State = domain.NodeWorking
	at := finishAt
	n.ProgressFinishAt = &at
	return true, nil
}

func (f *FakeRepository) ListCompleted(ctx context.Context, now time.Time) ([]domain.ResourceNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var nodes []domain.ResourceNode
	for _, n := range f.nodes {
		if n.State == domain.NodeWorking && n.ProgressFinishAt != nil && !n.ProgressFinishAt.After(now) {
			nodes = append(nodes, *n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func (f *FakeRepository) CompleteAndReset(ctx context.Context, nodeID string, now time.Time, nextTier, nextYield int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[nodeID]
	if !ok || n.State != domain.NodeWorking || n.ProgressFinishAt == nil || n.ProgressFinishAt.After(now) {
		return false, nil
	}
	n.State = domain.NodeGrowing
	n.Size = 0
	n.Yield = nextYield
	n.Tier = nextTier
	n.ProgressFinishAt = nil
	return true, nil
}

// FakeCommandRepository is a stateful in-memory implementation of
// repository.Command for integration-style unit tests.
type FakeCommandRepository struct {
	mu       sync.Mutex
	commands []domain.Command
}

// NewFakeCommandRepository creates an empty fake command log
func NewFakeCommandRepository() *FakeCommandRepository {
	return &FakeCommandRepository{}
}

func (f *FakeCommandRepository) Create(ctx context.Context, command *domain.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, *command)
	return nil
}

func (f *FakeCommandRepository) LatestForTarget(ctx context.Context, targetID string) (*domain.Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *domain.Command
	for i := range f.commands {
		c := &f.commands[i]
		if c.TargetID != targetID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrOrphanedNode
	}
	clone := *latest
	return &clone, nil
}

func (f *FakeCommandRepository) ListRecent(ctx context.Context, limit int) ([]domain.Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	commands := make([]domain.Command, len(f.commands))
	copy(commands, f.commands)
	sort.Slice(commands, func(i, j int) bool { return commands[i].CreatedAt.After(commands[j].CreatedAt) })
	if len(commands) > limit {
		commands = commands[:limit]
	}
	return commands, nil
}
