package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/player"
)

type testEnv struct {
	svc      *service
	nodes    *FakeRepository
	commands *FakeCommandRepository
	players  *player.FakeRepository
	items    *inventory.FakeRepository
	bus      *event.MemoryBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		nodes:    NewFakeRepository(),
		commands: NewFakeCommandRepository(),
		players:  player.NewFakeRepository(),
		items:    inventory.NewFakeRepository(),
		bus:      event.NewMemoryBus(),
	}
	svc := NewService(env.nodes, env.commands, env.players, inventory.NewService(env.items), env.bus)
	env.svc = svc.(*service)
	env.svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	env.svc.rnd = func() float64 { return 0.5 }
	return env
}

// rolls returns a rnd func that replays the given values in order and
// repeats the last one afterwards.
func rolls(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func (e *testEnv) seedWorkingNode(kind domain.NodeKind, yield int, tier int) *domain.ResourceNode {
	finishAt := e.svc.now().Add(-time.Second)
	return e.nodes.Seed(domain.ResourceNode{
		Kind:             kind,
		Size:             100,
		Yield:            yield,
		State:            domain.NodeWorking,
		ProgressFinishAt: &finishAt,
		Tier:             tier,
	})
}

func TestReserveMutualExclusion(t *testing.T) {
	env := newTestEnv(t)
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 60})

	require.NoError(t, env.svc.Reserve(context.Background(), n.ID))

	err := env.svc.Reserve(context.Background(), n.ID)
	assert.ErrorIs(t, err, domain.ErrNodeUnavailable)
}

func TestReserveMissingNode(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Reserve(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestReserveBelowHarvestableSize(t *testing.T) {
	env := newTestEnv(t)
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 30})

	err := env.svc.Reserve(context.Background(), n.ID)
	assert.ErrorIs(t, err, domain.ErrNodeUnavailable)
}

func TestStartWorkSetsDeadline(t *testing.T) {
	env := newTestEnv(t)
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 60, State: domain.NodeReserved})

	finishAt, err := env.svc.StartWork(context.Background(), n.ID, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, env.svc.now().Add(10*time.Second), finishAt)

	stored, err := env.nodes.Get(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeWorking, stored.State)
	require.NotNil(t, stored.ProgressFinishAt)
	assert.Equal(t, finishAt, *stored.ProgressFinishAt)
}

func TestStartWorkAlreadyWorking(t *testing.T) {
	env := newTestEnv(t)
	n := env.seedWorkingNode(domain.NodeTree, 3, 1)

	_, err := env.svc.StartWork(context.Background(), n.ID, 10*time.Second)
	assert.ErrorIs(t, err, domain.ErrNodeUnavailable)
}

func TestTickGrowthIncrementsAndCaps(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = func() float64 { return 0.9 } // never rolls yield
	low := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 10})
	nearCap := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeStone, Size: 99})

	for i := 0; i < 3; i++ {
		require.NoError(t, env.svc.TickGrowth(context.Background()))
	}

	grownLow, _ := env.nodes.Get(context.Background(), low.ID)
	assert.Equal(t, 13, grownLow.Size)
	assert.Equal(t, 0, grownLow.Yield)

	grownCap, _ := env.nodes.Get(context.Background(), nearCap.ID)
	assert.Equal(t, domain.NodeMaxSize, grownCap.Size, "growth never pushes size past the cap")
}

func TestTickGrowthRollsYield(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = func() float64 { return 0.01 } // always under the 3% chance
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 10})

	require.NoError(t, env.svc.TickGrowth(context.Background()))

	grown, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, 1, grown.Yield)
}

func TestSweepPaysOwnerAndResetsNode(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = rolls(0.0) // wear roll of 8
	n := env.seedWorkingNode(domain.NodeTree, 5, 2)
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateChopping})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemAxe, Amount: 1, Durability: 50})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!chop", TargetID: n.ID, CreatedAt: env.svc.now()})

	var completed []domain.NodeCompletedPayload
	env.bus.Subscribe(domain.EventTypeNodeCompleted, func(ctx context.Context, e event.Event) error {
		completed = append(completed, e.Payload.(domain.NodeCompletedPayload))
		return nil
	})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	wood, err := env.items.GetByType(context.Background(), "p1", domain.ItemWood)
	require.NoError(t, err)
	assert.Equal(t, 5, wood.Amount)

	p, _ := env.players.Get(context.Background(), "p1")
	assert.Equal(t, domain.StateIdle, p.State)

	axe, err := env.items.GetByType(context.Background(), "p1", domain.ItemAxe)
	require.NoError(t, err)
	assert.Equal(t, 42, axe.Durability)

	reset, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, domain.NodeGrowing, reset.State)
	assert.Equal(t, 0, reset.Size)
	assert.Equal(t, 0, reset.Yield)
	assert.Equal(t, 3, reset.Tier)
	assert.Nil(t, reset.ProgressFinishAt)

	require.Len(t, completed, 1)
	assert.Equal(t, "p1", completed[0].PlayerID)
	assert.Equal(t, 5, completed[0].Yield)
}

func TestSweepLeavesEvictedOwnerReturning(t *testing.T) {
	env := newTestEnv(t)
	n := env.seedWorkingNode(domain.NodeTree, 4, 1)
	// Owner was evicted mid-task: already running back to the off-screen anchor
	env.players.Seed(domain.Player{
		ID:       "p1",
		State:    domain.StateRunning,
		TargetID: domain.OffscreenTargetID,
		TargetX:  domain.OffscreenX,
		TargetY:  domain.OffscreenY,
	})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!chop", TargetID: n.ID, CreatedAt: env.svc.now()})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	// Reward still lands, but the return trip must keep its target
	wood, err := env.items.GetByType(context.Background(), "p1", domain.ItemWood)
	require.NoError(t, err)
	assert.Equal(t, 4, wood.Amount)

	p, _ := env.players.Get(context.Background(), "p1")
	assert.Equal(t, domain.StateRunning, p.State)
	assert.Equal(t, domain.OffscreenTargetID, p.TargetID)
	assert.Equal(t, float64(domain.OffscreenX), p.TargetX)
	assert.Equal(t, float64(domain.OffscreenY), p.TargetY)

	reset, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, domain.NodeGrowing, reset.State)
}

func TestSweepIsNotDoublePaid(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = rolls(0.0)
	n := env.seedWorkingNode(domain.NodeTree, 5, 1)
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateChopping})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!chop", TargetID: n.ID, CreatedAt: env.svc.now()})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))
	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	wood, err := env.items.GetByType(context.Background(), "p1", domain.ItemWood)
	require.NoError(t, err)
	assert.Equal(t, 5, wood.Amount, "a node pays out exactly once")
}

func TestSweepTierCyclesBackToOne(t *testing.T) {
	env := newTestEnv(t)
	n := env.seedWorkingNode(domain.NodeTree, 0, 3)
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!chop", TargetID: n.ID, CreatedAt: env.svc.now()})
	env.players.Seed(domain.Player{ID: "p1"})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	reset, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, 1, reset.Tier)
}

func TestSweepStoneRerollsNextYield(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = rolls(0.5, 0.0) // yield roll 3, then wear roll 8
	n := env.seedWorkingNode(domain.NodeStone, 2, 1)
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateMining})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!mine", TargetID: n.ID, CreatedAt: env.svc.now()})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	stone, err := env.items.GetByType(context.Background(), "p1", domain.ItemStone)
	require.NoError(t, err)
	assert.Equal(t, 2, stone.Amount)

	reset, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, 3, reset.Yield, "stone reseeds its next yield on reset")
}

func TestSweepOrphanedNodeResetsWithoutPayout(t *testing.T) {
	env := newTestEnv(t)
	n := env.seedWorkingNode(domain.NodeTree, 7, 1)

	var completed []domain.NodeCompletedPayload
	env.bus.Subscribe(domain.EventTypeNodeCompleted, func(ctx context.Context, e event.Event) error {
		completed = append(completed, e.Payload.(domain.NodeCompletedPayload))
		return nil
	})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	reset, _ := env.nodes.Get(context.Background(), n.ID)
	assert.Equal(t, domain.NodeGrowing, reset.State)

	items, _ := env.items.ListByPlayer(context.Background(), "p1")
	assert.Empty(t, items)

	require.Len(t, completed, 1)
	assert.Empty(t, completed[0].PlayerID)
}

func TestSweepBreaksWornOutTool(t *testing.T) {
	env := newTestEnv(t)
	env.svc.rnd = rolls(0.99) // wear roll of 16
	n := env.seedWorkingNode(domain.NodeTree, 1, 1)
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateChopping})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemAxe, Amount: 1, Durability: 12})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!chop", TargetID: n.ID, CreatedAt: env.svc.now()})

	var broken []domain.ToolBrokenPayload
	env.bus.Subscribe(domain.EventTypeToolBroken, func(ctx context.Context, e event.Event) error {
		broken = append(broken, e.Payload.(domain.ToolBrokenPayload))
		return nil
	})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	_, err := env.items.GetByType(context.Background(), "p1", domain.ItemAxe)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.Len(t, broken, 1)
	assert.Equal(t, domain.ItemAxe, broken[0].Tool)
}

func TestSweepWithoutToolStillPays(t *testing.T) {
	env := newTestEnv(t)
	n := env.seedWorkingNode(domain.NodeStone, 4, 1)
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateMining})
	env.commands.Create(context.Background(), &domain.Command{ID: "c1", PlayerID: "p1", Command: "!mine", TargetID: n.ID, CreatedAt: env.svc.now()})

	require.NoError(t, env.svc.SweepCompletions(context.Background()))

	stone, err := env.items.GetByType(context.Background(), "p1", domain.ItemStone)
	require.NoError(t, err)
	assert.Equal(t, 4, stone.Amount)
}

func TestPickHarvestablePrefersSoonestFinish(t *testing.T) {
	env := newTestEnv(t)
	env.nodes.Seed(domain.ResourceNode{ID: "far", Kind: domain.NodeTree, Size: 60})
	soon := env.svc.now().Add(time.Minute)
	env.nodes.Seed(domain.ResourceNode{ID: "soon", Kind: domain.NodeTree, Size: 70, ProgressFinishAt: &soon})

	picked, err := env.svc.PickHarvestable(context.Background(), domain.NodeTree)
	require.NoError(t, err)
	assert.Equal(t, "soon", picked.ID)
}

func TestPickHarvestableNoneAvailable(t *testing.T) {
	env := newTestEnv(t)
	env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 20})

	_, err := env.svc.PickHarvestable(context.Background(), domain.NodeTree)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}
