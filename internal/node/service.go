package node

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
)

const (
	// GrowthYieldChance is the per-tick probability that growth also
	// banks one unit of yield
	GrowthYieldChance = 0.03
	// WearMin and WearMax bound the uniform durability wear applied to
	// the matching tool on task completion. Both tool kinds draw from
	// the same range.
	WearMin = 8
	WearMax = 16
)

// Service defines the resource node lifecycle business logic
type Service interface {
	Get(ctx context.Context, nodeID string) (*domain.ResourceNode, error)
	ListByKind(ctx context.Context, kind domain.NodeKind) ([]domain.ResourceNode, error)

	// PickHarvestable returns the best node of the kind a player could
	// claim right now, or ErrNodeNotFound when none qualify.
	PickHarvestable(ctx context.Context, kind domain.NodeKind) (*domain.ResourceNode, error)

	// Reserve claims the node for a single player. ErrNodeUnavailable
	// means the node exists but lost the claim (already reserved,
	// working, or shrunk below the harvestable size).
	Reserve(ctx context.Context, nodeID string) error

	// StartWork puts the node into the working state and returns the
	// task deadline.
	StartWork(ctx context.Context, nodeID string, duration time.Duration) (time.Time, error)

	// TickGrowth advances every growing node by one size step. The
	// scheduler guarantees single invocation per interval.
	TickGrowth(ctx context.Context) error

	// SweepCompletions resolves every node whose deadline has passed:
	// pays the owning player, frees them, wears their tool and resets
	// the node. One node's failure never aborts the sweep.
	SweepCompletions(ctx context.Context) error
}

type service struct {
	nodes     repository.Node
	commands  repository.Command
	players   repository.Player
	inventory inventory.Service
	bus       event.Bus
	now       func() time.Time
	rnd       func() float64
}

// NewService creates a new node lifecycle service
func NewService(nodes repository.Node, commands repository.Command, players repository.Player, inv inventory.Service, bus event.Bus) Service {
	return &service{
		nodes:     nodes,
		commands:  commands,
		players:   players,
		inventory: inv,
		bus:       bus,
		now:       time.Now,
		rnd:       rand.Float64,
	}
}

func (s *service) Get(ctx context.Context, nodeID string) (*domain.ResourceNode, error) {
	return s.nodes.Get(ctx, nodeID)
}

func (s *service) ListByKind(ctx context.Context, kind domain.NodeKind) ([]domain.ResourceNode, error) {
	return s.nodes.ListByKind(ctx, kind)
}

func (s *service) PickHarvestable(ctx context.Context, kind domain.NodeKind) (*domain.ResourceNode, error) {
	return s.nodes.PickHarvestable(ctx, kind)
}

func (s *service) Reserve(ctx context.Context, nodeID string) error {
	won, err := s.nodes.Reserve(ctx, nodeID)
	if err != nil {
		return fmt.Errorf("failed to reserve node: %w", err)
	}
	if won {
		return nil
	}

	// Distinguish a missing node from a lost claim for the caller.
	if _, err := s.nodes.Get(ctx, nodeID); err != nil {
		return err
	}
	return domain.ErrNodeUnavailable
}

func (s *service) StartWork(ctx context.Context, nodeID string, duration time.Duration) (time.Time, error) {
	finishAt := s.now().Add(duration)
	started, err := s.nodes.StartWork(ctx, nodeID, finishAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to start work: %w", err)
	}
	if !started {
		return time.Time{}, domain.ErrNodeUnavailable
	}
	return finishAt, nil
}

func (s *service) TickGrowth(ctx context.Context) error {
	log := logger.FromContext(ctx)

	growing, err := s.nodes.ListGrowing(ctx)
	if err != nil {
		return fmt.Errorf("failed to list growing nodes: %w", err)
	}

	for _, n := range growing {
		yieldDelta := 0
		if s.rnd() < GrowthYieldChance {
			yieldDelta = 1
		}
		if err := s.nodes.ApplyGrowth(ctx, n.ID, 1, yieldDelta); err != nil {
			log.Error("Failed to grow node", "nodeID", n.ID, "error", err)
		}
	}
	return nil
}

func (s *service) SweepCompletions(ctx context.Context) error {
	log := logger.FromContext(ctx)

	due, err := s.nodes.ListCompleted(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list completed nodes: %w", err)
	}

	for _, n := range due {
		if err := s.completeNode(ctx, n); err != nil {
			log.Error("Failed to complete node", "nodeID", n.ID, "error", err)
		}
	}
	return nil
}

// completeNode resolves a single due node. The conditional reset is the
// claim: losing it means another sweep already paid this node out, so the
// loser walks away without touching player or inventory state.
func (s *service) completeNode(ctx context.Context, n domain.ResourceNode) error {
	log := logger.FromContext(ctx)

	profile, ok := domain.ProfileFor(n.Kind)
	if !ok {
		return fmt.Errorf("node %s has unknown kind %q", n.ID, n.Kind)
	}

	nextYield := 0
	if profile.ResetYieldMax > 0 {
		nextYield = 1 + int(s.rnd()*float64(profile.ResetYieldMax))
	}

	won, err := s.nodes.CompleteAndReset(ctx, n.ID, s.now(), domain.NextTier(n.Tier), nextYield)
	if err != nil {
		return fmt.Errorf("failed to reset node: %w", err)
	}
	if !won {
		return nil
	}

	owner, err := s.commands.LatestForTarget(ctx, n.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOrphanedNode) {
			log.Warn("Completed node has no owning command, resetting without payout", "nodeID", n.ID)
			s.publishCompleted(ctx, n, "")
			return nil
		}
		return fmt.Errorf("failed to resolve node owner: %w", err)
	}

	if n.Yield > 0 {
		if _, err := s.inventory.Grant(ctx, owner.PlayerID, profile.Yield, n.Yield); err != nil {
			return fmt.Errorf("failed to grant yield: %w", err)
		}
	}

	// Free the owner only if they are still on this task. An evicted
	// player is already returning off-screen; their trip keeps its target.
	freed, err := s.players.SetIdleFromWork(ctx, owner.PlayerID, profile.WorkState)
	if err != nil {
		log.Error("Failed to free player after completion", "playerID", owner.PlayerID, "error", err)
	} else if !freed {
		log.Info("Node owner no longer working, state left untouched", "playerID", owner.PlayerID, "nodeID", n.ID)
	}

	s.wearTool(ctx, owner.PlayerID, profile.Tool)
	s.publishCompleted(ctx, domain.ResourceNode{ID: n.ID, Kind: n.Kind, Yield: n.Yield}, owner.PlayerID)

	log.Info("Node completed", "nodeID", n.ID, "kind", n.Kind, "playerID", owner.PlayerID, "yield", n.Yield)
	return nil
}

func (s *service) wearTool(ctx context.Context, playerID string, tool domain.ItemType) {
	log := logger.FromContext(ctx)

	wear := WearMin + int(s.rnd()*float64(WearMax-WearMin+1))
	broken, err := s.inventory.Wear(ctx, playerID, tool, wear)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			log.Error("Failed to wear tool", "playerID", playerID, "tool", tool, "error", err)
		}
		return
	}
	if !broken {
		return
	}

	payload := domain.ToolBrokenPayload{
		PlayerID:  playerID,
		Tool:      tool,
		Timestamp: s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeToolBroken, payload)); err != nil {
		log.Error("Failed to publish tool broken event", "error", err)
	}
}

func (s *service) publishCompleted(ctx context.Context, n domain.ResourceNode, playerID string) {
	log := logger.FromContext(ctx)

	payload := domain.NodeCompletedPayload{
		NodeID:    n.ID,
		Kind:      n.Kind,
		PlayerID:  playerID,
		Yield:     n.Yield,
		Timestamp: s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeNodeCompleted, payload)); err != nil {
		log.Error("Failed to publish node completed event", "error", err)
	}
}
