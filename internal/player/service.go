package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
)

const (
	// IdleTimeout is how long a player may go without an action before
	// the idle sweep sends them off-screen
	IdleTimeout = 10 * time.Minute
	// colorIndexMax bounds the cosmetic color roll on first contact,
	// inclusive: new players land anywhere in 0..100
	colorIndexMax = 100
)

// Service defines the player task state machine business logic
type Service interface {
	// FindOrCreate resolves a player by id, creating them at the
	// off-screen anchor on first contact.
	FindOrCreate(ctx context.Context, playerID, name string) (*domain.Player, error)

	Get(ctx context.Context, playerID string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
	TopByReputation(ctx context.Context, limit int) ([]domain.Player, error)

	// SetTarget starts the player moving toward a node or the
	// off-screen sentinel "0".
	SetTarget(ctx context.Context, playerID, targetID string, x, y float64) (*domain.Player, error)

	// Arrive resolves the player's target: the sentinel parks them
	// idle, a node target claims the node and starts a timed task.
	// A node that cannot be claimed fails the arrival with
	// ErrNodeUnavailable and leaves the player unchanged.
	Arrive(ctx context.Context, playerID string) (*domain.Player, error)

	// SweepIdle sends every player inactive past the timeout back
	// toward the off-screen anchor.
	SweepIdle(ctx context.Context) error
}

type service struct {
	players   repository.Player
	nodes     repository.Node
	commands  repository.Command
	inventory inventory.Service
	bus       event.Bus
	cache     *Cache
	now       func() time.Time
	rnd       func() float64
	newID     func() string
}

// NewService creates a new player service
func NewService(players repository.Player, nodes repository.Node, commands repository.Command, inv inventory.Service, bus event.Bus) Service {
	return &service{
		players:   players,
		nodes:     nodes,
		commands:  commands,
		inventory: inv,
		bus:       bus,
		cache:     NewCache(),
		now:       time.Now,
		rnd:       rand.Float64,
		newID:     uuid.NewString,
	}
}

func (s *service) FindOrCreate(ctx context.Context, playerID, name string) (*domain.Player, error) {
	log := logger.FromContext(ctx)

	player, err := s.players.Get(ctx, playerID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, domain.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	player = &domain.Player{
		ID:           playerID,
		Name:         name,
		X:            domain.OffscreenX,
		Y:            domain.OffscreenY,
		State:        domain.StateIdle,
		LastActionAt: s.now(),
		WoodSkill:    domain.Skill{NextLevelAt: 100},
		MiningSkill:  domain.Skill{NextLevelAt: 100},
		ColorIndex:   int(s.rnd() * (colorIndexMax + 1)),
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Info("Player created", "playerID", playerID, "name", name)
	return player, nil
}

func (s *service) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	if cached, ok := s.cache.Get(playerID); ok {
		return cached, nil
	}

	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(player)
	return player, nil
}

func (s *service) List(ctx context.Context) ([]domain.Player, error) {
	return s.players.List(ctx)
}

func (s *service) TopByReputation(ctx context.Context, limit int) ([]domain.Player, error) {
	return s.players.TopByReputation(ctx, limit)
}

func (s *service) SetTarget(ctx context.Context, playerID, targetID string, x, y float64) (*domain.Player, error) {
	if err := s.players.SetMoving(ctx, playerID, targetID, x, y, s.now()); err != nil {
		return nil, fmt.Errorf("failed to set target: %w", err)
	}
	s.cache.Invalidate(playerID)
	return s.players.Get(ctx, playerID)
}

func (s *service) Arrive(ctx context.Context, playerID string) (*domain.Player, error) {
	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.TargetID == "" {
		return nil, domain.ErrNoTarget
	}

	if player.TargetID == domain.OffscreenTargetID {
		return s.arriveOffscreen(ctx, player)
	}
	return s.arriveAtNode(ctx, player)
}

func (s *service) arriveOffscreen(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	if err := s.players.SetPosition(ctx, player.ID, player.TargetX, player.TargetY); err != nil {
		return nil, fmt.Errorf("failed to park player: %w", err)
	}
	if err := s.players.SetIdle(ctx, player.ID); err != nil {
		return nil, fmt.Errorf("failed to idle player: %w", err)
	}
	s.cache.Invalidate(player.ID)
	return s.players.Get(ctx, player.ID)
}

func (s *service) arriveAtNode(ctx context.Context, player *domain.Player) (*domain.Player, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	node, err := s.nodes.Get(ctx, player.TargetID)
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return nil, domain.ErrUnknownTarget
		}
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}

	profile, ok := domain.ProfileFor(node.Kind)
	if !ok {
		return nil, domain.ErrUnknownTarget
	}

	// The conditional claim decides the race: whoever arrives second
	// loses and is re-routed by the caller.
	won, err := s.nodes.Reserve(ctx, node.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve node: %w", err)
	}
	if !won {
		return nil, domain.ErrNodeUnavailable
	}

	hasTool, err := s.inventory.HasTool(ctx, player.ID, profile.Tool)
	if err != nil {
		return nil, fmt.Errorf("failed to check tool: %w", err)
	}
	duration := domain.WorkDurationBare
	if hasTool {
		duration = domain.WorkDurationTooled
	}

	if err := s.players.SetWorking(ctx, player.ID, profile.WorkState, node.X, node.Y, now); err != nil {
		return nil, fmt.Errorf("failed to set player working: %w", err)
	}
	s.cache.Invalidate(player.ID)

	started, err := s.nodes.StartWork(ctx, node.ID, now.Add(duration))
	if err != nil {
		return nil, fmt.Errorf("failed to start work: %w", err)
	}
	if !started {
		return nil, domain.ErrNodeUnavailable
	}

	command := &domain.Command{
		ID:        s.newID(),
		PlayerID:  player.ID,
		Command:   profile.CommandLabel,
		TargetID:  node.ID,
		CreatedAt: now,
	}
	if err := s.commands.Create(ctx, command); err != nil {
		return nil, fmt.Errorf("failed to record command: %w", err)
	}

	log.Info("Player started working", "playerID", player.ID, "nodeID", node.ID, "kind", node.Kind, "duration", duration)
	return s.players.Get(ctx, player.ID)
}

func (s *service) SweepIdle(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cutoff := s.now().Add(-IdleTimeout)
	idle, err := s.players.ListIdleSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list idle players: %w", err)
	}

	for _, p := range idle {
		if _, err := s.SetTarget(ctx, p.ID, domain.OffscreenTargetID, domain.OffscreenX, domain.OffscreenY); err != nil {
			log.Error("Failed to evict idle player", "playerID", p.ID, "error", err)
			continue
		}

		payload := domain.PlayerEvictedPayload{PlayerID: p.ID, Timestamp: s.now().Unix()}
		if err := s.bus.Publish(ctx, event.New(domain.EventTypePlayerEvicted, payload)); err != nil {
			log.Error("Failed to publish eviction event", "error", err)
		}
		log.Info("Evicted idle player", "playerID", p.ID)
	}
	return nil
}
