package skill

import (
	"context"
	"fmt"
	"time"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/repository"
)

const (
	// GainWithTool is the experience granted per action with the matching tool
	GainWithTool = 3
	// GainBase is the experience granted per action without it
	GainBase = 1
	// ThresholdFactor scales the next-level threshold on level-up
	ThresholdFactor = 1.5
)

// Service defines the skill progression business logic
type Service interface {
	// Bump advances the given skill track by one action's worth of
	// progress. Experience at or past the threshold levels the skill up
	// instead of gaining; otherwise the gain depends on whether the
	// player holds the track's tool. Returns the updated track.
	Bump(ctx context.Context, playerID string, kind domain.SkillKind) (*domain.Skill, error)
}

type service struct {
	players   repository.Player
	inventory inventory.Service
	bus       event.Bus
	now       func() time.Time
}

// NewService creates a new skill service
func NewService(players repository.Player, inv inventory.Service, bus event.Bus) Service {
	return &service{
		players:   players,
		inventory: inv,
		bus:       bus,
		now:       time.Now,
	}
}

func (s *service) Bump(ctx context.Context, playerID string, kind domain.SkillKind) (*domain.Skill, error) {
	log := logger.FromContext(ctx)

	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	track := player.SkillFor(kind)
	if track.Experience >= track.NextLevelAt {
		newLevel := track.Level + 1
		newThreshold := int(float64(track.NextLevelAt) * ThresholdFactor)
		if err := s.players.SetSkillLevel(ctx, playerID, kind, newLevel, newThreshold); err != nil {
			return nil, fmt.Errorf("failed to level up skill: %w", err)
		}

		log.Info("Skill leveled up", "playerID", playerID, "skill", kind, "level", newLevel)
		s.publishLevelUp(ctx, playerID, kind, newLevel)

		return &domain.Skill{Level: newLevel, Experience: 0, NextLevelAt: newThreshold}, nil
	}

	profile, _ := domain.ProfileFor(domain.KindForSkill(kind))
	hasTool, err := s.inventory.HasTool(ctx, playerID, profile.Tool)
	if err != nil {
		return nil, fmt.Errorf("failed to check tool: %w", err)
	}

	gain := GainBase
	if hasTool {
		gain = GainWithTool
	}
	if err := s.players.AddSkillExperience(ctx, playerID, kind, gain); err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}

	track.Experience += gain
	return &track, nil
}

func (s *service) publishLevelUp(ctx context.Context, playerID string, kind domain.SkillKind, level int) {
	log := logger.FromContext(ctx)

	payload := domain.SkillLeveledUpPayload{
		PlayerID:  playerID,
		Skill:     kind,
		NewLevel:  level,
		Timestamp: s.now().Unix(),
	}
	if err := s.bus.Publish(ctx, event.New(domain.EventTypeSkillLeveledUp, payload)); err != nil {
		log.Error("Failed to publish skill level-up event", "error", err)
	}
}
