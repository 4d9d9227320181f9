package repository

import (
	"context"
	"time"

	"github.com/emberfield/village/internal/domain"
)

// Player defines the interface for player persistence.
// All writes are single-record; coin, reputation and experience changes are
// atomic increments so concurrent actions never lose updates.
type Player interface {
	Create(ctx context.Context, player *domain.Player) error
	Get(ctx context.Context, playerID string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
	TopByReputation(ctx context.Context, limit int) ([]domain.Player, error)

	// ListIdleSince returns players whose last action is older than the
	// cutoff and who are not already parked at the off-screen anchor.
	ListIdleSince(ctx context.Context, cutoff time.Time) ([]domain.Player, error)

	SetMoving(ctx context.Context, playerID, targetID string, x, y float64, at time.Time) error
	SetWorking(ctx context.Context, playerID string, state domain.PlayerState, x, y float64, at time.Time) error
	SetIdle(ctx context.Context, playerID string) error

	// SetIdleFromWork clears the player's task state only while they are
	// still in the given work state (conditional update). False means the
	// player had already moved on, e.g. was evicted mid-task, and nothing
	// was touched.
	SetIdleFromWork(ctx context.Context, playerID string, from domain.PlayerState) (bool, error)
	SetPosition(ctx context.Context, playerID string, x, y float64) error
	Touch(ctx context.Context, playerID string, at time.Time) error

	// SpendCoins decrements atomically and reports whether the balance
	// covered the price (conditional update, no read-modify-write).
	SpendCoins(ctx context.Context, playerID string, price int) (bool, error)
	AddCoins(ctx context.Context, playerID string, amount int) error
	AddReputation(ctx context.Context, playerID string, amount int) error

	AddSkillExperience(ctx context.Context, playerID string, kind domain.SkillKind, amount int) error
	SetSkillLevel(ctx context.Context, playerID string, kind domain.SkillKind, level, nextLevelAt int) error
}
