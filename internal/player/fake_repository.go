package player

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emberfield/village/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Player for integration-style unit tests. It lives in the
// package (not in _test files) so other packages' tests can reuse it.
type FakeRepository struct {
	mu      sync.Mutex
	players map[string]*domain.Player
}

// NewFakeRepository creates an empty fake player store
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{players: make(map[string]*domain.Player)}
}

// Seed inserts a player directly, for test setup
func (f *FakeRepository) Seed(player domain.Player) *domain.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	if player.State == "" {
		player.State = domain.StateIdle
	}
	f.players[player.ID] = &player
	return &player
}

func (f *FakeRepository) Create(ctx context.Context, player *domain.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *player
	f.players[player.ID] = &clone
	return nil
}

func (f *FakeRepository) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	player, ok := f.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	clone := *player
	return &clone, nil
}

func (f *FakeRepository) List(ctx context.Context) ([]domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	players := make([]domain.Player, 0, len(f.players))
	for _, p := range f.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (f *FakeRepository) TopByReputation(ctx context.Context, limit int) ([]domain.Player, error) {
	players, _ := f.List(ctx)
	sort.Slice(players, func(i, j int) bool { return players[i].Reputation > players[j].Reputation })
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func (f *FakeRepository) ListIdleSince(ctx context.Context, cutoff time.Time) ([]domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var idle []domain.Player
	for _, p := range f.players {
		if p.LastActionAt.Before(cutoff) && p.X != domain.OffscreenX {
			idle = append(idle, *p)
		}
	}
	return idle, nil
}

func (f *FakeRepository) SetMoving(ctx context.Context, playerID, targetID string, x, y float64, at time.Time) error {
	return f.update(playerID, func(p *domain.Player) {
		p.TargetID = targetID
		p.TargetX = x
		p.TargetY = y
		p.State = domain.StateRunning
		p.LastActionAt = at
	})
}

func (f *FakeRepository) SetWorking(ctx context.Context, playerID string, state domain.PlayerState, x, y float64, at time.Time) error {
	return f.update(playerID, func(p *domain.Player) {
		p.X = x
		p.Y = y
		p.TargetID = ""
		p.TargetX = 0
		p.TargetY = 0
		p.State = state
		p.LastActionAt = at
	})
}

func (f *FakeRepository) SetIdle(ctx context.Context, playerID string) error {
	return f.update(playerID, func(p *domain.Player) {
		p.TargetID = ""
		p.TargetX = 0
		p.TargetY = 0
		p.State = domain.StateIdle
	})
}

func (f *FakeRepository) SetIdleFromWork(ctx context.Context, playerID string, from domain.PlayerState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok || p.State != from {
		return false, nil
	}
	p.TargetID = ""
	p.TargetX = 0
	p.TargetY = 0
	p.State = domain.StateIdle
	return true, nil
}

func (f *FakeRepository) SetPosition(ctx context.Context, playerID string, x, y float64) error {
	return f.update(playerID, func(p *domain.Player) {
		p.X = x
		p.Y = y
	})
}

func (f *FakeRepository) Touch(ctx context.Context, playerID string, at time.Time) error {
	return f.update(playerID, func(p *domain.Player) {
		p.LastActionAt = at
	})
}

func (f *FakeRepository) SpendCoins(ctx context.Context, playerID string, price int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return false, domain.ErrPlayerNotFound
	}
	if p.Coins < price {
		return false, nil
	}
	p.Coins -= price
	return true, nil
}

func (f *FakeRepository) AddCoins(ctx context.Context, playerID string, amount int) error {
	return f.update(playerID, func(p *domain.Player) {
		p.Coins += amount
	})
}

func (f *FakeRepository) AddReputation(ctx context.Context, playerID string, amount int) error {
	return f.update(playerID, func(p *domain.Player) {
		p.Reputation += amount
	})
}

func (f *FakeRepository) AddSkillExperience(ctx context.Context, playerID string, kind domain.SkillKind, amount int) error {
	return f.update(playerID, func(p *domain.Player) {
		if kind == domain.SkillMining {
			p.MiningSkill.Experience += amount
		} else {
			p.WoodSkill.Experience += amount
		}
	})
}

func (f *FakeRepository) SetSkillLevel(ctx context.Context, playerID string, kind domain.SkillKind, level, nextLevelAt int) error {
	return f.update(playerID, func(p *domain.Player) {
		track := &p.WoodSkill
		if kind == domain.SkillMining {
			track = &p.MiningSkill
		}
		track.Level = level
		track.NextLevelAt = nextLevelAt
		track.Experience = 0
	})
}

func (f *FakeRepository) update(playerID string, mutate func(*domain.Player)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	mutate(p)
	return nil
}
