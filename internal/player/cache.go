package player

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/emberfield/village/internal/domain"
)

const (
	cacheSize = 1024
	cacheTTL  = 5 * time.Second
)

// Cache holds short-lived player snapshots so the hot read path (the
// client polls positions every frame) does not hit the database for
// every request. Writers going through the service invalidate their
// entry; writers that bypass it are covered by the TTL.
type Cache struct {
	lru *expirable.LRU[string, *domain.Player]
}

// NewCache creates a snapshot cache with the default size and TTL
func NewCache() *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, *domain.Player](cacheSize, nil, cacheTTL),
	}
}

// Get returns the cached snapshot for a player, if still fresh
func (c *Cache) Get(playerID string) (*domain.Player, bool) {
	p, ok := c.lru.Get(playerID)
	if !ok {
		return nil, false
	}
	clone := *p
	return &clone, true
}

// Put stores a snapshot
func (c *Cache) Put(player *domain.Player) {
	clone := *player
	c.lru.Add(player.ID, &clone)
}

// Invalidate drops a player's snapshot after a write
func (c *Cache) Invalidate(playerID string) {
	c.lru.Remove(playerID)
}
