package economy

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/guildforge/coinbot/internal/domain"
)

// profileCache provides an in-memory LRU cache for profile reads
// with time-based expiration. Writes invalidate so balances shown to
// players never lag a settlement.
type profileCache struct {
	lru *expirable.LRU[string, *domain.Profile]
}

func newProfileCache(size int, ttl time.Duration) *profileCache {
	return &profileCache{
		lru: expirable.NewLRU[string, *domain.Profile](size, nil, ttl),
	}
}

func cacheKey(userID, guildID string) string {
	return guildID + ":" + userID
}

func (c *profileCache) Get(userID, guildID string) (*domain.Profile, bool) {
	return c.lru.Get(cacheKey(userID, guildID))
}

func (c *profileCache) Set(profile *domain.Profile) {
	c.lru.Add(cacheKey(profile.UserID, profile.GuildID), profile)
}

func (c *profileCache) Invalidate(userID, guildID string) {
	c.lru.Remove(cacheKey(userID, guildID))
}

// guildCache caches guild settings so the per-message XP path does not
// hit the database for every chat line.
type guildCache struct {
	lru *expirable.LRU[string, *domain.Guild]
}

func newGuildCache(size int, ttl time.Duration) *guildCache {
	return &guildCache{
		lru: expirable.NewLRU[string, *domain.Guild](size, nil, ttl),
	}
}

func (c *guildCache) Get(guildID string) (*domain.Guild, bool) {
	return c.lru.Get(guildID)
}

func (c *guildCache) Set(guild *domain.Guild) {
	c.lru.Add(guild.GuildID, guild)
}

func (c *guildCache) Invalidate(guildID string) {
	c.lru.Remove(guildID)
}
