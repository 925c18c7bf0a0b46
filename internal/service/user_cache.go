package service

import (
	"bitwise74/files-manager/internal/metrics"
	"bitwise74/files-manager/internal/model"
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedUsers keeps recently resolved users in memory so that session
// resolution doesn't hit the database on every request. Users are never
// updated once created, so entries only expire.
type CachedUsers struct {
	UserRepository

	cache *expirable.LRU[string, *model.User]
}

func NewCachedUsers(users UserRepository, size int, ttl time.Duration) *CachedUsers {
	return &CachedUsers{
		UserRepository: users,
		cache:          expirable.NewLRU[string, *model.User](size, nil, ttl),
	}
}

func (c *CachedUsers) FindUser(ctx context.Context, id string) (*model.User, error) {
	if u, ok := c.cache.Get(id); ok {
		metrics.UserCacheHitsTotal.Inc()
		return u, nil
	}

	metrics.UserCacheMissesTotal.Inc()

	u, err := c.UserRepository.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.Add(id, u)
	return u, nil
}
