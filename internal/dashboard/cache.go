package dashboard

import (
	"context"
	"encoding/json"
	"time"

	platformredis "homeleads/internal/platform/redis"
)

// Cache keeps the per-user summary in Redis for a short TTL so dashboard
// refreshes don't hammer the database. A nil client disables caching.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewCache(client *platformredis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(userID string) string {
	return "dashboard:summary:" + userID
}

// Get returns the cached summary or nil on miss. Redis errors are treated as
// misses: the dashboard must work with Redis down.
func (c *Cache) Get(ctx context.Context, userID string) *Summary {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return nil
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

// Set stores the summary best-effort.
func (c *Cache) Set(ctx context.Context, userID string, summary Summary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}
