package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard is a best-effort replay filter for webhook-style events. The
// durable deduplication is the unique index on the transaction id; the
// guard only short-circuits hot replays before they reach the database.
// A nil guard or an unreachable redis always reports first-seen.
type Guard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewGuard(client *redis.Client, prefix string, ttl time.Duration) *Guard {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{client: client, prefix: prefix, ttl: ttl}
}

// FirstSeen marks the key and reports whether this is its first sighting
// within the TTL window.
func (g *Guard) FirstSeen(ctx context.Context, key string) bool {
	if g == nil || g.client == nil || key == "" {
		return true
	}
	opCtx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	ok, err := g.client.SetNX(opCtx, g.prefix+key, 1, g.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Forget clears a key so a failed handler run can be retried.
func (g *Guard) Forget(ctx context.Context, key string) {
	if g == nil || g.client == nil || key == "" {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	g.client.Del(opCtx, g.prefix+key)
}
