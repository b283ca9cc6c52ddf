package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/JoeYatesss/educonnect-api/internal/domain/event"
)

// RedisPublisher pushes events onto a redis list consumed by the external
// notification service. Fire-and-forget: callers log publish errors and
// never fail the originating operation on them.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if client == nil {
		return nil
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, e event.Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.client.LPush(ctx, p.channel, data).Err()
}
