package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const notificationChannel = "notifications"

// RedisDispatcher publishes notifications to a redis channel and drops
// duplicates by claiming the notification's dedup key with SETNX. A repeated
// sweep on the same day therefore does not re-send reminders even though the
// sweep itself is stateless.
type RedisDispatcher struct {
	client *redis.Client
	ttl    time.Duration
	next   Dispatcher
}

// NewRedisDispatcher wraps a delivery dispatcher with redis-backed publish
// and dedup. ttl bounds how long claimed keys are held.
func NewRedisDispatcher(client *redis.Client, ttl time.Duration, next Dispatcher) *RedisDispatcher {
	return &RedisDispatcher{client: client, ttl: ttl, next: next}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if n.DedupKey != "" {
		claimed, err := d.client.SetNX(ctx, "notify:"+n.DedupKey, 1, d.ttl).Result()
		if err != nil {
			return fmt.Errorf("claim dedup key: %w", err)
		}
		if !claimed {
			return nil
		}
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if err := d.client.Publish(ctx, notificationChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	if d.next != nil {
		return d.next.Dispatch(ctx, n)
	}
	return nil
}
