package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds two connections: KV serves the student profile store,
// PubSub fans realtime status updates out to WebSocket subscribers.
type RedisClients struct {
	KV     *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kvClient := redis.NewClient(opt)
	if err := kvClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis (kv): %w", err)
	}

	// Separate connection so blocking subscribes never starve KV reads.
	pubsubOpt := *opt
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		kvClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		KV:     kvClient,
		PubSub: pubsubClient,
	}, nil
}

func (r *RedisClients) Close() {
	r.KV.Close()
	r.PubSub.Close()
}
