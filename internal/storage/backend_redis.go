package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redisClient "github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "karaoke:guild:"

type redisBackend struct {
	client *redisClient.Client
}

func newRedisBackend(url string) (*redisBackend, error) {
	opt, err := redisClient.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redisClient.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisBackend{client: client}, nil
}

func (b *redisBackend) Load(ctx context.Context, guildID string, rec *Record) (bool, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+guildID).Bytes()
	if errors.Is(err, redisClient.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, rec)
}

func (b *redisBackend) Save(ctx context.Context, guildID string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, redisKeyPrefix+guildID, data, 0).Err()
}

func (b *redisBackend) Close() error {
	return b.client.Close()
}
