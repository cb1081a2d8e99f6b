package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/service"
)

// NewClient creates a Redis client and verifies connectivity
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// QuoteCache stores the quote of the day in Redis
type QuoteCache struct {
	client *redis.Client
}

// NewQuoteCache creates a Redis-backed quote cache
func NewQuoteCache(client *redis.Client) *QuoteCache {
	return &QuoteCache{client: client}
}

// Get returns the cached quote for the key, or (nil, nil) on a miss
func (c *QuoteCache) Get(ctx context.Context, key string) (*entity.Quote, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached quote: %w", err)
	}

	var quote entity.Quote
	if err := json.Unmarshal([]byte(data), &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached quote: %w", err)
	}

	return &quote, nil
}

// Set stores the quote under the key with the given TTL
func (c *QuoteCache) Set(ctx context.Context, key string, quote *entity.Quote, ttl time.Duration) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}

	return nil
}

var _ service.QuoteCache = (*QuoteCache)(nil)
