package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefrontlabs/storefront-api/internal/config"
)

type RedisRepo struct {
	client *redis.Client
	config *config.Config
}

func NewRedisRepo(cfg *config.Config) (*RedisRepo, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure Redis is reachable
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepo{client: client, config: cfg}, nil
}

func NewRedisRepoWithClient(client *redis.Client, cfg *config.Config) *RedisRepo {
	return &RedisRepo{client: client, config: cfg}
}

func (r *RedisRepo) Client() *redis.Client {
	return r.client
}

// CheckLoginRateLimit implements a sliding window over a sorted set.
// Returns whether the attempt is allowed, attempts left, and seconds to wait.
func (r *RedisRepo) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {

	key := fmt.Sprintf("login_attempts:%s", email)

	now := time.Now().Unix()

	// Only attempts inside the window are counted.
	windowStart := now - int64(r.config.RateConfig.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.config.RateConfig.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("failed to check rate limit: %w", err)
	}

	attempts := count.Val()
	maxAttempts := r.config.RateConfig.MaxAttempts

	if attempts > maxAttempts {
		retryAfter := int(r.config.RateConfig.WindowSize.Seconds())

		return false, 0, retryAfter, nil
	}

	return true, int(maxAttempts - attempts), 0, nil
}
