package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/storefrontlabs/storefront-api/internal/config"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func rateLimitConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RateConfig.MaxAttempts = 5
	cfg.RateConfig.WindowSize = 15 * time.Minute

	return cfg
}

// The window boundary and attempt timestamp are wall-clock dependent, so
// argument matching is relaxed for those commands.
func ignoreArgs(expected, actual []interface{}) error { return nil }

func TestCheckLoginRateLimit(t *testing.T) {
	const key = "login_attempts:alice@example.com"

	t.Run("AllowsUnderLimit", func(t *testing.T) {
		// Arrange
		client, mockRedis := redismock.NewClientMock()
		repo := repository.NewRedisRepoWithClient(client, rateLimitConfig())

		mockRedis.CustomMatch(ignoreArgs).ExpectZRemRangeByScore(key, "0", "0").SetVal(0)
		mockRedis.CustomMatch(ignoreArgs).ExpectZAdd(key, redis.Z{}).SetVal(1)
		mockRedis.ExpectZCard(key).SetVal(3)
		mockRedis.ExpectExpire(key, 15*time.Minute).SetVal(true)

		// Act
		allowed, attemptsLeft, retryAfter, err := repo.CheckLoginRateLimit(context.Background(), "alice@example.com")

		// Assert
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2, attemptsLeft)
		assert.Equal(t, 0, retryAfter)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("BlocksOverLimit", func(t *testing.T) {
		// Arrange
		client, mockRedis := redismock.NewClientMock()
		repo := repository.NewRedisRepoWithClient(client, rateLimitConfig())

		mockRedis.CustomMatch(ignoreArgs).ExpectZRemRangeByScore(key, "0", "0").SetVal(0)
		mockRedis.CustomMatch(ignoreArgs).ExpectZAdd(key, redis.Z{}).SetVal(1)
		mockRedis.ExpectZCard(key).SetVal(6)
		mockRedis.ExpectExpire(key, 15*time.Minute).SetVal(true)

		// Act
		allowed, attemptsLeft, retryAfter, err := repo.CheckLoginRateLimit(context.Background(), "alice@example.com")

		// Assert
		assert.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 0, attemptsLeft)
		assert.Equal(t, int((15 * time.Minute).Seconds()), retryAfter)
	})

	t.Run("RedisFailurePropagates", func(t *testing.T) {
		// Arrange
		client, mockRedis := redismock.NewClientMock()
		repo := repository.NewRedisRepoWithClient(client, rateLimitConfig())

		mockRedis.CustomMatch(ignoreArgs).ExpectZRemRangeByScore(key, "0", "0").SetErr(assert.AnError)

		// Act
		allowed, _, _, err := repo.CheckLoginRateLimit(context.Background(), "alice@example.com")

		// Assert
		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
