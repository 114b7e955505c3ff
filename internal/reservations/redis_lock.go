package reservations

import (
	"context"
	"fmt"
	"time"

	"theatre/internal/shared/constants"
	"theatre/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the lock only if it still holds our token, so an expired lock
// taken over by another replica is left alone.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLockConfig tunes the distributed performance lock
type RedisLockConfig struct {
	TTL          time.Duration // lock expiry if the holder dies
	Wait         time.Duration // how long to wait for a busy lock
	PollInterval time.Duration
}

// redisLocker serializes reservations across API replicas
type redisLocker struct {
	client *redis.Client
	config RedisLockConfig
}

func NewRedisLocker(client *redis.Client, config RedisLockConfig) Locker {
	return &redisLocker{client: client, config: config}
}

func (l *redisLocker) Lock(ctx context.Context, performanceIDs []uuid.UUID) (func(), error) {
	token := uuid.NewString()
	held := make([]string, 0, len(performanceIDs))

	for _, id := range sortedUnique(performanceIDs) {
		key := constants.BuildPerformanceLockKey(id.String())
		if err := l.acquire(ctx, key, token); err != nil {
			l.release(held, token)
			return nil, err
		}
		held = append(held, key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *redisLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.config.Wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.config.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLockBusy
		}

		timer := time.NewTimer(l.config.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *redisLocker) release(keys []string, token string) {
	// The request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseLockScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Failed to release performance lock", err, map[string]interface{}{
				"key": keys[i],
			})
		}
	}
}
