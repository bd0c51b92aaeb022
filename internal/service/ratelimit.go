package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckAndSetRateLimit marks the action for the client key and reports whether
// it was allowed. A nil Redis client disables limiting entirely.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, appID, clientKey, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("%s:rate_limit:%s:%s", appID, clientKey, action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, appID, clientKey, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("%s:rate_limit:%s:%s", appID, clientKey, action)
	return rdb.TTL(ctx, key).Result()
}
