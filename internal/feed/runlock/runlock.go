package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// releaseScript deletes the lock only when the stored token matches, so a
// pass that outlived its TTL cannot release a lock now held by another
// process.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// Lock is the fleet-wide mutual exclusion around an ingestion pass.
// TryAcquire is non-blocking; the TTL is a safety net that force-expires an
// abandoned lock, not a queuing mechanism.
type Lock interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

type redisLock struct {
	rdb   *goredis.Client
	log   *logger.Logger
	key   string
	token string
}

func NewRedisLock(rdb *goredis.Client, baseLog *logger.Logger) Lock {
	return &redisLock{
		rdb: rdb,
		log: baseLog.With("component", "RunLock"),
	}
}

func (l *redisLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return false, nil
	}
	l.key = key
	l.token = token
	l.log.Debug("run lock acquired", "key", key, "ttl", ttl)
	return true, nil
}

func (l *redisLock) Release(ctx context.Context) error {
	if l.key == "" {
		return nil
	}
	released, err := l.rdb.Eval(ctx, releaseScript, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	if released == 0 {
		l.log.Warn("run lock already expired or taken over", "key", l.key)
	}
	l.key = ""
	l.token = ""
	return nil
}
