package staging

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

const (
	seqKey   = "feed:staging:seq"
	indexKey = "feed:staging:keys"
	batchKey = "feed:staging:batch:%012d"
)

// Cache is the durable, append-only holding area between feed fetch and
// ingestion. Keys are opaque and monotonically increasing; batches are
// consumed destructively at the end of a successful pass. No concurrent
// writers are assumed.
type Cache interface {
	Put(ctx context.Context, batch []feed.Record) (string, error)
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) ([]feed.Record, error)
	Wipe(ctx context.Context) error
}

type redisCache struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewRedisCache(rdb *goredis.Client, baseLog *logger.Logger) Cache {
	return &redisCache{
		rdb: rdb,
		log: baseLog.With("component", "StagingCache"),
	}
}

func (c *redisCache) Put(ctx context.Context, batch []feed.Record) (string, error) {
	raw, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encode staging batch: %w", err)
	}

	seq, err := c.rdb.Incr(ctx, seqKey).Result()
	if err != nil {
		return "", fmt.Errorf("staging sequence: %w", err)
	}
	key := fmt.Sprintf(batchKey, seq)

	if err := c.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return "", fmt.Errorf("write staging batch: %w", err)
	}
	if err := c.rdb.RPush(ctx, indexKey, key).Err(); err != nil {
		return "", fmt.Errorf("index staging batch: %w", err)
	}

	c.log.Debug("staged feed batch", "key", key, "records", len(batch))
	return key, nil
}

func (c *redisCache) Keys(ctx context.Context) ([]string, error) {
	keys, err := c.rdb.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list staging keys: %w", err)
	}
	return keys, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]feed.Record, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read staging batch %s: %w", key, err)
	}

	var batch []feed.Record
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode staging batch %s: %w", key, err)
	}
	return batch, nil
}

func (c *redisCache) Wipe(ctx context.Context) error {
	keys, err := c.Keys(ctx)
	if err != nil {
		return err
	}
	keys = append(keys, indexKey, seqKey)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("wipe staging cache: %w", err)
	}
	return nil
}
