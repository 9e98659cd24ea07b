package runlock

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openhaus/listings-backend/internal/platform/logger"
)

func testRedis(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run run-lock integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 9})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestTryAcquireIsExclusive(t *testing.T) {
	rdb := testRedis(t)
	log := testLogger(t)
	key := "test:runlock:" + t.Name()
	t.Cleanup(func() { _ = rdb.Del(context.Background(), key).Err() })

	ctx := context.Background()
	a := NewRedisLock(rdb, log)
	b := NewRedisLock(rdb, log)

	ok, err := a.TryAcquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = b.TryAcquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("second acquire errored: %v", err)
	}
	if ok {
		t.Fatal("second holder must not acquire a held lock")
	}

	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, err = b.TryAcquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
	if err := b.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestReleaseOnlyRemovesOwnToken(t *testing.T) {
	rdb := testRedis(t)
	log := testLogger(t)
	key := "test:runlock:" + t.Name()
	t.Cleanup(func() { _ = rdb.Del(context.Background(), key).Err() })

	ctx := context.Background()
	a := NewRedisLock(rdb, log)

	ok, err := a.TryAcquire(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}

	// Simulate TTL expiry plus takeover by another process.
	if err := rdb.Set(ctx, key, "someone-else", time.Minute).Err(); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}
	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		t.Fatalf("get after release: %v", err)
	}
	if val != "someone-else" {
		t.Fatal("release must not delete a lock it no longer owns")
	}
}

func TestReleaseWithoutAcquireIsNoop(t *testing.T) {
	rdb := testRedis(t)
	l := NewRedisLock(rdb, testLogger(t))
	if err := l.Release(context.Background()); err != nil {
		t.Fatalf("release without acquire: %v", err)
	}
}
