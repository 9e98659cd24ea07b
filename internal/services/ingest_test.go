package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/data/db"
	listingrepo "github.com/openhaus/listings-backend/internal/data/repos/listing"
	"github.com/openhaus/listings-backend/internal/data/repos/testutil"
	types "github.com/openhaus/listings-backend/internal/domain"
	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/coerce"
	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/mapper"
	"github.com/openhaus/listings-backend/internal/feed/reconcile"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
)

// memoryCache is the in-memory staging double for service-level tests.
type memoryCache struct {
	seq     int
	keys    []string
	batches map[string][]feed.Record
}

func newMemoryCache() *memoryCache {
	return &memoryCache{batches: map[string][]feed.Record{}}
}

func (c *memoryCache) Put(_ context.Context, batch []feed.Record) (string, error) {
	c.seq++
	key := fmt.Sprintf("mem:batch:%d", c.seq)
	c.keys = append(c.keys, key)
	c.batches[key] = batch
	return key, nil
}

func (c *memoryCache) Keys(_ context.Context) ([]string, error) {
	return append([]string{}, c.keys...), nil
}

func (c *memoryCache) Get(_ context.Context, key string) ([]feed.Record, error) {
	return c.batches[key], nil
}

func (c *memoryCache) Wipe(_ context.Context) error {
	c.keys = nil
	c.batches = map[string][]feed.Record{}
	return nil
}

// memoryLock mimics the non-blocking run lock.
type memoryLock struct {
	held     bool
	busy     bool
	failWith error
}

func (l *memoryLock) TryAcquire(context.Context, string, time.Duration) (bool, error) {
	if l.failWith != nil {
		return false, l.failWith
	}
	if l.busy {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *memoryLock) Release(context.Context) error {
	l.held = false
	return nil
}

func newTestIngest(t *testing.T, gdb *gorm.DB, cache *memoryCache, lock *memoryLock) IngestService {
	t.Helper()
	log := testutil.Logger(t)
	cfg := schema.DefaultMappingConfig()
	index := schema.NewIndex()
	engine := coerce.NewEngine(lookup.NewResolver(gdb, log), cfg, log)
	m := mapper.New(index, cfg, engine, log)
	repo := listingrepo.NewListingRepo(gdb, log)
	reconciler := reconcile.NewReconciler(db.NewGormTxRunner(gdb), repo, m, index, nil, observability.NewMetrics(), log)
	return NewIngestService(log, cache, lock, reconciler, observability.NewMetrics(), "test:lock", time.Minute)
}

func cleanupByDdfID(t *testing.T, gdb *gorm.DB, ddfIDs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, id := range ddfIDs {
			var rows []*types.Listing
			if err := gdb.Where("ddf_id = ?", id).Find(&rows).Error; err != nil {
				continue
			}
			for _, l := range rows {
				for _, table := range []string{"address", "room", "photo", "open_house", "parking_space", "listing_amenity", "listing_heating_type"} {
					_ = gdb.Exec("DELETE FROM "+table+" WHERE listing_id = ?", l.ID).Error
				}
				_ = gdb.Delete(&types.Listing{}, "id = ?", l.ID).Error
			}
		}
	})
}

func TestRunDrainsStagingInOrder(t *testing.T) {
	gdb := testutil.DB(t)
	cache := newMemoryCache()
	svc := newTestIngest(t, gdb, cache, &memoryLock{})

	ctx := context.Background()
	a := fmt.Sprintf("svc-a-%d", time.Now().UnixNano())
	b := fmt.Sprintf("svc-b-%d", time.Now().UnixNano())
	cleanupByDdfID(t, gdb, a, b)

	if _, err := svc.EnqueueBatch(ctx, []feed.Record{{"ID": a, "MlsNumber": "A1"}}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := svc.EnqueueBatch(ctx, []feed.Record{{"ID": b, "MlsNumber": "B1"}}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	report, err := svc.Run(ctx, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Batches != 2 {
		t.Fatalf("expected 2 batches, got %d", report.Batches)
	}
	if report.Counters.New != 2 || report.Counters.Failed != 0 {
		t.Fatalf("unexpected counters: %+v", report.Counters)
	}

	// The staging cache is consumed destructively.
	keys, _ := cache.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("expected staging wiped after run, got %v", keys)
	}

	if got := svc.LastReport(); got == nil || got.Batches != 2 {
		t.Fatalf("unexpected last report: %+v", got)
	}
}

func TestRunLockBusy(t *testing.T) {
	gdb := testutil.DB(t)
	svc := newTestIngest(t, gdb, newMemoryCache(), &memoryLock{busy: true})

	_, err := svc.Run(context.Background(), RunOptions{})
	if !errors.Is(err, apperr.ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got %v", err)
	}
}

func TestRunReleasesLock(t *testing.T) {
	gdb := testutil.DB(t)
	lock := &memoryLock{}
	svc := newTestIngest(t, gdb, newMemoryCache(), lock)

	if _, err := svc.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lock.held {
		t.Fatal("lock must be released after the pass")
	}
}

func TestRunIsolatesRecordFailures(t *testing.T) {
	gdb := testutil.DB(t)
	cache := newMemoryCache()
	svc := newTestIngest(t, gdb, cache, &memoryLock{})

	ctx := context.Background()
	good := fmt.Sprintf("svc-good-%d", time.Now().UnixNano())
	cleanupByDdfID(t, gdb, good)

	// The first record has no natural key and fails; the second still lands.
	batch := []feed.Record{
		{"MlsNumber": "NOPE"},
		{"ID": good, "MlsNumber": "OK1"},
	}
	if _, err := svc.EnqueueBatch(ctx, batch); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	report, err := svc.Run(ctx, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Counters.Failed != 1 || report.Counters.New != 1 {
		t.Fatalf("unexpected counters: %+v", report.Counters)
	}
}

func TestEnqueueEmptyBatch(t *testing.T) {
	gdb := testutil.DB(t)
	svc := newTestIngest(t, gdb, newMemoryCache(), &memoryLock{})

	if _, err := svc.EnqueueBatch(context.Background(), nil); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
