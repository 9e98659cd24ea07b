package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/reconcile"
	"github.com/openhaus/listings-backend/internal/feed/runlock"
	"github.com/openhaus/listings-backend/internal/feed/staging"
	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// RunOptions tunes one ingestion pass. FullRefresh bypasses change detection
// and rewrites every staged record.
type RunOptions struct {
	FullRefresh bool `json:"full_refresh"`
}

// RunReport is the externally visible outcome of the last pass.
type RunReport struct {
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Batches    int                `json:"batches"`
	Counters   reconcile.Counters `json:"counters"`
}

type IngestService interface {
	EnqueueBatch(ctx context.Context, batch []feed.Record) (string, error)
	Run(ctx context.Context, opts RunOptions) (*RunReport, error)
	LastReport() *RunReport
}

type ingestService struct {
	log        *logger.Logger
	staging    staging.Cache
	lock       runlock.Lock
	reconciler *reconcile.Reconciler
	metrics    *observability.Metrics
	lockKey    string
	lockTTL    time.Duration

	mu   sync.Mutex
	last *RunReport
}

func NewIngestService(
	baseLog *logger.Logger,
	stagingCache staging.Cache,
	lock runlock.Lock,
	reconciler *reconcile.Reconciler,
	metrics *observability.Metrics,
	lockKey string,
	lockTTL time.Duration,
) IngestService {
	serviceLog := baseLog.With("service", "IngestService")
	return &ingestService{
		log:        serviceLog,
		staging:    stagingCache,
		lock:       lock,
		reconciler: reconciler,
		metrics:    metrics,
		lockKey:    lockKey,
		lockTTL:    lockTTL,
	}
}

func (s *ingestService) EnqueueBatch(ctx context.Context, batch []feed.Record) (string, error) {
	if len(batch) == 0 {
		return "", fmt.Errorf("%w: empty batch", apperr.ErrInvalidArgument)
	}
	return s.staging.Put(ctx, batch)
}

// Run executes one ingestion pass: acquire the fleet-wide lock, drain the
// staging cache in insertion order, reconcile record by record, wipe staging
// on success. Record-level failures are isolated; the pass continues.
func (s *ingestService) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	acquired, err := s.lock.TryAcquire(ctx, s.lockKey, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("run lock: %w", err)
	}
	if !acquired {
		s.metrics.IncPass("lock_busy")
		s.log.Info("ingestion pass skipped, lock busy")
		return nil, apperr.ErrLockHeld
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.lock.Release(releaseCtx); err != nil {
			s.log.Warn("run lock release failed", "error", err)
		}
	}()

	started := time.Now()
	report := &RunReport{StartedAt: started}

	keys, err := s.staging.Keys(ctx)
	if err != nil {
		s.metrics.IncPass("aborted")
		return nil, fmt.Errorf("staging keys: %w", err)
	}

	for _, key := range keys {
		if ctx.Err() != nil {
			s.metrics.IncPass("aborted")
			return nil, ctx.Err()
		}

		batch, err := s.staging.Get(ctx, key)
		if err != nil {
			s.metrics.IncPass("aborted")
			return nil, fmt.Errorf("staging batch %s: %w", key, err)
		}
		report.Batches++

		for _, rec := range batch {
			// Cancellation is coarse: stop before the next record.
			if ctx.Err() != nil {
				s.metrics.IncPass("aborted")
				return nil, ctx.Err()
			}
			s.reconcileOne(ctx, rec, opts.FullRefresh, &report.Counters)
		}
	}

	if err := s.staging.Wipe(ctx); err != nil {
		s.metrics.IncPass("aborted")
		return nil, fmt.Errorf("wipe staging: %w", err)
	}

	report.FinishedAt = time.Now()
	s.metrics.IncPass("completed")
	s.metrics.ObservePassDuration(report.FinishedAt.Sub(started))

	s.log.Info("ingestion pass completed",
		"batches", report.Batches,
		"new", report.Counters.New,
		"updated", report.Counters.Updated,
		"unchanged", report.Counters.Unchanged,
		"failed", report.Counters.Failed,
		"missing_address", report.Counters.MissingAddress,
		"geocode_requested", report.Counters.GeocodeRequested,
		"geocode_succeeded", report.Counters.GeocodeSucceeded,
		"duration", report.FinishedAt.Sub(started).String(),
	)

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	return report, nil
}

// reconcileOne isolates one record: an error or panic is logged and counted,
// never propagated to the pass.
func (s *ingestService) reconcileOne(ctx context.Context, rec feed.Record, fullRefresh bool, c *Counters) {
	defer func() {
		if r := recover(); r != nil {
			c.Failed++
			s.metrics.IncRecord("failed")
			s.log.Error("record processing panicked", "panic", r)
		}
	}()

	if err := s.reconciler.ReconcileRecord(ctx, rec, fullRefresh, c); err != nil {
		c.Failed++
		s.metrics.IncRecord("failed")
		s.log.Error("record processing failed", "error", err)
	}
}

func (s *ingestService) LastReport() *RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Counters re-exported for the handler layer.
type Counters = reconcile.Counters
