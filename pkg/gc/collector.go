// Package gc provides garbage collection for orphaned file payloads.
//
// With an external blob store, payloads are written before and deleted after
// the metadata transaction, so a crash in between can leave payloads behind
// that no file record references. The collector periodically scans the blob
// store and removes payloads whose file metadata no longer exists.
//
// Embedded payloads never orphan (they share the metadata transaction) and
// need no collector.
package gc

import (
	"context"
	"fmt"
	"time"

	"dataroom/internal/logger"
	"dataroom/pkg/blob"
	"dataroom/pkg/dataroom"
)

// Collector performs periodic garbage collection on a blob store.
//
// Thread Safety: Safe for concurrent use.
type Collector struct {
	store  dataroom.Store
	blobs  blob.Store
	config Config
	stopCh chan struct{}
	doneCh chan struct{}
}

// Config contains configuration for the garbage collector.
type Config struct {
	// Enabled controls whether background collection is active
	Enabled bool

	// Interval is how often to run garbage collection (default: 24h)
	Interval time.Duration

	// DryRun mode logs what would be deleted without actually deleting.
	// Useful for validating a deployment before letting the collector loose.
	DryRun bool
}

// NewCollector creates a new garbage collector over the given stores.
//
// The collector is initialized but not started; call Start to begin
// background collection, or RunNow for a one-off sweep.
func NewCollector(store dataroom.Store, blobs blob.Store, config Config) (*Collector, error) {
	if blobs == nil {
		return nil, fmt.Errorf("garbage collection requires an external blob store")
	}

	if config.Interval == 0 {
		config.Interval = 24 * time.Hour
	}

	return &Collector{
		store:  store,
		blobs:  blobs,
		config: config,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start begins background garbage collection. No-op when disabled.
func (c *Collector) Start() {
	if !c.config.Enabled {
		logger.Info("Garbage collection disabled")
		return
	}

	logger.Info("Starting garbage collector: interval=%s dry_run=%v",
		c.config.Interval, c.config.DryRun)

	go c.worker()
}

// Stop stops the garbage collector and waits for the worker to finish any
// in-progress sweep, up to the context deadline. Safe to call when the
// collector was never started with Enabled set.
func (c *Collector) Stop(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	logger.Info("Stopping garbage collector...")
	close(c.stopCh)

	select {
	case <-c.doneCh:
		logger.Info("Garbage collector stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("Garbage collector shutdown timeout")
		return ctx.Err()
	}
}

// RunNow triggers an immediate sweep, blocking until it completes or the
// context is cancelled. Works regardless of the Enabled flag.
func (c *Collector) RunNow(ctx context.Context) (*Stats, error) {
	return c.sweep(ctx)
}

// worker is the background goroutine that runs periodic sweeps.
func (c *Collector) worker() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			stats, err := c.sweep(ctx)
			cancel()

			if err != nil {
				logger.Error("Garbage collection failed: %v", err)
			} else {
				logger.Info("Garbage collection completed: %s", stats.Summary())
			}

		case <-c.stopCh:
			return
		}
	}
}

// sweep performs a single collection run:
//
//  1. List every payload in the blob store
//  2. For each, look up its file metadata
//  3. Delete payloads whose metadata is gone
//
// Lookup failures other than not-found leave the payload alone; a flaky
// metadata store must never cause payload loss.
func (c *Collector) sweep(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	ids, err := c.blobs.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list blobs: %w", err)
	}
	stats.ScannedCount = uint64(len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			stats.EndTime = time.Now()
			return stats, err
		}

		_, err := c.store.GetFile(ctx, id)
		if err == nil {
			continue
		}
		if !dataroom.IsNotFound(err) {
			logger.Warn("GC: skipping blob %s, metadata lookup failed: %v", id, err)
			stats.FailedCount++
			continue
		}

		stats.OrphanedCount++

		if c.config.DryRun {
			logger.Info("GC: dry run, would delete orphaned blob %s", id)
			continue
		}

		if err := c.blobs.Delete(ctx, id); err != nil {
			logger.Warn("GC: failed to delete orphaned blob %s: %v", id, err)
			stats.FailedCount++
			continue
		}
		stats.DeletedCount++
	}

	stats.EndTime = time.Now()

	if stats.OrphanedCount > 0 {
		logger.Info("GC: %s", stats.Summary())
	}
	return stats, nil
}

// Stats contains statistics from a garbage collection run.
type Stats struct {
	StartTime     time.Time
	EndTime       time.Time
	ScannedCount  uint64 // payloads examined
	OrphanedCount uint64 // payloads with no file metadata
	DeletedCount  uint64 // orphans successfully deleted
	FailedCount   uint64 // lookup or delete failures
}

// Duration returns the total sweep duration.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Summary returns a human-readable summary of the sweep.
func (s *Stats) Summary() string {
	return fmt.Sprintf("scanned=%d orphaned=%d deleted=%d failed=%d duration=%s",
		s.ScannedCount, s.OrphanedCount, s.DeletedCount, s.FailedCount, s.Duration())
}
