// Package cache implements the read-through metadata cache with TTL-based
// staleness.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"go.uber.org/zap"
)

// RefreshFunc fetches fresh metadata for a video id from the extractor.
type RefreshFunc func(ctx context.Context, id string) ([]byte, error)

// Cache serves metadata payloads, refreshing through the extractor whenever
// the stored record is absent or older than the TTL.
type Cache struct {
	store    Store
	ttl      time.Duration
	quitChan chan bool

	// now is swappable for tests.
	now func() time.Time
}

// New creates a metadata cache on top of the given store.
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:    store,
		ttl:      ttl,
		quitChan: make(chan bool),
		now:      time.Now,
	}
}

// GetOrRefresh returns the cached payload for id if it is still valid,
// otherwise calls refresh and persists the result.
//
// The response never depends on winning a persistence race: when two callers
// refresh the same id concurrently, both return the payload they computed and
// the last upsert wins the row. A failed refresh performs no write, so an
// existing valid record is never poisoned or evicted.
func (c *Cache) GetOrRefresh(ctx context.Context, id string, refresh RefreshFunc) ([]byte, error) {
	rec, err := c.store.Get(ctx, id)
	switch {
	case err == nil:
		if c.isValid(rec) {
			logger.LogDebug("Metadata cache hit", zap.String("video_id", id))
			return rec.Payload, nil
		}
		logger.LogDebug("Metadata cache stale", zap.String("video_id", id),
			zap.Time("updated_on", rec.UpdatedAt))
	case errors.Is(err, ErrNotFound):
		logger.LogDebug("Metadata cache miss", zap.String("video_id", id))
	default:
		// A broken store degrades the cache to a pass-through.
		logger.LogWarn("Metadata cache lookup failed", zap.String("video_id", id), zap.Error(err))
	}

	payload, err := refresh(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, &Record{ID: id, Payload: payload, UpdatedAt: c.now()}); err != nil {
		// Persistence is best effort; the caller still gets the metadata.
		logger.LogWarn("Metadata cache write failed", zap.String("video_id", id), zap.Error(err))
	}
	return payload, nil
}

func (c *Cache) isValid(rec *Record) bool {
	return c.now().Sub(rec.UpdatedAt) <= c.ttl
}

// StartSweeper launches the periodic removal of records older than the TTL.
// The sweep is idempotent and safe to run alongside reads and writes.
func (c *Cache) StartSweeper(interval time.Duration) {
	go c.sweepRoutine(interval)
}

// StopSweeper stops the sweep routine.
func (c *Cache) StopSweeper() {
	select {
	case c.quitChan <- true:
	default:
	}
}

func (c *Cache) sweepRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.LogInfo("Metadata sweep routine started",
		zap.Duration("interval", interval),
		zap.Duration("ttl", c.ttl))

	for {
		select {
		case <-c.quitChan:
			logger.LogInfo("Metadata sweep routine stopped")
			return
		case <-ticker.C:
			c.Sweep(context.Background())
		}
	}
}

// Sweep removes expired records once. Exposed for tests and manual runs.
func (c *Cache) Sweep(ctx context.Context) {
	deleted, err := c.store.DeleteOlderThan(ctx, c.now().Add(-c.ttl))
	if err != nil {
		logger.LogError("Metadata sweep failed", err)
		return
	}
	if deleted > 0 {
		logger.LogInfo("Metadata sweep completed", zap.Int64("deleted", deleted))
	}
}
