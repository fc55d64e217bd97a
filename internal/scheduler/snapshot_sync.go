package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/store"
	redisstore "github.com/linkstash/linkstash/internal/store/redis"
)

const (
	// DefaultSnapshotInterval is how often the store is persisted to Redis.
	DefaultSnapshotInterval = 30 * time.Second
)

// SnapshotSyncer periodically persists the in-memory store to Redis so the
// development backend survives restarts. Persistence is best effort; a failed
// save never disturbs the memory store.
type SnapshotSyncer struct {
	store    *redisstore.Store
	memory   *store.Memory
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSnapshotSyncer creates a new snapshot syncer.
func NewSnapshotSyncer(
	rs *redisstore.Store,
	memory *store.Memory,
	log logger.Logger,
	interval time.Duration,
) *SnapshotSyncer {
	if interval == 0 {
		interval = DefaultSnapshotInterval
	}
	return &SnapshotSyncer{
		store:    rs,
		memory:   memory,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// RestoreOnce loads the last snapshot from Redis into the memory store.
// Returns false when Redis holds no snapshot yet.
func (ss *SnapshotSyncer) RestoreOnce(ctx context.Context) (bool, error) {
	snap, err := ss.store.Load(ctx)
	if err != nil {
		if errors.Is(err, redisstore.ErrNoSnapshot) {
			return false, nil
		}
		return false, err
	}
	ss.memory.Restore(snap)

	bookmarks, collections, tags := ss.memory.Counts()
	ss.logger.Info("restored store from redis snapshot",
		logger.Int("bookmarks", bookmarks),
		logger.Int("collections", collections),
		logger.Int("tags", tags))
	return true, nil
}

// Start begins periodic persistence.
func (ss *SnapshotSyncer) Start(ctx context.Context) error {
	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.persist(ctx)
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop halts periodic persistence and writes one final snapshot.
func (ss *SnapshotSyncer) Stop() {
	close(ss.stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ss.persist(ctx)
}

func (ss *SnapshotSyncer) persist(ctx context.Context) {
	if err := ss.store.Save(ctx, ss.memory.Export()); err != nil {
		ss.logger.Warn("failed to persist snapshot to redis", logger.Error(err))
		return
	}
	ss.logger.Debug("persisted store snapshot to redis")
}
