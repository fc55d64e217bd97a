package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linkstash/linkstash/internal/store"
)

// ErrNoSnapshot is returned by Load when Redis holds no saved snapshot.
var ErrNoSnapshot = errors.New("no snapshot in redis")

// Store persists full snapshots of the in-memory store so data survives
// restarts. Redis stays a secondary copy; the memory store is authoritative.
type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed snapshot store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save writes a snapshot and its timestamp in one pipeline.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, SnapshotKey(), data, 0)
	pipe.Set(ctx, SnapshotAtKey(), time.Now().UTC().Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load reads the last saved snapshot.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	data, err := s.client.Get(ctx, SnapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.Snapshot{}, ErrNoSnapshot
		}
		return store.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// SavedAt reports when the last snapshot was written. Zero time when none.
func (s *Store) SavedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, SnapshotAtKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get snapshot timestamp: %w", err)
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snapshot timestamp %q: %w", raw, err)
	}
	return at, nil
}

// Clear removes the saved snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, SnapshotKey(), SnapshotAtKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
