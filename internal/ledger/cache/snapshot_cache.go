package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

const (
	// Key layout: fund:snapshot:{project_public_id}
	snapshotKeyPrefix = "fund:snapshot:"
	defaultTTL        = 30 * time.Second
)

// SnapshotCache is a read-through redis cache for project snapshots. It fails
// open on every path: redis being down or holding a bad payload degrades to a
// database read, never to an error.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSnapshotCache creates a snapshot cache. ttl <= 0 selects the default.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SnapshotCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached snapshot for the project, if present and readable.
func (c *SnapshotCache) Get(ctx context.Context, projectID string) (*domain.Snapshot, bool) {
	data, err := c.client.Get(ctx, c.key(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("snapshot cache read failed")
		return nil, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("snapshot cache entry corrupt, dropping")
		c.client.Del(ctx, c.key(projectID))
		return nil, false
	}
	return &snap, true
}

// Put stores the snapshot with the cache TTL.
func (c *SnapshotCache) Put(ctx context.Context, projectID string, snap *domain.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("snapshot cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(projectID), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("snapshot cache write failed")
	}
}

// Invalidate drops the cached snapshot. Called when a write's outcome is
// unknown and the cached view can no longer be trusted.
func (c *SnapshotCache) Invalidate(ctx context.Context, projectID string) {
	if err := c.client.Del(ctx, c.key(projectID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("snapshot cache invalidate failed")
	}
}

func (c *SnapshotCache) key(projectID string) string {
	return snapshotKeyPrefix + projectID
}
