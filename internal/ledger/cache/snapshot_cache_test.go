package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundforge/crowdfund-backend/internal/ledger/domain"
)

func setupCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSnapshotCache(client, time.Minute, zerolog.Nop()), mr
}

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Project: domain.Project{
			PublicID:    "fund-12345-6789",
			Title:       "Solar school roof",
			FundingGoal: decimal.NewFromInt(100),
		},
		TotalRaised:       decimal.NewFromInt(30),
		Progress:          decimal.NewFromInt(30),
		ContributionCount: 1,
		Comments: []domain.Comment{
			{PublicID: "cmt-1", Username: "alice", Text: "Great cause!", CreatedAt: time.Now().UTC()},
		},
	}
}

func TestSnapshotCache_RoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	c.Put(ctx, snap.Project.PublicID, snap)

	got, ok := c.Get(ctx, snap.Project.PublicID)
	require.True(t, ok)
	assert.Equal(t, snap.Project.PublicID, got.Project.PublicID)
	assert.True(t, got.TotalRaised.Equal(snap.TotalRaised))
	assert.Equal(t, snap.ContributionCount, got.ContributionCount)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "alice", got.Comments[0].Username)
}

func TestSnapshotCache_MissOnUnknownProject(t *testing.T) {
	c, _ := setupCache(t)

	_, ok := c.Get(context.Background(), "fund-unknown")
	assert.False(t, ok)
}

func TestSnapshotCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(snapshotKeyPrefix+"fund-12345-6789", "{not json"))

	_, ok := c.Get(ctx, "fund-12345-6789")
	assert.False(t, ok)

	// The corrupt entry is dropped so the next write starts clean.
	assert.False(t, mr.Exists(snapshotKeyPrefix+"fund-12345-6789"))
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	c.Put(ctx, snap.Project.PublicID, snap)
	c.Invalidate(ctx, snap.Project.PublicID)

	_, ok := c.Get(ctx, snap.Project.PublicID)
	assert.False(t, ok)
}

func TestSnapshotCache_EntriesExpire(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	c.Put(ctx, snap.Project.PublicID, snap)

	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, snap.Project.PublicID)
	assert.False(t, ok)
}
