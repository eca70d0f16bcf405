package service_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/linkdao/reputation/internal/database/service"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCache(t *testing.T) *service.RuleCache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return service.NewRuleCache(client, 5*time.Minute, zap.NewNop())
}

func TestRuleCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := setupCache(t)
	ctx := t.Context()

	rule := &types.ReputationRule{
		ID:           1,
		EventType:    types.EventTypePositiveReview,
		ScoreImpact:  2.5,
		WeightFactor: 1.0,
		IsActive:     true,
	}

	require.NoError(t, cache.Set(ctx, rule.EventType, rule))

	cached, found, err := cache.Get(ctx, rule.EventType)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, cached)
	assert.Equal(t, rule.EventType, cached.EventType)
	assert.InDelta(t, 2.5, cached.ScoreImpact, 0.0001)
}

func TestRuleCache_MissNotCached(t *testing.T) {
	t.Parallel()

	cache := setupCache(t)

	cached, found, err := cache.Get(t.Context(), "never_seen")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, cached)
}

func TestRuleCache_CachedMissSentinel(t *testing.T) {
	t.Parallel()

	cache := setupCache(t)
	ctx := t.Context()

	// A nil rule caches the miss so unknown event types stay cheap.
	require.NoError(t, cache.Set(ctx, "nonexistent_event_type", nil))

	cached, found, err := cache.Get(ctx, "nonexistent_event_type")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, cached)
}

func TestRuleCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache := setupCache(t)
	ctx := t.Context()

	rule := &types.ReputationRule{
		EventType:   types.EventTypeOrderCompleted,
		ScoreImpact: 1,
		IsActive:    true,
	}

	require.NoError(t, cache.Set(ctx, rule.EventType, rule))
	require.NoError(t, cache.Invalidate(ctx, rule.EventType))

	_, found, err := cache.Get(ctx, rule.EventType)
	require.NoError(t, err)
	assert.False(t, found)
}
