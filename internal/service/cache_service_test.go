package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-view/internal/models"
)

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	assert.Empty(t, repo.entries)

	var dest int
	hit, err := svc.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceRecordsHitsAndMisses(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCache(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var dest []int
	hit, err := svc.Get(ctx, "missing", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "present", []int{1, 2}, 0))
	hit, err = svc.Get(ctx, "present", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int{1, 2}, dest)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 1e-9)
}

func TestCacheServiceInvalidateSemester(t *testing.T) {
	repo := newMemoryCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()
	ref := models.EntityRef{Category: models.EntityCategoryGroup, Name: "ИВТ-21"}

	require.NoError(t, svc.Set(ctx, ScheduleKey(20241, ref, "2024-09-02", "2024-09-07"), []int{}, 0))
	require.NoError(t, svc.Set(ctx, ComparisonKey("1", "2"), map[string]int{}, 0))
	require.NoError(t, svc.Invalidate(ctx, SchedulePattern(20241)))

	assert.Len(t, repo.entries, 1)
}

func TestCacheKeys(t *testing.T) {
	ref := models.EntityRef{Category: models.EntityCategoryRoom, Name: "A 101"}
	a := ScheduleKey(20241, ref, "2024-09-02", "2024-09-07")
	b := ScheduleKey(20241, ref, "2024-09-02", "2024-09-14")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "timetable:schedule:20241:room:A+101:2024-09-02:2024-09-07", a)

	// separators inside names must not collide with the key layout
	assert.NotEqual(t, ComparisonKey("1:2", "3"), ComparisonKey("1", "2:3"))
}
