package cache

import (
	"context"
	"greenfield-planner/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisResultCache(client, time.Hour), mr
}

func cacheInput(rate float64) domain.PlanInput {
	return domain.PlanInput{
		Customers: []domain.Customer{
			{ID: "C1", Location: domain.Coordinates{Lat: 1, Lon: 2}, HasLocation: true, Demand: map[string]float64{"P2": 5, "P1": 3}},
		},
		Facilities: []domain.Facility{
			{ID: "F1", Capacity: map[string]float64{"P1": 10, "P2": 10}},
		},
		Products: []domain.Product{{ID: "P1"}, {ID: "P2"}},
		Settings: domain.Settings{TransportCostPerKm: rate, Algorithm: domain.AlgorithmGreedyGravityV1},
	}
}

func TestRedisResultCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	in := cacheInput(2)

	_, ok, err := c.Get(ctx, in)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.Result{
		Success: true,
		Allocations: []domain.Allocation{
			{CustomerID: "C1", FacilityID: "F1", ProductID: "P1", Quantity: 3, DistanceKm: 12.5, TransportCost: 75},
		},
		KPIs: domain.KPIs{TotalCost: 75, TransportCost: 75, FacilitiesUsed: 1, ServiceLevel: 37.5},
		FacilityUsage: []domain.FacilitySummary{
			{ID: "F1", CustomersServed: []string{"C1"}, Utilization: []domain.Utilization{{ProductID: "P1", Used: 3, Capacity: 10, Percentage: 30}}},
		},
	}
	require.NoError(t, c.Put(ctx, in, want))

	got, ok, err := c.Get(ctx, in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	key, err := ResultKey(in)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(key))

	_, ok, err = c.Get(ctx, cacheInput(3))
	require.NoError(t, err)
	assert.False(t, ok, "different settings must not share a key")
}

func TestResultKeyIsStable(t *testing.T) {
	a, err := ResultKey(cacheInput(2))
	require.NoError(t, err)
	b, err := ResultKey(cacheInput(2))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a, resultKeyPrefix)
}

func TestRedisResultCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	in := cacheInput(2)

	key, err := ResultKey(in)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, "not json"))

	_, _, err = c.Get(context.Background(), in)
	assert.Error(t, err)
}
