package cache

import (
	"context"
	"fmt"
	"greenfield-planner/internal/adapters/repositories"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/db"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLGeocodeCacheUpsertAndLookup(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	sqlDB, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, repositories.InitSchema(ctx, sqlDB))

	prefix := fmt.Sprintf("it-%d ", time.Now().UnixNano())
	a, b := prefix+"1 Main St", prefix+"2 Dock Rd"
	t.Cleanup(func() {
		_, _ = sqlDB.ExecContext(context.Background(), `DELETE FROM geocode_cache WHERE address = ANY($1::text[]);`, []string{a, b})
	})

	c := NewSQLGeocodeCache(sqlDB)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		a: {Lon: -112.07, Lat: 33.45},
		b: {Lon: -111.9, Lat: 33.4},
	}))
	// Conflicting address is updated in place.
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		a: {Lon: -112.5, Lat: 33.6},
	}))

	got, err := c.GetMany(ctx, []string{a, " " + b + " ", a, prefix + "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		a: {Lon: -112.5, Lat: 33.6},
		b: {Lon: -111.9, Lat: 33.4},
	}, got)
}
