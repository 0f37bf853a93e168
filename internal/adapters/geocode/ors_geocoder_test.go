package geocode

import (
	"context"
	"fmt"
	"greenfield-planner/internal/domain"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *mapCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *mapCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func newORSStub(t *testing.T, known map[string][2]float64) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var queried []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))

		text := r.URL.Query().Get("text")
		mu.Lock()
		queried = append(queried, text)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		c, ok := known[text]
		if !ok {
			fmt.Fprint(w, `{"features":[]}`)
			return
		}
		fmt.Fprintf(w, `{"features":[{"geometry":{"coordinates":[%v,%v]}}]}`, c[0], c[1])
	}))
	t.Cleanup(srv.Close)
	return srv, &queried
}

func TestORSGeocoderUsesCacheAndNormalizes(t *testing.T) {
	srv, queried := newORSStub(t, map[string][2]float64{
		"1 Main St, Phoenix": {-112.07, 33.45},
	})
	cache := &mapCache{m: map[string]domain.Coordinates{
		"9 Dock Rd": {Lon: -111.9, Lat: 33.4},
	}}

	g, err := NewORSGeocoder("secret", srv.URL, "", cache)
	require.NoError(t, err)

	got, err := g.Geocode(context.Background(), []string{"1 Main St,  Phoenix", "9 Dock Rd", "1 Main St, Phoenix"})
	require.NoError(t, err)

	assert.Equal(t, domain.Coordinates{Lon: -112.07, Lat: 33.45}, got["1 Main St,  Phoenix"])
	assert.Equal(t, domain.Coordinates{Lon: -112.07, Lat: 33.45}, got["1 Main St, Phoenix"])
	assert.Equal(t, domain.Coordinates{Lon: -111.9, Lat: 33.4}, got["9 Dock Rd"])

	assert.Equal(t, []string{"1 Main St, Phoenix"}, *queried, "cache hit and duplicate must not reach ORS")
	assert.Contains(t, cache.m, "1 Main St, Phoenix")

	_, err = g.Geocode(context.Background(), []string{"1 Main St, Phoenix"})
	require.NoError(t, err)
	assert.Len(t, *queried, 1)
}

func TestORSGeocoderNoResults(t *testing.T) {
	srv, _ := newORSStub(t, nil)

	g, err := NewORSGeocoder("secret", srv.URL, "US", nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), []string{"Nowhere"})
	assert.ErrorContains(t, err, "no geocode results")
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	_, err := NewORSGeocoder("", "", "", nil)
	assert.Error(t, err)
}
