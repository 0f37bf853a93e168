package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/httpx"
	"greenfield-planner/internal/platform/obs"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// Persistent address -> coordinates store consulted before calling ORS.
type Cache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
	country string
	cache   Cache
}

// NewORSGeocoder builds a geocoder. An empty baseURL selects the public ORS
// endpoint; an empty country disables the country boundary filter. cache may be nil.
func NewORSGeocoder(apiKey, baseURL, country string, cache Cache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ORSGeocoder{
		client:  httpx.NewClient(10 * time.Second),
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves addresses, serving cache hits first and calling ORS only for misses.
// The result is keyed by the addresses exactly as given.
func (g *ORSGeocoder) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	byNorm := make(map[string][]string, len(addresses))
	norms := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			return nil, errors.New("geocode: address must be non-empty")
		}
		if _, ok := byNorm[n]; !ok {
			norms = append(norms, n)
		}
		byNorm[n] = append(byNorm[n], a)
	}

	hits := make(map[string]domain.Coordinates)
	if g.cache != nil {
		hits, err = g.cache.GetMany(ctx, norms)
		if err != nil {
			return nil, fmt.Errorf("geocode: get geocode cache: %w", err)
		}
	}

	misses := make([]string, 0, len(norms))
	for _, n := range norms {
		if _, ok := hits[n]; !ok {
			misses = append(misses, n)
		}
	}

	fresh := make(map[string]domain.Coordinates, len(misses))
	for _, n := range misses {
		c, err := g.geocodeOne(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", n, err)
		}
		fresh[n] = c
	}

	if g.cache != nil && len(fresh) > 0 {
		if err := g.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for n, originals := range byNorm {
		c, ok := hits[n]
		if !ok {
			c = fresh[n]
		}
		for _, a := range originals {
			out[a] = c
		}
	}

	return out, nil
}

func (g *ORSGeocoder) geocodeOne(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := g.baseURL + "/geocode/search"

	resp, err := g.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", g.apiKey)
		req.Header.Set("Accept", "application/json")

		q := req.URL.Query()
		q.Set("text", address)
		if g.country != "" {
			q.Set("boundary.country", g.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, errors.New("no geocode results")
	}

	c, ok := domain.CoordsFromList(decoded.Features[0].Geometry.Coordinates)
	if !ok {
		return domain.Coordinates{}, errors.New("invalid coordinate format")
	}
	return c, nil
}
