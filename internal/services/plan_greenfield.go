package services

import (
	"context"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/obs"
	"greenfield-planner/internal/ports"
	"log"
	"strings"
)

var ErrUnresolvedLocation = errors.New("site has no resolvable location")

// Where a plan result came from.
type PlanSource string

const (
	SourceLocal  PlanSource = "local"
	SourceRemote PlanSource = "remote"
	SourceCache  PlanSource = "cache"
)

type PlanGreenfieldRequest struct {
	// ScenarioID selects a stored dataset. When empty, Input is used as given.
	ScenarioID   string
	Input        domain.PlanInput
	Settings     domain.Settings
	PreferRemote bool
}

// Collaborators of PlanGreenfield. Only Repo is required when a scenario id is
// used; every other dependency is optional.
type PlanDependencies struct {
	Repo     ports.ScenarioRepository
	Geocoder ports.Geocoder
	Cache    ports.ResultCache
	Remote   ports.RemoteOptimizer
}

// ResolveInput loads the dataset for a request and fills in coordinates for
// sites that only carry an address. The caller's slices are never modified.
func ResolveInput(
	ctx context.Context,
	req PlanGreenfieldRequest,
	deps PlanDependencies,
) (_ domain.PlanInput, err error) {
	defer obs.Time(ctx, "plan.ResolveInput")(&err)

	settings, err := NormalizeSettings(req.Settings)
	if err != nil {
		return domain.PlanInput{}, fmt.Errorf("resolve input: %w", err)
	}

	in := req.Input
	if id := strings.TrimSpace(req.ScenarioID); id != "" {
		if deps.Repo == nil {
			return domain.PlanInput{}, errors.New("resolve input: scenario repository is not configured")
		}
		sc, err := deps.Repo.LoadScenario(ctx, id)
		if err != nil {
			return domain.PlanInput{}, fmt.Errorf("resolve input: load scenario %q: %w", id, err)
		}
		in = domain.PlanInput{
			Customers:  sc.Customers,
			Facilities: sc.Facilities,
			Products:   sc.Products,
		}
	}
	in.Settings = settings

	in, err = geocodeSites(ctx, in, deps.Geocoder)
	if err != nil {
		return domain.PlanInput{}, fmt.Errorf("resolve input: %w", err)
	}

	return in, nil
}

// PlanGreenfield resolves the input and produces an allocation result.
//
// Results are served from the cache when possible. A configured remote optimizer
// is tried first when requested; any remote failure falls back to the local
// optimizer so the caller always gets a result for a valid input.
func PlanGreenfield(
	ctx context.Context,
	req PlanGreenfieldRequest,
	deps PlanDependencies,
) (_ domain.Result, _ PlanSource, err error) {
	defer obs.Time(ctx, "plan.PlanGreenfield")(&err)

	in, err := ResolveInput(ctx, req, deps)
	if err != nil {
		return domain.Result{}, "", fmt.Errorf("plan greenfield: %w", err)
	}

	if deps.Cache != nil {
		cached, ok, err := deps.Cache.Get(ctx, in)
		if err != nil {
			log.Printf("result cache read failed: %v", err)
		} else if ok {
			return cached, SourceCache, nil
		}
	}

	res, source, err := optimizeWithFallback(ctx, in, req.PreferRemote, deps.Remote)
	if err != nil {
		return domain.Result{}, "", fmt.Errorf("plan greenfield: %w", err)
	}

	if deps.Cache != nil {
		if err := deps.Cache.Put(ctx, in, res); err != nil {
			log.Printf("result cache write failed: %v", err)
		}
	}

	return res, source, nil
}

func optimizeWithFallback(
	ctx context.Context,
	in domain.PlanInput,
	preferRemote bool,
	remote ports.RemoteOptimizer,
) (domain.Result, PlanSource, error) {
	if preferRemote && remote != nil {
		res, err := remote.Optimize(ctx, in)
		if err == nil {
			return res, SourceRemote, nil
		}
		if ctx.Err() != nil {
			return domain.Result{}, "", fmt.Errorf("remote optimize: %w", ctx.Err())
		}
		log.Printf("remote optimize failed, using local optimizer: %v", err)
	}

	res, err := Optimize(in)
	if err != nil {
		return domain.Result{}, "", err
	}
	return res, SourceLocal, nil
}

func geocodeSites(ctx context.Context, in domain.PlanInput, geocoder ports.Geocoder) (domain.PlanInput, error) {
	var addresses []string
	seen := make(map[string]struct{})
	need := func(id, address string) error {
		a := strings.TrimSpace(address)
		if a == "" {
			return fmt.Errorf("site %q has no coordinates and no address: %w", id, ErrUnresolvedLocation)
		}
		if _, ok := seen[a]; !ok {
			seen[a] = struct{}{}
			addresses = append(addresses, a)
		}
		return nil
	}

	for _, c := range in.Customers {
		if !c.HasLocation {
			if err := need(c.ID, c.Address); err != nil {
				return domain.PlanInput{}, err
			}
		}
	}
	for _, f := range in.Facilities {
		if !f.HasLocation {
			if err := need(f.ID, f.Address); err != nil {
				return domain.PlanInput{}, err
			}
		}
	}

	if len(addresses) == 0 {
		return in, nil
	}
	if geocoder == nil {
		return domain.PlanInput{}, fmt.Errorf("%d addresses need geocoding but no geocoder is configured: %w", len(addresses), ErrUnresolvedLocation)
	}

	coords, err := geocoder.Geocode(ctx, addresses)
	if err != nil {
		return domain.PlanInput{}, fmt.Errorf("geocode sites: %w", err)
	}

	lookup := func(id, address string) (domain.Coordinates, error) {
		c, ok := coords[strings.TrimSpace(address)]
		if !ok {
			return domain.Coordinates{}, fmt.Errorf("site %q address %q: %w", id, address, ErrUnresolvedLocation)
		}
		return c, nil
	}

	customers := make([]domain.Customer, len(in.Customers))
	copy(customers, in.Customers)
	for i := range customers {
		if customers[i].HasLocation {
			continue
		}
		loc, err := lookup(customers[i].ID, customers[i].Address)
		if err != nil {
			return domain.PlanInput{}, err
		}
		customers[i].Location = loc
		customers[i].HasLocation = true
	}

	facilities := make([]domain.Facility, len(in.Facilities))
	copy(facilities, in.Facilities)
	for i := range facilities {
		if facilities[i].HasLocation {
			continue
		}
		loc, err := lookup(facilities[i].ID, facilities[i].Address)
		if err != nil {
			return domain.PlanInput{}, err
		}
		facilities[i].Location = loc
		facilities[i].HasLocation = true
	}

	in.Customers = customers
	in.Facilities = facilities
	return in, nil
}
