package services

import (
	"context"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"

	"golang.org/x/sync/errgroup"
)

var ErrUnknownFacility = errors.New("unknown facility")

// A what-if variation of a base input: different costs and, optionally,
// a restricted set of candidate facilities.
type ScenarioVariant struct {
	Name        string
	Settings    domain.Settings
	FacilityIDs []string
}

type VariantResult struct {
	Name   string
	Result domain.Result
}

// CompareScenarios runs Optimize once per variant, at most limit at a time.
// Every run gets its own ledger, so runs share nothing mutable. Results keep
// the variant order.
func CompareScenarios(
	ctx context.Context,
	base domain.PlanInput,
	variants []ScenarioVariant,
	limit int,
) ([]VariantResult, error) {
	if limit < 1 {
		limit = 1
	}

	out := make([]VariantResult, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			in, err := applyVariant(base, v)
			if err != nil {
				return fmt.Errorf("compare scenarios: variant %q: %w", v.Name, err)
			}

			res, err := Optimize(in)
			if err != nil {
				return fmt.Errorf("compare scenarios: variant %q: %w", v.Name, err)
			}

			out[i] = VariantResult{Name: v.Name, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func applyVariant(base domain.PlanInput, v ScenarioVariant) (domain.PlanInput, error) {
	in := base
	in.Settings = v.Settings

	if len(v.FacilityIDs) == 0 {
		return in, nil
	}

	byID := make(map[string]domain.Facility, len(base.Facilities))
	for _, f := range base.Facilities {
		byID[f.ID] = f
	}

	// Keep the base order so tie-breaks match the unrestricted run.
	keep := make(map[string]struct{}, len(v.FacilityIDs))
	for _, id := range v.FacilityIDs {
		if _, ok := byID[id]; !ok {
			return domain.PlanInput{}, fmt.Errorf("%q: %w", id, ErrUnknownFacility)
		}
		keep[id] = struct{}{}
	}

	in.Facilities = make([]domain.Facility, 0, len(keep))
	for _, f := range base.Facilities {
		if _, ok := keep[f.ID]; ok {
			in.Facilities = append(in.Facilities, f)
		}
	}
	return in, nil
}
