// Command gfa runs a greenfield allocation for a scenario file and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"greenfield-planner/internal/adapters/geocode"
	"greenfield-planner/internal/adapters/remote"
	"greenfield-planner/internal/adapters/scenariofile"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/services"
	"io"
	"os"
	"time"
)

type options struct {
	Input          string
	ScenarioID     string
	CustomersFile  string
	FacilitiesFile string
	Rate           float64
	Fixed          float64
	Algorithm      string
	Format         string
	RemoteURL      string
	RemoteKey      string
	ORSKey         string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("gfa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Input, "input", "", "Path to a scenario JSON file")
	fs.StringVar(&opts.ScenarioID, "scenario", "", "Scenario id to run when -input holds several scenarios")
	fs.StringVar(&opts.CustomersFile, "customers", "", "Path to customers CSV file (id,name,lat,lon,<product>...)")
	fs.StringVar(&opts.FacilitiesFile, "facilities", "", "Path to facilities CSV file (id,name,lat,lon,<product>...)")
	fs.Float64Var(&opts.Rate, "rate", 1, "Transport cost per km per unit")
	fs.Float64Var(&opts.Fixed, "fixed", 0, "Fixed cost per opened facility")
	fs.StringVar(&opts.Algorithm, "algorithm", domain.AlgorithmGreedyGravityV1, "Allocation algorithm")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text, json")
	fs.StringVar(&opts.RemoteURL, "remote", "", "Remote solver base URL (falls back to local on failure)")
	fs.StringVar(&opts.RemoteKey, "remote-key", os.Getenv("REMOTE_SOLVER_API_KEY"), "Remote solver API key")
	fs.StringVar(&opts.ORSKey, "ors-key", os.Getenv("ORS_API_KEY"), "OpenRouteService key for geocoding address-only sites")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.Input == "" && (opts.CustomersFile == "" || opts.FacilitiesFile == "") {
		return options{}, errors.New("either -input or both -customers and -facilities are required")
	}
	if opts.Input != "" && (opts.CustomersFile != "" || opts.FacilitiesFile != "") {
		return options{}, errors.New("-input cannot be combined with -customers/-facilities")
	}
	if opts.Rate < 0 || opts.Fixed < 0 {
		return options{}, errors.New("-rate and -fixed cannot be negative")
	}
	if opts.Format != "text" && opts.Format != "json" {
		return options{}, fmt.Errorf("unknown format %q (want text or json)", opts.Format)
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	sc, err := loadScenario(opts)
	if err != nil {
		return err
	}

	var deps services.PlanDependencies
	if opts.ORSKey != "" {
		geocoder, err := geocode.NewORSGeocoder(opts.ORSKey, "", "", nil)
		if err != nil {
			return err
		}
		deps.Geocoder = geocoder
	}
	if opts.RemoteURL != "" {
		client, err := remote.NewGFAClient(opts.RemoteURL, opts.RemoteKey, 60*time.Second)
		if err != nil {
			return err
		}
		deps.Remote = client
	}

	req := services.PlanGreenfieldRequest{
		Input: domain.PlanInput{
			Customers:  sc.Customers,
			Facilities: sc.Facilities,
			Products:   sc.Products,
		},
		Settings: domain.Settings{
			TransportCostPerKm:   opts.Rate,
			FixedCostPerFacility: opts.Fixed,
			Algorithm:            opts.Algorithm,
		},
		PreferRemote: opts.RemoteURL != "",
	}

	res, source, err := services.PlanGreenfield(ctx, req, deps)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		return writeJSON(stdout, string(source), res)
	default:
		return writeText(stdout, sc, string(source), res)
	}
}

func loadScenario(opts options) (domain.Scenario, error) {
	if opts.Input == "" {
		return scenariofile.LoadCSV("cli", opts.CustomersFile, opts.FacilitiesFile)
	}

	scenarios, err := scenariofile.LoadJSON(opts.Input)
	if err != nil {
		return domain.Scenario{}, err
	}
	if len(scenarios) == 0 {
		return domain.Scenario{}, fmt.Errorf("%s contains no scenarios", opts.Input)
	}
	if opts.ScenarioID == "" {
		if len(scenarios) > 1 {
			return domain.Scenario{}, fmt.Errorf("%s contains %d scenarios, select one with -scenario", opts.Input, len(scenarios))
		}
		return scenarios[0], nil
	}
	for _, s := range scenarios {
		if s.ID == opts.ScenarioID {
			return s, nil
		}
	}
	return domain.Scenario{}, fmt.Errorf("scenario %q not found in %s", opts.ScenarioID, opts.Input)
}
