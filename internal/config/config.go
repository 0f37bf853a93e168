// Package config loads service configuration.
//
// Values come from a YAML file (with ${VAR} expansion) when one exists, and
// from environment variables otherwise. A .env file, if present, is loaded
// into the environment first.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	ORS      ORSConfig      `yaml:"ors"`
	Remote   RemoteConfig   `yaml:"remote"`
	Planning PlanningConfig `yaml:"planning"`
	Seed     SeedConfig     `yaml:"seed"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds the Postgres connection string. Empty means scenarios
// are served from the seed file in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig enables the result cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// ORSConfig enables address geocoding when APIKey is set.
type ORSConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Country string `yaml:"country"`
}

// RemoteConfig enables offloading runs to a remote solver when BaseURL is set.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default cost parameters applied when a request omits them.
type PlanningConfig struct {
	TransportCostPerKm   float64 `yaml:"transport_cost_per_km"`
	FixedCostPerFacility float64 `yaml:"fixed_cost_per_facility"`
	CompareLimit         int     `yaml:"compare_limit"`
}

type SeedConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses a YAML config file, then fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: read %q: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv builds the configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           Get("PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       GetInt("REDIS_DB", 0),
			TTL:      GetDuration("REDIS_TTL", 0),
		},
		ORS: ORSConfig{
			APIKey:  os.Getenv("ORS_API_KEY"),
			BaseURL: os.Getenv("ORS_BASE_URL"),
			Country: os.Getenv("ORS_COUNTRY"),
		},
		Remote: RemoteConfig{
			BaseURL: os.Getenv("REMOTE_SOLVER_URL"),
			APIKey:  os.Getenv("REMOTE_SOLVER_API_KEY"),
			Timeout: GetDuration("REMOTE_SOLVER_TIMEOUT", 0),
		},
		Planning: PlanningConfig{
			TransportCostPerKm:   GetFloat("TRANSPORT_COST_PER_KM", 0),
			FixedCostPerFacility: GetFloat("FIXED_COST_PER_FACILITY", 0),
			CompareLimit:         GetInt("COMPARE_LIMIT", 0),
		},
		Seed: SeedConfig{Path: os.Getenv("SEED_PATH")},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv loads .env, then tries the YAML file at path and falls back to the environment.
func LoadOrEnv(path string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if path != "" {
		cfg, err := Load(path)
		if err == nil {
			return cfg
		}
		log.Printf("config file not used: %v", err)
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 24 * time.Hour
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 30 * time.Second
	}
	if c.Planning.TransportCostPerKm == 0 {
		c.Planning.TransportCostPerKm = 1
	}
	if c.Planning.CompareLimit == 0 {
		c.Planning.CompareLimit = 4
	}
	if c.Seed.Path == "" {
		c.Seed.Path = "data/seeds/scenarios.json"
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
