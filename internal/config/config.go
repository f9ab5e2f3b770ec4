package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Features enables or disables each action category. Travel is accepted and
// reported but drives no category yet.
type Features struct {
	Crimes    bool `yaml:"crimes"`
	Gym       bool `yaml:"gym"`
	Items     bool `yaml:"items"`
	Education bool `yaml:"education"`
	Travel    bool `yaml:"travel"`
}

// Config holds all application configuration.
type Config struct {
	API struct {
		Key                string `yaml:"key"`
		BaseURL            string `yaml:"base_url"`
		MinRequestInterval int    `yaml:"min_request_interval"` // seconds between API requests
	} `yaml:"api"`
	Schedule struct {
		PollInterval int `yaml:"poll_interval"` // seconds between status cycles
	} `yaml:"schedule"`
	Features Features `yaml:"features"`
	Browser  struct {
		Headless bool `yaml:"headless"`
	} `yaml:"browser"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is honoured first.
func Load(path string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TORN_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("TORN_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("API_CALL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.MinRequestInterval = n
		}
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.PollInterval = n
		}
	}
	if v := os.Getenv("ENABLE_CRIMES"); v != "" {
		cfg.Features.Crimes = parseBool(v)
	}
	if v := os.Getenv("ENABLE_GYM"); v != "" {
		cfg.Features.Gym = parseBool(v)
	}
	if v := os.Getenv("ENABLE_ITEMS"); v != "" {
		cfg.Features.Items = parseBool(v)
	}
	if v := os.Getenv("ENABLE_EDUCATION"); v != "" {
		cfg.Features.Education = parseBool(v)
	}
	if v := os.Getenv("ENABLE_TRAVEL"); v != "" {
		cfg.Features.Travel = parseBool(v)
	}
	if v := os.Getenv("HEADLESS_BROWSER"); v != "" {
		cfg.Browser.Headless = parseBool(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	return cfg, nil
}

// defaults returns a Config pre-filled so that a partial YAML file only
// overrides the fields it mentions.
func defaults() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "https://api.torn.com"
	cfg.API.MinRequestInterval = 30
	cfg.Schedule.PollInterval = 60
	cfg.Features = Features{
		Crimes:    true,
		Gym:       true,
		Items:     true,
		Education: true,
		Travel:    false,
	}
	return cfg
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required (set TORN_API_KEY)")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.MinRequestInterval <= 0 {
		return fmt.Errorf("api.min_request_interval must be positive")
	}
	if c.Schedule.PollInterval <= 0 {
		return fmt.Errorf("schedule.poll_interval must be positive")
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "t", "yes", "y":
		return true
	default:
		return false
	}
}
