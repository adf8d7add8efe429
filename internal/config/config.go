// Package config loads the sentinel YAML configuration and applies
// environment variable overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration shared by the client and server
// binaries.
type Config struct {
	Server  Server  `yaml:"server"`
	Client  Client  `yaml:"client"`
	Sim     Sim     `yaml:"sim"`
	Logging Logging `yaml:"logging"`
}

// Server configures the development backend.
type Server struct {
	Addr             string `yaml:"addr"`
	SQLitePath       string `yaml:"sqlite_path"`
	JWTSecret        string `yaml:"jwt_secret"`
	JWTExpireMinutes int    `yaml:"jwt_expire_minutes"`
	AdminEmail       string `yaml:"admin_email"`
	AdminPassword    string `yaml:"admin_password"`
	AdminRole        string `yaml:"admin_role"`
	MonitorMax       int    `yaml:"monitor_max"`
	UWEnabled        bool   `yaml:"uw_enabled"`
}

// Client configures the terminal client.
type Client struct {
	BaseURL           string `yaml:"base_url"`
	PollIntervalSec   int    `yaml:"poll_interval_sec"`
	DebounceMs        int    `yaml:"debounce_ms"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	CredentialPath    string `yaml:"credential_path"`
	AlertLimit        int    `yaml:"alert_limit"`
	RecentWindowSec   int    `yaml:"recent_window_sec"`
	RecentLimit       int    `yaml:"recent_limit"`
}

// Sim controls the server's replay worker.
type Sim struct {
	SpeedPerTick int     `yaml:"speed_per_tick"`
	IntervalSec  float64 `yaml:"interval_sec"`
	SeedAlerts   int     `yaml:"seed_alerts"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"` // used by the client, which owns the terminal
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:             "127.0.0.1:8001",
			SQLitePath:       "sentinel.db",
			JWTSecret:        "change_me",
			JWTExpireMinutes: 60,
			AdminEmail:       "admin@alpha-sentinel.local",
			AdminPassword:    "sentinel",
			AdminRole:        "sentinel",
			MonitorMax:       10,
			UWEnabled:        true,
		},
		Client: Client{
			BaseURL:           "http://127.0.0.1:8001",
			PollIntervalSec:   5,
			DebounceMs:        400,
			RequestTimeoutSec: 10,
			CredentialPath:    defaultCredentialPath(),
			AlertLimit:        50,
			RecentWindowSec:   900,
			RecentLimit:       15,
		},
		Sim: Sim{
			SpeedPerTick: 3,
			IntervalSec:  5,
			SeedAlerts:   400,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

func defaultCredentialPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sentinel-credential"
	}
	return home + "/.sentinel/credential"
}

// Load reads the YAML configuration file at the given path (defaults only
// when path is empty), then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set. The names match
// what the deployment scripts have always exported.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENTINEL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Server.SQLitePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.JWTExpireMinutes = n
		}
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.Server.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Server.AdminPassword = v
	}
	if v := os.Getenv("ADMIN_ROLE"); v != "" {
		cfg.Server.AdminRole = v
	}
	if v := os.Getenv("MONITOR_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MonitorMax = n
		}
	}
	if v := os.Getenv("UW_ENABLED"); v != "" {
		cfg.Server.UWEnabled = v == "1" || v == "true" || v == "yes"
	}

	if v := os.Getenv("SENTINEL_BASE_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv("SENTINEL_CREDENTIAL_PATH"); v != "" {
		cfg.Client.CredentialPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
