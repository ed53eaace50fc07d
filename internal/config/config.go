// Package config provides YAML-based configuration loading for the sync
// service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, loaded from apsync.yaml.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	DB       DBConfig       `yaml:"db"`
	Sync     SyncConfig     `yaml:"sync"`
	Server   ServerConfig   `yaml:"server"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// UpstreamConfig holds connection settings for the dealer management API.
type UpstreamConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	// PasswordEnv names the environment variable holding the password;
	// PasswordFile is consulted when the variable is unset.
	PasswordEnv  string `yaml:"password_env"`
	PasswordFile string `yaml:"password_file"`
	// Timezone is the location the upstream expects query timestamps in.
	Timezone string `yaml:"timezone"`
	PageSize int    `yaml:"page_size"`
	// MaxPages caps how many pages of changed work orders one run walks.
	MaxPages int `yaml:"max_pages"`
	// InternalCustomerID is the customer id the upstream uses for
	// dealership-internal (non-customer) work.
	InternalCustomerID string `yaml:"internal_customer_id"`
}

// DBConfig holds connection settings for the MySQL store.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// SyncConfig controls the incremental sync job.
type SyncConfig struct {
	JobName         string `yaml:"job_name"`
	Schedule        string `yaml:"schedule"`
	LookbackMinutes int    `yaml:"lookback_minutes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// NotifyConfig holds optional chat alert settings. A section is active
// only when its token and channel are both set.
type NotifyConfig struct {
	SlackToken     string `yaml:"slack_token"`
	SlackChannel   string `yaml:"slack_channel"`
	DiscordToken   string `yaml:"discord_token"`
	DiscordChannel string `yaml:"discord_channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Upstream.PasswordEnv == "" {
		c.Upstream.PasswordEnv = "APSYNC_UPSTREAM_PASSWORD"
	}
	if c.Upstream.Timezone == "" {
		c.Upstream.Timezone = "America/New_York"
	}
	if c.Upstream.PageSize == 0 {
		c.Upstream.PageSize = 200
	}
	if c.Upstream.MaxPages == 0 {
		c.Upstream.MaxPages = 1
	}
	if c.Upstream.InternalCustomerID == "" {
		c.Upstream.InternalCustomerID = "3112"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.DB.User == "" {
		c.DB.User = "root"
	}
	if c.DB.Database == "" {
		c.DB.Database = "apsync"
	}
	if c.Sync.JobName == "" {
		c.Sync.JobName = "work_orders"
	}
	if c.Sync.Schedule == "" {
		c.Sync.Schedule = "*/5 * * * *"
	}
	if c.Sync.LookbackMinutes == 0 {
		c.Sync.LookbackMinutes = 15
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Upstream.BaseURL == "" {
		errs = append(errs, "upstream.base_url is required")
	}
	if c.Upstream.Username == "" {
		errs = append(errs, "upstream.username is required")
	}
	if _, err := time.LoadLocation(c.Upstream.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("upstream.timezone %q is not a valid location", c.Upstream.Timezone))
	}
	if c.Upstream.PageSize < 1 {
		errs = append(errs, "upstream.page_size must be positive")
	}
	if c.Upstream.MaxPages < 1 {
		errs = append(errs, "upstream.max_pages must be positive")
	}
	if c.Sync.LookbackMinutes < 1 {
		errs = append(errs, "sync.lookback_minutes must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Lookback returns the lookback window floor as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Sync.LookbackMinutes) * time.Minute
}

// Location resolves the upstream time zone. Call only after validation.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Upstream.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
