// Package main provides the hardware portal server CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Pools    []PoolConfig   `yaml:"pools"`
	Verbose  bool           `yaml:"-"` // set via CLI flag
}

// ServerConfig contains listen addresses.
type ServerConfig struct {
	HTTPAddress    string `yaml:"http_address"`    // REST API listen address (default: :8080)
	MetricsAddress string `yaml:"metrics_address"` // Prometheus listen address (default: :9090)
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// APIConfig contains API behavior settings.
type APIConfig struct {
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl"`
	RateLimitPerIP   int           `yaml:"rate_limit_per_ip"`
	RateLimitPerUser int           `yaml:"rate_limit_per_user"`
	LockoutThreshold int           `yaml:"lockout_threshold"`
	LockoutDuration  time.Duration `yaml:"lockout_duration"`
	SignupEnabled    *bool         `yaml:"signup_enabled"` // default true
}

// PoolConfig declares a hardware pool seeded at startup.
type PoolConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/hwportal.db"
	}
	if len(c.Pools) == 0 {
		c.Pools = []PoolConfig{
			{Name: "HWSET1", Capacity: 250},
			{Name: "HWSET2", Capacity: 300},
		}
	}
}

// SignupEnabled reports whether open signup is on. Defaults to true.
func (c *Config) SignupEnabled() bool {
	if c.API.SignupEnabled == nil {
		return true
	}
	return *c.API.SignupEnabled
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	seen := make(map[string]bool)
	for _, p := range c.Pools {
		if p.Name == "" {
			return fmt.Errorf("pools: name is required")
		}
		if p.Capacity < 0 {
			return fmt.Errorf("pools: %s capacity must not be negative", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("pools: duplicate pool %s", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
