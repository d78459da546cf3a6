// Package config resolves platform connection settings from
// defaults, an optional YAML config file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/photonforge/lattice/pkg/api/routes"
)

// Environment variables understood by Load
const (
	EnvToken      = "LATTICE_API_TOKEN"
	EnvHost       = "LATTICE_API_HOST"
	EnvPort       = "LATTICE_API_PORT"
	EnvUseSSL     = "LATTICE_API_USE_SSL"
	EnvConfigFile = "LATTICE_CONFIG"
)

// DefaultConfigFile is the config file looked up in the working
// directory when LATTICE_CONFIG does not name one.
const DefaultConfigFile = "lattice.yaml"

// Config holds the platform connection settings.
type Config struct {
	Token  string `yaml:"token"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	UseSSL bool   `yaml:"use_ssl"`
}

// fileConfig mirrors Config with pointer fields so keys absent from
// the file do not clobber defaults.
type fileConfig struct {
	Token  *string `yaml:"token"`
	Host   *string `yaml:"host"`
	Port   *int    `yaml:"port"`
	UseSSL *bool   `yaml:"use_ssl"`
}

// Default returns the stock configuration: an SSL connection to a
// local platform with no token.
func Default() *Config {
	return &Config{
		Host:   routes.DefaultHost,
		Port:   routes.DefaultPort,
		UseSSL: true,
	}
}

// Load resolves the configuration. Precedence, lowest to highest:
// defaults, config file, environment.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.applyFile(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

func (c *Config) applyFile() error {
	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing default file is fine; an explicitly configured
		// one is not.
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if fc.Token != nil {
		c.Token = *fc.Token
	}
	if fc.Host != nil {
		c.Host = *fc.Host
	}
	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.UseSSL != nil {
		c.UseSSL = *fc.UseSSL
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Token = GetEnv(EnvToken, c.Token)
	c.Host = GetEnv(EnvHost, c.Host)

	if v, exists := os.LookupEnv(EnvPort); exists {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q", EnvPort, v)
		}
		c.Port = port
	}
	if v, exists := os.LookupEnv(EnvUseSSL); exists {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q", EnvUseSSL, v)
		}
		c.UseSSL = useSSL
	}
	return nil
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
