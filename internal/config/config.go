// Package config resolves CLI configuration from an optional YAML file and
// the environment. Environment variables (ANNOWORK_*) override file values;
// command-line flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to construct the API client.
type Config struct {
	EndpointURL   string `envconfig:"ENDPOINT_URL" yaml:"endpoint_url"`
	LoginUserID   string `envconfig:"USER_ID" yaml:"user_id"`
	LoginPassword string `envconfig:"PASSWORD" yaml:"password"`
	Debug         bool   `envconfig:"DEBUG" yaml:"debug"`
}

// envPrefix yields ANNOWORK_ENDPOINT_URL, ANNOWORK_USER_ID, etc.
const envPrefix = "annowork"

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".annoworkcli", "config.yaml")
}

// Load reads the config file at path (DefaultPath() when empty; a missing
// file is not an error) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
