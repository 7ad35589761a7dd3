// Package config loads the scout configuration: a JSON file under a
// .scout directory, with environment-variable overrides so the gateway
// token never has to live on disk.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DefaultTrustedOrigins is the ChatWars forwarder account. Only
// messages forwarded from these accounts are classified.
var DefaultTrustedOrigins = []int64{408101137}

// Config represents the flat scout configuration.
type Config struct {
	GatewayURL     string  `json:"gateway_url" env:"SCOUT_GATEWAY_URL"`
	Token          string  `json:"token,omitempty" env:"SCOUT_TOKEN"`
	Admins         []int64 `json:"admins,omitempty" env:"SCOUT_ADMINS"`
	TrustedOrigins []int64 `json:"trusted_origins,omitempty" env:"SCOUT_TRUSTED_ORIGINS"`
	DBPath         string  `json:"db_path,omitempty" env:"SCOUT_DB_PATH"`
	Verbose        bool    `json:"verbose,omitempty" env:"SCOUT_VERBOSE"`
}

// LoadConfig reads .scout/config.json from the specified directory and
// applies environment overrides. A missing file is not an error; the
// config can live entirely in the environment.
func LoadConfig(dir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(dir, ".scout", "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if len(cfg.TrustedOrigins) == 0 {
		cfg.TrustedOrigins = append([]int64(nil), DefaultTrustedOrigins...)
	}
	return cfg, nil
}

// SaveConfig writes config.json to the directory.
func SaveConfig(dir string, cfg *Config) error {
	scoutDir := filepath.Join(dir, ".scout")
	if err := os.MkdirAll(scoutDir, 0755); err != nil {
		return fmt.Errorf("failed to create .scout dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(scoutDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// IsAdmin reports whether a user is on the operator allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// IsTrustedOrigin reports whether forwarded messages from the account
// should be classified.
func (c *Config) IsTrustedOrigin(originID int64) bool {
	for _, id := range c.TrustedOrigins {
		if id == originID {
			return true
		}
	}
	return false
}
