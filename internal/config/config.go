// Package config loads the casaflow configuration from a TOML file.
//
// The file lives at ~/.casaflow/config.toml by default; CASAFLOW_CONFIG
// overrides the path. Missing file means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig configures the reference API server.
type ServerConfig struct {
	// Addr is the listen address for `casaflow serve`.
	Addr string `toml:"addr"`

	// DBPath is the SQLite database location.
	DBPath string `toml:"db_path"`

	// TokenSecret signs and validates bearer tokens.
	TokenSecret string `toml:"token_secret"`

	// Metrics exposes /metrics when true.
	Metrics bool `toml:"metrics"`
}

// ClientConfig configures the TUI/CLI side.
type ClientConfig struct {
	// ServerURL is the backend base URL.
	ServerURL string `toml:"server_url"`

	// Token is the bearer token attached to every request.
	Token string `toml:"token"`

	// MemberID identifies the current user among the household members.
	MemberID string `toml:"member_id"`

	// Currency is the ISO 4217 code used for new movements.
	Currency string `toml:"currency"`

	// LogFile receives log output while the TUI owns the terminal.
	LogFile string `toml:"log_file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".casaflow")
	return Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			DBPath:      filepath.Join(dir, "casaflow.db"),
			TokenSecret: "dev-secret-change-me",
			Metrics:     true,
		},
		Client: ClientConfig{
			ServerURL: "http://127.0.0.1:8080",
			Currency:  "EUR",
			LogFile:   filepath.Join(dir, "casaflow.log"),
		},
	}
}

// Path returns the config file location, honoring CASAFLOW_CONFIG.
func Path() string {
	if p := os.Getenv("CASAFLOW_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".casaflow", "config.toml")
}

// Load reads the config file, applying defaults for anything unset.
// A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path := Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
