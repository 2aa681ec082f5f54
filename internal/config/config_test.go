package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("CASAFLOW_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Client.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", cfg.Client.Currency)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9999"

[client]
server_url = "http://example.test:9999"
member_id = "u-ana"
currency = "COP"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CASAFLOW_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Client.Currency != "COP" || cfg.Client.MemberID != "u-ana" {
		t.Errorf("client = %+v", cfg.Client)
	}
	// Unset keys keep their defaults.
	if cfg.Server.DBPath == "" {
		t.Error("db_path must fall back to the default")
	}
	if cfg.Client.Token != "" {
		t.Errorf("token = %q, want empty", cfg.Client.Token)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\naddr ="), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CASAFLOW_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a malformed file")
	}
}
