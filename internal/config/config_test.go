package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func goodConfig() Config {
	var cfg Config
	cfg.App.Port = 39114
	cfg.Dataset.MaxUploadBytes = 10 << 20
	cfg.View.DefaultSort = "posted-asc"
	cfg.View.Locale = "en"
	return cfg
}

func TestNormalizeAndValidateOK(t *testing.T) {
	cfg := goodConfig()
	cfg.Dataset.Path = "  jobs.json  "

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if out.Dataset.Path != "jobs.json" {
		t.Errorf("path not trimmed: %q", out.Dataset.Path)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.App.Port = 0 }, "app.port"},
		{"negative reload", func(c *Config) { c.Dataset.AutoReloadSeconds = -1 }, "auto_reload_seconds"},
		{"zero upload cap", func(c *Config) { c.Dataset.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"unknown sort", func(c *Config) { c.View.DefaultSort = "score" }, "default_sort"},
		{"bad locale", func(c *Config) { c.View.Locale = "not a locale!" }, "locale"},
	}
	for _, tc := range cases {
		cfg := goodConfig()
		tc.mutate(&cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := goodConfig()
	cfg.Dataset.Path = "jobs.json"

	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.App.Port != cfg.App.Port || got.Dataset.Path != "jobs.json" || got.View.DefaultSort != "posted-asc" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// Second save keeps a .bak of the previous file.
	cfg.View.DefaultSort = "title-asc"
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup file: %v", err)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	if err := os.WriteFile(defaultPath, []byte("app:\n  port: 39114\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	cfg, err := Load(userPath)
	if err != nil || cfg.App.Port != 39114 {
		t.Fatalf("load bootstrapped config: %+v err=%v", cfg, err)
	}

	// Second call must not overwrite the user's file.
	if err := os.WriteFile(userPath, []byte("app:\n  port: 40000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(dataDir, defaultPath); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load(userPath)
	if cfg.App.Port != 40000 {
		t.Fatalf("user config was overwritten: %+v", cfg)
	}
}
