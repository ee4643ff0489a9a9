package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoad_WritesDefaults(t *testing.T) {
	path := tempConfigPath(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.ResponseMode != "streaming" {
		t.Errorf("expected default response mode 'streaming', got %q", cfg.Backend.ResponseMode)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestSave_ReloadRoundTrip(t *testing.T) {
	path := tempConfigPath(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Backend.BaseURL = "http://localhost:8080/v1"
	cfg.User = "alice"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Backend.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("expected saved base url, got %q", reloaded.Backend.BaseURL)
	}
	if reloaded.User != "alice" {
		t.Errorf("expected saved user, got %q", reloaded.User)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := tempConfigPath(t)
	t.Setenv("DIFY_API_KEY", "env-key")
	t.Setenv("DIFY_BASE_URL", "http://env.example/v1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.APIKey != "env-key" {
		t.Errorf("expected env api key, got %q", cfg.Backend.APIKey)
	}
	if cfg.Backend.BaseURL != "http://env.example/v1" {
		t.Errorf("expected env base url, got %q", cfg.Backend.BaseURL)
	}
}

func TestListValues_WithMask(t *testing.T) {
	cfg := &Config{}
	cfg.Backend.APIKey = "secret-key-1234"

	values, err := ListValues(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if values["backend.api_key"] != "***1234" {
		t.Errorf("expected masked api key, got %v", values["backend.api_key"])
	}
}

func TestGetValue_ExistingKey(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	val, err := GetValue(path, "backend.response_mode")
	if err != nil {
		t.Fatal(err)
	}
	if val != "streaming" {
		t.Errorf("expected 'streaming', got %v", val)
	}
}

func TestGetValue_UnknownKey(t *testing.T) {
	path := tempConfigPath(t)
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if _, err := GetValue(path, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetValue_String(t *testing.T) {
	path := tempConfigPath(t)
	if err := SetValue(path, "backend.base_url", "http://set.example/v1"); err != nil {
		t.Fatal(err)
	}
	val, err := GetValue(path, "backend.base_url")
	if err != nil {
		t.Fatal(err)
	}
	if val != "http://set.example/v1" {
		t.Errorf("expected set value, got %v", val)
	}
}

func TestSetValue_Numeric(t *testing.T) {
	path := tempConfigPath(t)
	if err := SetValue(path, "backend.timeout_secs", "60"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("expected timeout 60, got %d", cfg.Backend.TimeoutSecs)
	}
}

func TestSetValue_NonexistentFile(t *testing.T) {
	path := tempConfigPath(t)
	if err := SetValue(path, "user", "bob"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.User != "bob" {
		t.Errorf("expected user 'bob', got %q", cfg.User)
	}
}
