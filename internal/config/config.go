package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	User     string `json:"user"`
	Backend  struct {
		BaseURL      string `json:"base_url"`
		APIKey       string `json:"api_key"`
		ResponseMode string `json:"response_mode"`
		TimeoutSecs  int    `json:"timeout_secs"`
	} `json:"backend"`
	Tokenizer struct {
		Encoding string `json:"encoding"`
	} `json:"tokenizer"`
	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir: filepath.Join(os.Getenv("HOME"), ".chatstream"),
	}
	cfg.LogLevel = "info"
	cfg.User = "chatstream"
	cfg.Backend.BaseURL = "https://api.dify.ai/v1"
	cfg.Backend.ResponseMode = "streaming"
	cfg.Backend.TimeoutSecs = 30
	cfg.Tokenizer.Encoding = "cl100k_base"

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if apiKey := os.Getenv("DIFY_API_KEY"); apiKey != "" {
		cfg.Backend.APIKey = apiKey
	}
	if baseURL := os.Getenv("DIFY_BASE_URL"); baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if user := os.Getenv("CHATSTREAM_USER"); user != "" {
		cfg.User = user
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	return cfg, nil
}

// Save writes the config as indented JSON, atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ToMap converts the config to a nested map via a JSON round trip.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues returns all config values as a flat dot-separated map.
// When mask is true, secret values are masked for display.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads the config file at path and returns the value for the
// dot-separated key. Unlike Load, this does not apply env overrides, so it
// reflects what is actually stored on disk.
func GetValue(path, key string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	flat := Flatten(m)
	val, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue sets the dot-separated key in the config file at path, creating
// the file from defaults if it does not exist. String values that parse as
// bool, int, or float are stored with that type.
func SetValue(path, key, value string) error {
	var m map[string]any
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	} else if os.IsNotExist(err) {
		cfg, err := Load(path)
		if err != nil {
			return err
		}
		m, err = ToMap(cfg)
		if err != nil {
			return err
		}
	} else {
		return fmt.Errorf("read config: %w", err)
	}

	flat := Flatten(m)
	flat[key] = coerceValue(value)
	nested := Unflatten(flat)

	data, err := json.MarshalIndent(nested, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// coerceValue parses a string into bool, int, or float when possible.
func coerceValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil && (value == "true" || value == "false") {
		return b
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
