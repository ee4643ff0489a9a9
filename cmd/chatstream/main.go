package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/chatstream/internal/apps"
	"github.com/user/chatstream/internal/config"
	"github.com/user/chatstream/internal/dify"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "chatstream",
	Short:         "Chat session client for Dify-compatible streaming backends",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath,
		"config",
		filepath.Join(os.Getenv("HOME"), ".chatstream", "config.json"),
		"config file path",
	)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newBackend builds the protocol client, either for the default backend
// from the config file or for a stored app selected by name.
func newBackend(cfg *config.Config, appName string) (*dify.Client, error) {
	baseURL := cfg.Backend.BaseURL
	apiKey := cfg.Backend.APIKey

	if appName != "" {
		store := apps.NewStore(cfg.DataDir)
		app, err := store.GetByName(context.Background(), appName)
		if err != nil {
			return nil, fmt.Errorf("select app: %w", err)
		}
		baseURL = app.BaseURL
		apiKey = app.APIKey
	}

	return dify.New(&dify.Config{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		User:         cfg.User,
		ResponseMode: cfg.Backend.ResponseMode,
		Timeout:      time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
