package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the settings read from the config file, with environment
// overrides applied on top.
type Config struct {
	DBPath        string `json:"db_path"`
	HTTPAddr      string `json:"http_addr"`
	NotifyEnabled bool   `json:"notify_enabled"`
	UserName      string `json:"user_name,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
}

func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		NotifyEnabled: true,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "kardo", "config.json"), nil
}

func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Load reads the config file, returning defaults when it does not exist.
// KARDO_DB and KARDO_ADDR override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.DBPath = envOrDefault("KARDO_DB", cfg.DBPath)
	cfg.HTTPAddr = envOrDefault("KARDO_ADDR", cfg.HTTPAddr)
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
