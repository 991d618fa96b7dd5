package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ctlConfig is the per-user timecardctl configuration.
type ctlConfig struct {
	Server string `toml:"server"`
	Token  string `toml:"token"`
}

func defaultConfig() *ctlConfig {
	return &ctlConfig{Server: "http://localhost:8080"}
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".timecard", "config.toml"), nil
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (*ctlConfig, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func saveConfig(path string, cfg *ctlConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	// the file holds a bearer token
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
