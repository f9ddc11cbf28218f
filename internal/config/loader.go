package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file and environment variables.
// A missing file is not an error; defaults apply in that case.
func Load(configPath string) (*Config, *Secrets, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, LoadSecrets(), nil
}

// Default returns the configuration used when no config file is present
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.DataRoot == "" {
		cfg.DataRoot = "datasets"
	}
	if cfg.Hub.Endpoint == "" {
		cfg.Hub.Endpoint = "https://huggingface.co"
	}
	if cfg.Hub.CacheDir == "" {
		cfg.Hub.CacheDir = ".cache/distillprep"
	}
	if cfg.Hub.RequestsPerMinute == 0 {
		cfg.Hub.RequestsPerMinute = 120
	}
	if cfg.Hub.BurstPercent == 0 {
		cfg.Hub.BurstPercent = 15
	}
	if cfg.Hub.MaxRetries == 0 {
		cfg.Hub.MaxRetries = 3
	}
	if cfg.Hub.TimeoutSeconds == 0 {
		cfg.Hub.TimeoutSeconds = 300
	}
	if cfg.Convert.ChunkSize == 0 {
		cfg.Convert.ChunkSize = 500
	}
	if cfg.Convert.Subject == "" {
		cfg.Convert.Subject = "algebra"
	}
}
