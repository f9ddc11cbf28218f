package config

import (
	"fmt"
	"os"
)

// Config represents the complete application configuration
type Config struct {
	DataRoot string        `toml:"data_root"` // Root directory for dataset files (default: "datasets")
	Hub      HubConfig     `toml:"hub"`
	Convert  ConvertConfig `toml:"convert"`
}

// HubConfig holds settings for the dataset hub download client
type HubConfig struct {
	Endpoint          string `toml:"endpoint"`            // Hub base URL
	CacheDir          string `toml:"cache_dir"`           // Local cache for downloaded source files
	RequestsPerMinute int    `toml:"requests_per_minute"` // Per-host download rate limit
	BurstPercent      int    `toml:"burst_percent"`       // Burst capacity as percentage of the rate (1-50)
	MaxRetries        int    `toml:"max_retries"`         // Retry attempts per download
	TimeoutSeconds    int    `toml:"timeout_seconds"`     // HTTP timeout per request
}

// ConvertConfig holds settings for the algebra shard bulk converter
type ConvertConfig struct {
	ChunkSize int    `toml:"chunk_size"` // Records per CoT chunk file (default: 500)
	Subject   string `toml:"subject"`    // Shard subject prefix for combined files (default: "algebra")
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	HubToken string
}

const (
	// MaxBurstPercent is the upper bound for hub burst capacity
	MaxBurstPercent = 50
	// MaxRetryAttempts is the upper bound for download retries
	MaxRetryAttempts = 10
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return fmt.Errorf("data_root is required")
	}
	if c.Hub.Endpoint == "" {
		return fmt.Errorf("hub.endpoint is required")
	}
	if c.Hub.RequestsPerMinute < 1 {
		return fmt.Errorf("hub.requests_per_minute must be at least 1 (got %d)", c.Hub.RequestsPerMinute)
	}
	if c.Hub.BurstPercent < 1 || c.Hub.BurstPercent > MaxBurstPercent {
		return fmt.Errorf("hub.burst_percent must be between 1 and %d (got %d)", MaxBurstPercent, c.Hub.BurstPercent)
	}
	if c.Hub.MaxRetries < 0 || c.Hub.MaxRetries > MaxRetryAttempts {
		return fmt.Errorf("hub.max_retries must be between 0 and %d (got %d)", MaxRetryAttempts, c.Hub.MaxRetries)
	}
	if c.Hub.TimeoutSeconds < 1 {
		return fmt.Errorf("hub.timeout_seconds must be at least 1 (got %d)", c.Hub.TimeoutSeconds)
	}
	if c.Convert.ChunkSize < 1 {
		return fmt.Errorf("convert.chunk_size must be at least 1 (got %d)", c.Convert.ChunkSize)
	}
	if c.Convert.Subject == "" {
		return fmt.Errorf("convert.subject is required")
	}
	return nil
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() *Secrets {
	secrets := &Secrets{}

	if token := os.Getenv("HF_TOKEN"); token != "" {
		secrets.HubToken = token
	} else if token := os.Getenv("HUGGING_FACE_TOKEN"); token != "" {
		secrets.HubToken = token
	}

	return secrets
}
