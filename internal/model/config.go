package model

import "time"

// Config holds all qfilter settings
type Config struct {
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Link   LinkConfig   `yaml:"permalink" mapstructure:"permalink"`
}

// OutputConfig controls how commands print results
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // text, json, yaml
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// CacheConfig controls memoization of scanned queries
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// BatchConfig controls batch processing of query files
type BatchConfig struct {
	Workers int           `yaml:"workers" mapstructure:"workers"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	RequestsPerSec  float64       `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst           int           `yaml:"burst" mapstructure:"burst"`
	ClientIdle      time.Duration `yaml:"client_idle" mapstructure:"client_idle"` // Rate limit state is dropped for clients idle this long
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	Metrics         bool          `yaml:"metrics" mapstructure:"metrics"`
}

// LinkConfig controls permalink generation
type LinkConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"` // Prefix for generated links, e.g. https://sourcegraph.example.com
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Batch: BatchConfig{
			Workers: 4,
			Timeout: 5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:7480",
			RequestsPerSec:  20,
			Burst:           40,
			ClientIdle:      10 * time.Minute,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			Metrics:         true,
		},
	}
}
