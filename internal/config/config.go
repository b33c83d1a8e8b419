// Package config loads image-bridge settings from defaults, an optional
// config file and IMAGE_BRIDGE_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// IMAGE_BRIDGE_WORKER_MAX_CONCURRENCY.
const EnvPrefix = "IMAGE_BRIDGE"

// AppName names the default cache subdirectory.
const AppName = "image-bridge"

// Config is the resolved configuration.
type Config struct {
	// CacheDir receives every derived image.
	CacheDir string `mapstructure:"cache_dir"`

	Log      LogConfig      `mapstructure:"log"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Compress CompressConfig `mapstructure:"compress"`
	Metadata MetadataConfig `mapstructure:"metadata"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type WorkerConfig struct {
	// MaxConcurrency bounds concurrently running operations; 0 is unbounded.
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type CompressConfig struct {
	// ReduceColor quantizes compressed output to RGB565.
	ReduceColor bool `mapstructure:"reduce_color"`
}

type MetadataConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// ExiftoolPath overrides the exiftool binary looked up on PATH.
	ExiftoolPath string `mapstructure:"exiftool_path"`
}

// DefaultCacheDir returns the per-user cache directory for derived images,
// falling back to the system temp directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("cache_dir", DefaultCacheDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("worker.max_concurrency", 0)
	v.SetDefault("compress.reduce_color", true)
	v.SetDefault("metadata.enabled", true)
	v.SetDefault("metadata.exiftool_path", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration. path names an optional config file (TOML,
// YAML or JSON, by extension); an empty path uses defaults and environment
// only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.CacheDir == "" {
		errs = append(errs, errors.New("cache_dir must not be empty"))
	}
	if c.Worker.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("worker.max_concurrency must be >= 0, got %d", c.Worker.MaxConcurrency))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}
