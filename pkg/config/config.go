// Package config loads eventline settings from a TOML file.
//
// Settings are resolved in three layers: built-in defaults, then the config
// file, then command-line flags (applied by the caller). The file lives at
// $XDG_CONFIG_HOME/eventline/config.toml, falling back to
// ~/.config/eventline/config.toml:
//
//	width = 1200
//	buffer = 3
//	cache_ttl = "24h"
//	redis_addr = "localhost:6379"
//	listen = ":8080"
package config

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/eventline/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "eventline"

// Defaults.
const (
	DefaultWidth    = 1200.0
	DefaultBuffer   = 3.0
	DefaultCacheTTL = 24 * time.Hour
	DefaultListen   = "127.0.0.1:8080"
)

// Config is the on-disk configuration.
type Config struct {
	Width     float64  `toml:"width"`
	Buffer    float64  `toml:"buffer"`
	CacheDir  string   `toml:"cache_dir"`
	NoCache   bool     `toml:"no_cache"`
	RedisAddr string   `toml:"redis_addr"`
	CacheTTL  Duration `toml:"cache_ttl"`
	Listen    string   `toml:"listen"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:    DefaultWidth,
		Buffer:   DefaultBuffer,
		CacheDir: DefaultCacheDir(),
		CacheTTL: Duration{DefaultCacheTTL},
		Listen:   DefaultListen,
	}
}

// Load reads path on top of Default. An empty path means DefaultPath, and a
// missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no command could work with.
func (c Config) Validate() error {
	if math.IsNaN(c.Width) || math.IsInf(c.Width, 0) || c.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must be a positive number, got %g", c.Width)
	}
	if math.IsNaN(c.Buffer) || math.IsInf(c.Buffer, 0) || c.Buffer < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "buffer must be a non-negative number, got %g", c.Buffer)
	}
	if c.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache_ttl must not be negative")
	}
	return nil
}

// DefaultPath returns the config file location, or "" if no home directory
// can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// DefaultCacheDir returns ~/.cache/eventline, honouring XDG_CACHE_HOME.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", AppName)
}

// Write stores c at path as TOML, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
