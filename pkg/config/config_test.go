package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/eventline/pkg/errors"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
width = 800
buffer = 2.5
cache_ttl = "90m"
redis_addr = "localhost:6379"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 800 || cfg.Buffer != 2.5 {
		t.Errorf("Width/Buffer = %v/%v", cfg.Width, cfg.Buffer)
	}
	if cfg.CacheTTL.Duration != 90*time.Minute {
		t.Errorf("CacheTTL = %v, want 90m", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"bad toml", "width = ", errors.ErrCodeInvalidFormat},
		{"bad duration", `cache_ttl = "soon"`, errors.ErrCodeInvalidFormat},
		{"unknown key", `colour = "blue"`, errors.ErrCodeInvalidInput},
		{"zero width", "width = 0", errors.ErrCodeInvalidInput},
		{"negative buffer", "buffer = -1", errors.ErrCodeInvalidInput},
		{"NaN width", "width = nan", errors.ErrCodeInvalidInput},
		{"infinite buffer", "buffer = inf", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(explicit missing) error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(default missing) error = %v", err)
	}
	if cfg.Width != DefaultWidth {
		t.Errorf("Width = %v, want default", cfg.Width)
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	if got := DefaultPath(); got != filepath.Join("/tmp/cfg", AppName, "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
	if got := DefaultCacheDir(); got != filepath.Join("/tmp/cache", AppName) {
		t.Errorf("DefaultCacheDir() = %q", got)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	if got := DefaultCacheDir(); !strings.HasPrefix(got, home) || !strings.Contains(got, ".cache") {
		t.Errorf("DefaultCacheDir() = %q, want under %s/.cache", got, home)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	want := Default()
	want.RedisAddr = "redis:6379"
	want.CacheTTL = Duration{time.Hour}
	if err := want.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}
