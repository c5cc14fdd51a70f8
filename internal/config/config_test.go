package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func load(t *testing.T, file string) (*Config, error) {
	t.Helper()
	v := viper.New()
	Setup(v, file)
	if err := ReadFile(v); err != nil {
		return nil, err
	}
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := load(t, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.Type != SourceFiles || cfg.Source.Dir != "." || cfg.Source.Timeout != 30*time.Second {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.TTL != time.Hour || cfg.Cache.Size != 1024 || cfg.Cache.Prefix != "ragdown:" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Chunking.Size != 512 || cfg.Chunking.Overlap != 128 {
		t.Errorf("chunking = %+v", cfg.Chunking)
	}
	if cfg.Converter != ConverterRegex {
		t.Errorf("converter = %q", cfg.Converter)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ragdown.yaml")
	content := `source:
  type: wordpress
  url: https://blog.example.com
  username: editor
  password: secret
cache:
  backend: redis
  redis_addr: localhost:6379
  ttl: 10m
chunking:
  size: 256
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAGDOWN_CHUNKING_OVERLAP", "32")
	t.Setenv("RAGDOWN_SITE_PLATFORM_VERSION", "6.5")

	cfg, err := load(t, file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.Type != SourceWordPress || cfg.Source.URL != "https://blog.example.com" || cfg.Source.Username != "editor" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Chunking.Size != 256 || cfg.Chunking.Overlap != 32 {
		t.Errorf("chunking = %+v", cfg.Chunking)
	}
	if cfg.Site.PlatformVersion != "6.5" {
		t.Errorf("site = %+v", cfg.Site)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := load(t, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Source:    SourceConfig{Type: SourceFiles, Dir: "docs"},
			Cache:     CacheConfig{Backend: CacheMemory, Size: 10},
			Chunking:  ChunkingConfig{Size: 512, Overlap: 128},
			Converter: ConverterRegex,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown source", func(c *Config) { c.Source.Type = "ftp" }, "Source.Type"},
		{"wordpress needs url", func(c *Config) { c.Source.Type = SourceWordPress }, "Source.URL"},
		{"bad url", func(c *Config) { c.Source.Type = SourceWordPress; c.Source.URL = "not a url" }, "Source.URL"},
		{"password without user", func(c *Config) { c.Source.Password = "x" }, "Source.Username"},
		{"redis needs addr", func(c *Config) { c.Cache.Backend = CacheRedis }, "Cache.RedisAddr"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "Cache.Backend"},
		{"zero size", func(c *Config) { c.Cache.Size = 0 }, "Cache.Size"},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }, "Chunking.Overlap"},
		{"unknown converter", func(c *Config) { c.Converter = "pandoc" }, "Converter"},
		{"bad base url", func(c *Config) { c.Site.BaseURL = "example" }, "Site.BaseURL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
