// Package config loads ragdown's settings from a config file, RAGDOWN_
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. RAGDOWN_CACHE_BACKEND.
const EnvPrefix = "RAGDOWN"

// Source types.
const (
	SourceFiles     = "files"
	SourceWordPress = "wordpress"
)

// Converters.
const (
	ConverterRegex  = "regex"
	ConverterParser = "parser"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the complete ragdown configuration.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Chunking ChunkingConfig `mapstructure:"chunking"`
	Site     SiteConfig     `mapstructure:"site"`

	// Converter selects the HTML to Markdown converter: regex or parser.
	Converter string `mapstructure:"converter" validate:"oneof=regex parser"`

	Debug   bool `mapstructure:"debug"`
	Quiet   bool `mapstructure:"quiet"`
	LogJSON bool `mapstructure:"log_json"`
}

// SourceConfig selects where documents come from.
type SourceConfig struct {
	Type     string        `mapstructure:"type" validate:"oneof=files wordpress"`
	Dir      string        `mapstructure:"dir" validate:"required_if=Type files"`
	URL      string        `mapstructure:"url" validate:"omitempty,url"`
	Username string        `mapstructure:"username" validate:"required_with=Password"`
	Password string        `mapstructure:"password"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// CacheConfig selects and sizes the cache.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" validate:"oneof=memory redis none"`
	TTL       time.Duration `mapstructure:"ttl" validate:"gte=0"`
	Size      int           `mapstructure:"size" validate:"gt=0"`
	RedisAddr string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `mapstructure:"redis_db" validate:"gte=0"`
	Prefix    string        `mapstructure:"prefix"`
}

// ChunkingConfig holds default chunk sizes in estimated tokens.
type ChunkingConfig struct {
	Size    int `mapstructure:"size" validate:"gte=0"`
	Overlap int `mapstructure:"overlap" validate:"gte=0"`
}

// SiteConfig describes the content site.
type SiteConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	PlatformVersion string `mapstructure:"platform_version"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.type", SourceFiles)
	v.SetDefault("source.dir", ".")
	v.SetDefault("source.endpoint", "posts")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "ragdown:")
	v.SetDefault("chunking.size", 512)
	v.SetDefault("chunking.overlap", 128)
	v.SetDefault("site.base_url", "")
	v.SetDefault("site.platform_version", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.username", "")
	v.SetDefault("source.password", "")
	v.SetDefault("converter", ConverterRegex)
	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_json", false)
}

// Setup points v at the config file and environment. An empty file searches
// $HOME and the working directory for .ragdown.yaml.
func Setup(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".ragdown")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// ReadFile reads the configured file. A missing file in the search path is
// not an error; a missing explicit file is.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateSource, SourceConfig{})
	return v
}

// validateSource requires a URL for the wordpress source.
func validateSource(sl validator.StructLevel) {
	s := sl.Current().Interface().(SourceConfig)
	if s.Type == SourceWordPress && s.URL == "" {
		sl.ReportError(s.URL, "URL", "URL", "required_if", "Type wordpress")
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
