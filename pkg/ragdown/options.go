// Package ragdown provides the public API for turning CMS documents into
// clean Markdown and retrieval-ready chunk exports.
package ragdown

import (
	"time"

	"github.com/jmylchreest/ragdown/pkg/cache"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/cleaner"
	"github.com/jmylchreest/ragdown/pkg/document"
)

// Config holds all Service configuration.
type Config struct {
	// Content source
	Store document.Store

	// Caching
	Cache    cache.Cache
	CacheTTL time.Duration

	// Conversion settings
	BaseURL   string
	Converter cleaner.Cleaner
	Chrome    cleaner.ChromeConfig

	// Chunking settings
	ChunkDefaults chunker.Options

	// Export settings
	PlatformVersion string
	Clock           func() time.Time

	// Batch parallelism
	Concurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:      time.Hour,
		ChunkDefaults: chunker.DefaultOptions(),
		Clock:         time.Now,
		Concurrency:   4,
	}
}

// Option configures a Service.
type Option func(*Config)

// WithStore sets the document store.
func WithStore(s document.Store) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithCache sets the cache. Pass cache.NewNoop() to disable caching.
func WithCache(cc cache.Cache) Option {
	return func(c *Config) {
		c.Cache = cc
	}
}

// WithCacheTTL sets the lifetime of cached Markdown and chunk lists.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Config) {
		c.CacheTTL = d
	}
}

// WithBaseURL sets the site URL used to absolutize relative links.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithConverter replaces the HTML to Markdown converter.
func WithConverter(cl cleaner.Cleaner) Option {
	return func(c *Config) {
		c.Converter = cl
	}
}

// WithChrome overrides the structural chrome markers.
func WithChrome(cfg cleaner.ChromeConfig) Option {
	return func(c *Config) {
		c.Chrome = cfg
	}
}

// WithChunkDefaults sets the chunk sizes used when callers pass zero options.
func WithChunkDefaults(opts chunker.Options) Option {
	return func(c *Config) {
		c.ChunkDefaults = opts
	}
}

// WithPlatformVersion sets the platform version reported in universal exports.
func WithPlatformVersion(v string) Option {
	return func(c *Config) {
		c.PlatformVersion = v
	}
}

// WithClock sets the clock used to stamp exports.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Clock = now
	}
}

// WithConcurrency sets how many documents a batch processes at once.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}
