// Package service builds a ragdown.Service from loaded configuration.
package service

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jmylchreest/ragdown/internal/config"
	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/cache"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/cleaner"
	"github.com/jmylchreest/ragdown/pkg/document"
	"github.com/jmylchreest/ragdown/pkg/document/wordpress"
	"github.com/jmylchreest/ragdown/pkg/ragdown"
)

// Build wires the configured store and cache into a Service. The returned
// close function releases the cache connection.
func Build(cfg *config.Config, opts ...ragdown.Option) (*ragdown.Service, func() error, error) {
	store, err := NewStore(cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	c, closeCache, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	base := []ragdown.Option{
		ragdown.WithStore(store),
		ragdown.WithCache(c),
		ragdown.WithCacheTTL(cfg.Cache.TTL),
		ragdown.WithBaseURL(cfg.Site.BaseURL),
		ragdown.WithPlatformVersion(cfg.Site.PlatformVersion),
		ragdown.WithChunkDefaults(chunker.Options{
			ChunkSize: cfg.Chunking.Size,
			Overlap:   cfg.Chunking.Overlap,
		}),
	}

	if cfg.Converter == config.ConverterParser {
		base = append(base, ragdown.WithConverter(cleaner.NewParserMarkdown()))
	}

	svc, err := ragdown.New(append(base, opts...)...)
	if err != nil {
		_ = closeCache()
		return nil, nil, err
	}
	return svc, closeCache, nil
}

// NewStore creates the configured document store.
func NewStore(cfg config.SourceConfig) (document.Store, error) {
	switch cfg.Type {
	case config.SourceFiles, "":
		logger.Debug("using file store", "dir", cfg.Dir)
		return document.NewFileStore(cfg.Dir), nil
	case config.SourceWordPress:
		logger.Debug("using wordpress store", "url", cfg.URL, "endpoint", cfg.Endpoint)
		return wordpress.New(wordpress.Config{
			BaseURL:  cfg.URL,
			Endpoint: cfg.Endpoint,
			Username: cfg.Username,
			Password: cfg.Password,
			Timeout:  cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s (use files or wordpress)", cfg.Type)
	}
}

// NewCache creates the configured cache and its close function.
func NewCache(cfg config.CacheConfig) (cache.Cache, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Backend {
	case config.CacheMemory, "":
		size := cfg.Size
		if size <= 0 {
			size = cache.DefaultMemorySize
		}
		mem, err := cache.NewMemory(size)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		return mem, noClose, nil
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		r := cache.NewRedis(client, cfg.Prefix)
		logger.Debug("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return r, r.Close, nil
	case config.CacheNone:
		return cache.NewNoop(), noClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend: %s (use memory, redis or none)", cfg.Backend)
	}
}
