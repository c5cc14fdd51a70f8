package ragdown

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmylchreest/ragdown/pkg/cache"
)

// ErrCacheUnsupported is returned when the cache cannot perform a bulk operation.
var ErrCacheUnsupported = errors.New("cache does not support this operation")

// maxSampleKeys caps CacheStats.SampleKeys.
const maxSampleKeys = 10

// CacheStats describes the cache contents.
type CacheStats struct {
	Enabled    bool          `json:"cache_enabled" yaml:"cache_enabled"`
	Count      int           `json:"cache_count" yaml:"cache_count"`
	TTL        time.Duration `json:"-" yaml:"-"`
	TTLSeconds int           `json:"cache_duration" yaml:"cache_duration"`
	SampleKeys []string      `json:"sample_keys" yaml:"sample_keys"`
}

// CacheStats counts live cache entries and samples a few keys. Caches that
// cannot enumerate keys report as disabled.
func (s *Service) CacheStats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{
		TTL:        s.config.CacheTTL,
		TTLSeconds: int(s.config.CacheTTL / time.Second),
		SampleKeys: []string{},
	}

	inspector, ok := s.cache.(cache.Inspector)
	if !ok {
		return stats, nil
	}
	keys, err := inspector.Keys(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}

	slices.Sort(keys)
	stats.Enabled = true
	stats.Count = len(keys)
	stats.SampleKeys = keys[:min(len(keys), maxSampleKeys)]
	return stats, nil
}

// ClearCache removes every cache entry and returns how many were deleted.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	pd, ok := s.cache.(cache.PrefixDeleter)
	if !ok {
		return 0, ErrCacheUnsupported
	}
	return pd.DeletePrefix(ctx, "")
}

// Health reports whether the service and its cache are usable.
type Health struct {
	Status          string    `json:"status" yaml:"status"`
	Version         string    `json:"version" yaml:"version"`
	PlatformVersion string    `json:"platform_version" yaml:"platform_version"`
	CacheEnabled    bool      `json:"cache_enabled" yaml:"cache_enabled"`
	CacheError      string    `json:"cache_error,omitempty" yaml:"cache_error,omitempty"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
}

// Health pings remote caches. An unreachable cache degrades the status but
// the service keeps working without it.
func (s *Service) Health(ctx context.Context) *Health {
	_, noop := s.cache.(*cache.Noop)
	h := &Health{
		Status:          "ok",
		Version:         s.formatter.PluginVersion,
		PlatformVersion: s.config.PlatformVersion,
		CacheEnabled:    !noop,
		Timestamp:       s.config.Clock(),
	}
	if p, ok := s.cache.(cache.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			h.Status = "degraded"
			h.CacheError = err.Error()
		}
	}
	return h
}
