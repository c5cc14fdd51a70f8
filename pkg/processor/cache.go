package processor

import (
	"context"
	"fmt"

	"github.com/jmylchreest/ragdown/internal/logger"
)

// CacheKey returns the cache key for a document and option set, e.g.
// "markdown_42_101" for metadata on, images off, links on.
func CacheKey(id int64, opts Options) string {
	return fmt.Sprintf("markdown_%d_%d%d%d", id,
		boolDigit(opts.IncludeMetadata), boolDigit(opts.IncludeImages), boolDigit(opts.PreserveLinks))
}

// CacheKeys returns every Markdown cache key a document can have.
func CacheKeys(id int64) []string {
	keys := make([]string, 0, 8)
	for _, m := range []bool{false, true} {
		for _, i := range []bool{false, true} {
			for _, l := range []bool{false, true} {
				keys = append(keys, CacheKey(id, Options{IncludeMetadata: m, IncludeImages: i, PreserveLinks: l}))
			}
		}
	}
	return keys
}

// CacheKeyPrefix is the prefix shared by all of a document's Markdown keys.
func CacheKeyPrefix(id int64) string {
	return fmt.Sprintf("markdown_%d_", id)
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CachedMarkdown returns cached Markdown or converts and caches it. Only
// successful conversions are stored; cache faults fall back to converting.
func (p *Processor) CachedMarkdown(ctx context.Context, id int64, opts Options) (string, error) {
	key := CacheKey(id, opts)

	val, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("markdown cache read failed", "key", key, "error", err)
	case ok:
		logger.Debug("markdown cache hit", "key", key)
		return string(val), nil
	default:
		logger.Debug("markdown cache miss", "key", key)
	}

	markdown, err := p.ConvertToMarkdown(ctx, id, opts)
	if err != nil {
		return "", err
	}

	if err := p.cache.Set(ctx, key, []byte(markdown), p.config.CacheTTL); err != nil {
		logger.Warn("markdown cache write failed", "key", key, "error", err)
	}
	return markdown, nil
}

// InvalidateMarkdown drops every cached Markdown variant of a document.
func (p *Processor) InvalidateMarkdown(ctx context.Context, id int64) error {
	for _, key := range CacheKeys(id) {
		if err := p.cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
