package chunker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/cache"
	"github.com/jmylchreest/ragdown/pkg/document"
	"github.com/jmylchreest/ragdown/pkg/processor"
)

// DefaultCacheTTL is how long chunk lists stay cached.
const DefaultCacheTTL = time.Hour

// markdownOptions are used for every chunked conversion: frontmatter never
// appears inside chunk content.
var markdownOptions = processor.Options{
	IncludeMetadata: false,
	IncludeImages:   true,
	PreserveLinks:   true,
}

// Config holds engine-wide settings.
type Config struct {
	// Defaults replaces DefaultOptions when callers pass zero options.
	Defaults Options

	// CacheTTL is the lifetime of cached chunk lists. Zero uses DefaultCacheTTL.
	CacheTTL time.Duration
}

// Engine produces chunk lists for stored documents.
type Engine struct {
	processor *processor.Processor
	cache     cache.Cache
	config    Config
}

// NewEngine creates an engine. A nil cache disables caching.
func NewEngine(p *processor.Processor, c cache.Cache, cfg Config) *Engine {
	if c == nil {
		c = cache.NewNoop()
	}
	if cfg.Defaults == (Options{}) {
		cfg.Defaults = DefaultOptions()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Engine{processor: p, cache: c, config: cfg}
}

// Defaults returns the options used when callers pass zero options.
func (e *Engine) Defaults() Options {
	return e.config.Defaults
}

func (e *Engine) resolve(opts Options) (Options, error) {
	if opts == (Options{}) {
		opts = e.config.Defaults
	}
	return opts.Normalize()
}

// CreateChunks converts a published document to Markdown and splits it.
func (e *Engine) CreateChunks(ctx context.Context, id int64, strategy Strategy, opts Options) ([]Chunk, error) {
	doc, err := document.GetPublished(ctx, e.processor.Store(), id)
	if err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	opts, err = e.resolve(opts)
	if err != nil {
		return nil, err
	}

	markdown, err := e.processor.Convert(doc, markdownOptions)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chunks, err := Split(markdown, strategy, opts, BaseMetadata(doc))
	if err != nil {
		return nil, err
	}

	logger.Debug("chunks created",
		"id", id,
		"strategy", strategy,
		"chunk_size", opts.ChunkSize,
		"overlap", opts.Overlap,
		"chunks", len(chunks),
		"duration", time.Since(start))
	return chunks, nil
}

// CacheKey returns the cache key for a chunk list.
func CacheKey(id int64, strategy Strategy, opts Options) string {
	return fmt.Sprintf("chunks_%d_%s_%d_%d", id, strategy, opts.ChunkSize, opts.Overlap)
}

// CacheKeyPrefix is the prefix shared by all of a document's chunk keys.
func CacheKeyPrefix(id int64) string {
	return fmt.Sprintf("chunks_%d_", id)
}

// CachedChunks returns a cached chunk list or creates and caches one. Errors
// are never cached; cache faults and undecodable entries fall back to
// creating the list.
func (e *Engine) CachedChunks(ctx context.Context, id int64, strategy Strategy, opts Options) ([]Chunk, error) {
	resolved, err := e.resolve(opts)
	if err != nil {
		return nil, err
	}
	key := CacheKey(id, strategy, resolved)

	if chunks, ok := e.readCache(ctx, key); ok {
		return chunks, nil
	}

	chunks, err := e.CreateChunks(ctx, id, strategy, resolved)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chunks)
	if err != nil {
		logger.Warn("chunk cache encode failed", "key", key, "error", err)
		return chunks, nil
	}
	if err := e.cache.Set(ctx, key, payload, e.config.CacheTTL); err != nil {
		logger.Warn("chunk cache write failed", "key", key, "error", err)
	}
	return chunks, nil
}

func (e *Engine) readCache(ctx context.Context, key string) ([]Chunk, bool) {
	val, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("chunk cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		logger.Debug("chunk cache miss", "key", key)
		return nil, false
	}

	var chunks []Chunk
	if err := json.Unmarshal(val, &chunks); err != nil {
		logger.Warn("chunk cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	logger.Debug("chunk cache hit", "key", key, "chunks", len(chunks))
	return finalize(chunks), true
}

// InvalidateChunks deletes the cached chunk lists of a document for every
// strategy, under the engine defaults and any extra option sets.
func (e *Engine) InvalidateChunks(ctx context.Context, id int64, extra ...Options) error {
	sets := append([]Options{e.config.Defaults}, extra...)
	for _, opts := range sets {
		opts, err := opts.Normalize()
		if err != nil {
			continue
		}
		for _, s := range Strategies {
			key := CacheKey(id, s, opts)
			if err := e.cache.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
	}
	return nil
}
