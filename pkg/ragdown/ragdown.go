package ragdown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/version"
	"github.com/jmylchreest/ragdown/pkg/cache"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/document"
	"github.com/jmylchreest/ragdown/pkg/export"
	"github.com/jmylchreest/ragdown/pkg/processor"
)

// ErrNoStore is returned by New when no document store was configured.
var ErrNoStore = errors.New("no document store configured")

// Service converts and chunks documents from a single store, caching results.
type Service struct {
	store     document.Store
	cache     cache.Cache
	processor *processor.Processor
	engine    *chunker.Engine
	formatter *export.Formatter
	config    Config
}

// New creates a Service. A store is required; the cache defaults to an
// in-memory LRU.
func New(opts ...Option) (*Service, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Store == nil {
		return nil, ErrNoStore
	}
	if cfg.Cache == nil {
		mem, err := cache.NewMemory(cache.DefaultMemorySize)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
		cfg.Cache = mem
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	defaults, err := cfg.ChunkDefaults.Normalize()
	if err != nil {
		return nil, err
	}
	cfg.ChunkDefaults = defaults

	p := processor.New(cfg.Store, cfg.Cache, processor.Config{
		BaseURL:   cfg.BaseURL,
		Chrome:    cfg.Chrome,
		Converter: cfg.Converter,
		CacheTTL:  cfg.CacheTTL,
	})

	return &Service{
		store:     cfg.Store,
		cache:     cfg.Cache,
		processor: p,
		engine: chunker.NewEngine(p, cfg.Cache, chunker.Config{
			Defaults: cfg.ChunkDefaults,
			CacheTTL: cfg.CacheTTL,
		}),
		formatter: &export.Formatter{
			Store:           cfg.Store,
			Clock:           cfg.Clock,
			PluginVersion:   version.String(),
			PlatformVersion: cfg.PlatformVersion,
		},
		config: cfg,
	}, nil
}

// Store returns the document store.
func (s *Service) Store() document.Store {
	return s.store
}

// ChunkDefaults returns the chunk sizes used for zero options.
func (s *Service) ChunkDefaults() chunker.Options {
	return s.config.ChunkDefaults
}

// Markdown returns the cached or freshly converted Markdown of a document.
func (s *Service) Markdown(ctx context.Context, id int64, opts processor.Options) (string, error) {
	return s.processor.CachedMarkdown(ctx, id, opts)
}

// Process converts a document with default options.
func (s *Service) Process(ctx context.Context, id int64) (*processor.Result, error) {
	return s.processor.Process(ctx, id)
}

// Chunks returns the cached or freshly built chunk list of a document.
func (s *Service) Chunks(ctx context.Context, id int64, strategy chunker.Strategy, opts chunker.Options) ([]chunker.Chunk, error) {
	return s.engine.CachedChunks(ctx, id, strategy, opts)
}

// Export chunks a document and renders the chunks in the named format.
// Unknown format names select the universal layout.
func (s *Service) Export(ctx context.Context, id int64, strategy chunker.Strategy, opts chunker.Options, format string) (any, error) {
	chunks, err := s.Chunks(ctx, id, strategy, opts)
	if err != nil {
		return nil, err
	}
	return s.formatter.Format(ctx, format, chunks, id), nil
}

// ChunkStats reports per-strategy chunk sizes for a document.
func (s *Service) ChunkStats(ctx context.Context, id int64, opts chunker.Options) (map[chunker.Strategy]chunker.StrategyStats, error) {
	return s.engine.Stats(ctx, id, opts)
}

// Invalidate drops every cached entry of a document.
func (s *Service) Invalidate(ctx context.Context, id int64) error {
	if err := document.ValidateID(id); err != nil {
		return err
	}
	if err := s.processor.InvalidateMarkdown(ctx, id); err != nil {
		return err
	}
	if err := s.engine.InvalidateChunks(ctx, id); err != nil {
		return err
	}

	// Chunk lists cached under non-default sizes are only reachable by prefix.
	if pd, ok := s.cache.(cache.PrefixDeleter); ok {
		n, err := pd.DeletePrefix(ctx, chunker.CacheKeyPrefix(id))
		if err != nil {
			return fmt.Errorf("delete chunk entries: %w", err)
		}
		logger.Debug("cache invalidated", "id", id, "extra_chunk_entries", n)
	}
	return nil
}
