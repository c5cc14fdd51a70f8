// Package processor turns a stored document into Markdown: it flattens block
// markup, runs the cleaning pipeline and optionally prepends frontmatter.
package processor

import (
	"context"
	"fmt"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/cache"
	"github.com/jmylchreest/ragdown/pkg/cleaner"
	"github.com/jmylchreest/ragdown/pkg/document"
)

// DefaultCacheTTL is how long converted Markdown stays cached.
const DefaultCacheTTL = time.Hour

// Options controls a single conversion.
type Options struct {
	IncludeMetadata bool `json:"include_metadata" yaml:"include_metadata"`
	IncludeImages   bool `json:"include_images" yaml:"include_images"`
	PreserveLinks   bool `json:"preserve_links" yaml:"preserve_links"`
}

// DefaultOptions enables every option.
func DefaultOptions() Options {
	return Options{IncludeMetadata: true, IncludeImages: true, PreserveLinks: true}
}

// Config holds processor-wide settings.
type Config struct {
	// BaseURL absolutizes relative links. Empty derives it from each
	// document's permalink.
	BaseURL string

	// SkipBlocks are block kinds dropped during flattening, at any depth.
	// Nil uses DefaultSkipBlocks.
	SkipBlocks []string

	// Chrome overrides the structural chrome markers.
	Chrome cleaner.ChromeConfig

	// Converter replaces the regex HTML to Markdown converter.
	Converter cleaner.Cleaner

	// CacheTTL is the lifetime of cached Markdown. Zero uses DefaultCacheTTL.
	CacheTTL time.Duration
}

// Processor converts documents to Markdown.
type Processor struct {
	store  document.Store
	cache  cache.Cache
	config Config
	skip   map[string]bool
}

// New creates a processor. A nil cache disables caching.
func New(store document.Store, c cache.Cache, cfg Config) *Processor {
	if c == nil {
		c = cache.NewNoop()
	}
	if cfg.SkipBlocks == nil {
		cfg.SkipBlocks = DefaultSkipBlocks
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	skip := make(map[string]bool, len(cfg.SkipBlocks))
	for _, name := range cfg.SkipBlocks {
		skip[name] = true
	}
	return &Processor{store: store, cache: c, config: cfg, skip: skip}
}

// Store returns the document store the processor reads from.
func (p *Processor) Store() document.Store {
	return p.store
}

// ConvertToMarkdown fetches a published document and converts it.
func (p *Processor) ConvertToMarkdown(ctx context.Context, id int64, opts Options) (string, error) {
	doc, err := document.GetPublished(ctx, p.store, id)
	if err != nil {
		return "", err
	}
	return p.Convert(doc, opts)
}

// Convert converts an already-fetched document. Panics raised while
// flattening or cleaning are returned as a *ProcessingError.
func (p *Processor) Convert(doc *document.Document, opts Options) (markdown string, err error) {
	stage := "extract"
	defer func() {
		if r := recover(); r != nil {
			logger.Error("processing panic recovered",
				"id", doc.ID,
				"stage", stage,
				"panic", r,
				"stack", string(debug.Stack()))
			err = &ProcessingError{DocumentID: doc.ID, Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	start := time.Now()
	html := p.extractHTML(doc)

	stage = "clean"
	pipeline := cleaner.NewPipeline(cleaner.PipelineConfig{
		BaseURL:       p.baseURL(doc),
		PreserveLinks: opts.PreserveLinks,
		IncludeImages: opts.IncludeImages,
		Chrome:        p.config.Chrome,
		Converter:     p.config.Converter,
	})
	markdown, err = pipeline.Clean(html)
	if err != nil {
		return "", &ProcessingError{DocumentID: doc.ID, Stage: stage, Err: err}
	}

	if opts.IncludeMetadata {
		stage = "frontmatter"
		markdown = Frontmatter(doc) + markdown
	}

	logger.Debug("document converted",
		"id", doc.ID,
		"html_bytes", len(html),
		"markdown_bytes", len(markdown),
		"duration", time.Since(start))
	return markdown, nil
}

// extractHTML returns the markup to clean: flattened blocks when the body is
// block-structured, the raw body otherwise.
func (p *Processor) extractHTML(doc *document.Document) string {
	blocks := doc.Blocks
	if blocks == nil && document.IsBlockMarkup(doc.Content) {
		blocks = document.ParseBlocks(doc.Content)
	}
	if blocks == nil {
		logger.Debug("classic content detected", "id", doc.ID)
		return doc.Content
	}
	logger.Debug("block content detected", "id", doc.ID, "blocks", len(blocks))
	return FlattenBlocks(blocks, p.skip)
}

func (p *Processor) baseURL(doc *document.Document) string {
	if p.config.BaseURL != "" {
		return p.config.BaseURL
	}
	u, err := url.Parse(doc.Permalink)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Result is the outcome of Process.
type Result struct {
	PostID    int64  `json:"post_id" yaml:"post_id"`
	Markdown  string `json:"markdown" yaml:"markdown"`
	Processed bool   `json:"processed" yaml:"processed"`
}

// Process converts a document with DefaultOptions.
func (p *Processor) Process(ctx context.Context, id int64) (*Result, error) {
	markdown, err := p.ConvertToMarkdown(ctx, id, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &Result{PostID: id, Markdown: markdown, Processed: true}, nil
}
