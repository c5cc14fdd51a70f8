// Package mcptools exposes a ragdown.Service as Model Context Protocol tools.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/version"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/processor"
	"github.com/jmylchreest/ragdown/pkg/ragdown"
)

// ServerName identifies the MCP server to clients.
const ServerName = "ragdown"

// NewServer creates an MCP server with every tool registered.
func NewServer(svc *ragdown.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.String(),
	}, nil)
	Register(server, svc)
	return server
}

// Register adds the ragdown tools to server.
func Register(server *mcp.Server, svc *ragdown.Service) {
	h := &handlers{svc: svc}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "convert_to_markdown",
			Description: "Convert a published document to clean Markdown, optionally with YAML frontmatter.",
		},
		h.ConvertToMarkdown,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "create_chunks",
			Description: "Split a published document into retrieval chunks (hierarchical, fixed or semantic) and export them as universal, langchain or llamaindex JSON.",
		},
		h.CreateChunks,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "chunking_stats",
			Description: "Report chunk counts and min/max/average token sizes for every chunking strategy.",
		},
		h.ChunkingStats,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "invalidate_cache",
			Description: "Drop cached Markdown and chunks for a document.",
		},
		h.InvalidateCache,
	)

	logger.Debug("mcp tools registered", "count", 4)
}

type handlers struct {
	svc *ragdown.Service
}

// ConvertInput defines input for convert_to_markdown.
type ConvertInput struct {
	PostID          int64 `json:"post_id" jsonschema:"document id"`
	IncludeMetadata *bool `json:"include_metadata,omitempty" jsonschema:"prepend YAML frontmatter (default true)"`
	IncludeImages   *bool `json:"include_images,omitempty" jsonschema:"keep image references (default true)"`
	PreserveLinks   *bool `json:"preserve_links,omitempty" jsonschema:"absolutize relative links (default true)"`
}

// ConvertOutput defines output for convert_to_markdown.
type ConvertOutput struct {
	PostID   int64  `json:"post_id"`
	Markdown string `json:"markdown"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// ConvertToMarkdown handles convert_to_markdown.
func (h *handlers) ConvertToMarkdown(ctx context.Context, req *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
	opts := processor.Options{
		IncludeMetadata: boolOr(input.IncludeMetadata, true),
		IncludeImages:   boolOr(input.IncludeImages, true),
		PreserveLinks:   boolOr(input.PreserveLinks, true),
	}
	md, err := h.svc.Markdown(ctx, input.PostID, opts)
	if err != nil {
		return nil, ConvertOutput{}, fmt.Errorf("convert %d: %w", input.PostID, err)
	}
	return nil, ConvertOutput{PostID: input.PostID, Markdown: md}, nil
}

// ChunksInput defines input for create_chunks.
type ChunksInput struct {
	PostID    int64  `json:"post_id" jsonschema:"document id"`
	Strategy  string `json:"strategy,omitempty" jsonschema:"hierarchical, fixed or semantic (default hierarchical)"`
	Format    string `json:"format,omitempty" jsonschema:"universal, langchain or llamaindex (default universal)"`
	ChunkSize int    `json:"chunk_size,omitempty" jsonschema:"target chunk size in tokens, clamped to 128-2048"`
	Overlap   *int   `json:"overlap,omitempty" jsonschema:"fixed strategy overlap in tokens, clamped to 0-512"`
}

// ChunksOutput defines output for create_chunks.
type ChunksOutput struct {
	Export any `json:"export"`
}

// chunkOptions applies service defaults to unset fields, then clamps.
func (h *handlers) chunkOptions(size int, overlap *int) chunker.Options {
	opts := h.svc.ChunkDefaults()
	if size != 0 {
		opts.ChunkSize = size
	}
	if overlap != nil {
		opts.Overlap = *overlap
	}
	return ragdown.ClampOptions(opts)
}

// CreateChunks handles create_chunks.
func (h *handlers) CreateChunks(ctx context.Context, req *mcp.CallToolRequest, input ChunksInput) (*mcp.CallToolResult, ChunksOutput, error) {
	name := input.Strategy
	if name == "" {
		name = string(chunker.Hierarchical)
	}
	strategy, err := chunker.ParseStrategy(name)
	if err != nil {
		return nil, ChunksOutput{}, err
	}

	out, err := h.svc.Export(ctx, input.PostID, strategy, h.chunkOptions(input.ChunkSize, input.Overlap), input.Format)
	if err != nil {
		return nil, ChunksOutput{}, fmt.Errorf("chunk %d: %w", input.PostID, err)
	}
	return nil, ChunksOutput{Export: out}, nil
}

// StatsInput defines input for chunking_stats.
type StatsInput struct {
	PostID    int64 `json:"post_id" jsonschema:"document id"`
	ChunkSize int   `json:"chunk_size,omitempty" jsonschema:"target chunk size in tokens, clamped to 128-2048"`
	Overlap   *int  `json:"overlap,omitempty" jsonschema:"fixed strategy overlap in tokens, clamped to 0-512"`
}

// StatsOutput defines output for chunking_stats.
type StatsOutput struct {
	PostID     int64                                      `json:"post_id"`
	Strategies map[chunker.Strategy]chunker.StrategyStats `json:"strategies"`
}

// ChunkingStats handles chunking_stats.
func (h *handlers) ChunkingStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := h.svc.ChunkStats(ctx, input.PostID, h.chunkOptions(input.ChunkSize, input.Overlap))
	if err != nil {
		return nil, StatsOutput{}, fmt.Errorf("stats %d: %w", input.PostID, err)
	}
	return nil, StatsOutput{PostID: input.PostID, Strategies: stats}, nil
}

// InvalidateInput defines input for invalidate_cache.
type InvalidateInput struct {
	PostID int64 `json:"post_id" jsonschema:"document id"`
}

// InvalidateOutput defines output for invalidate_cache.
type InvalidateOutput struct {
	PostID  int64  `json:"post_id"`
	Message string `json:"message"`
}

// InvalidateCache handles invalidate_cache.
func (h *handlers) InvalidateCache(ctx context.Context, req *mcp.CallToolRequest, input InvalidateInput) (*mcp.CallToolResult, InvalidateOutput, error) {
	if err := h.svc.Invalidate(ctx, input.PostID); err != nil {
		return nil, InvalidateOutput{}, err
	}
	return nil, InvalidateOutput{
		PostID:  input.PostID,
		Message: fmt.Sprintf("Cache cleared for post %d", input.PostID),
	}, nil
}
