// Package chunker splits processed Markdown into retrieval-sized chunks.
//
// Three strategies are available: hierarchical (one chunk per heading
// section), fixed (sentence-packed chunks with overlap) and semantic
// (paragraph-packed chunks). Splitting is deterministic: the same Markdown,
// strategy and options always produce byte-identical chunk lists.
package chunker

import (
	"time"

	"github.com/jmylchreest/ragdown/pkg/document"
)

// Chunk is one slice of a document's Markdown.
type Chunk struct {
	Content     string        `json:"content" yaml:"content"`
	Metadata    ChunkMetadata `json:"metadata" yaml:"metadata"`
	ChunkIndex  int           `json:"chunk_index" yaml:"chunk_index"`
	TotalChunks int           `json:"total_chunks" yaml:"total_chunks"`
}

// ChunkMetadata describes a chunk and the document it came from.
type ChunkMetadata struct {
	PostID      int64    `json:"post_id" yaml:"post_id"`
	ChunkIndex  int      `json:"chunk_index" yaml:"chunk_index"`
	TotalChunks int      `json:"total_chunks" yaml:"total_chunks"`
	SourceType  string   `json:"source_type" yaml:"source_type"`
	Title       string   `json:"title" yaml:"title"`
	URL         string   `json:"url" yaml:"url"`
	Date        string   `json:"date" yaml:"date"`
	Modified    string   `json:"modified" yaml:"modified"`
	Author      string   `json:"author" yaml:"author"`
	Categories  []string `json:"categories" yaml:"categories"`
	Tags        []string `json:"tags" yaml:"tags"`

	// Set by the hierarchical strategy only.
	SectionTitle *string `json:"section_title,omitempty" yaml:"section_title,omitempty"`
	HeadingLevel *int    `json:"heading_level,omitempty" yaml:"heading_level,omitempty"`

	TokenCount       int    `json:"token_count" yaml:"token_count"`
	CharCount        int    `json:"char_count" yaml:"char_count"`
	ChunkingStrategy string `json:"chunking_strategy" yaml:"chunking_strategy"`

	// Set by the fixed strategy only.
	OverlapTokens *int `json:"overlap_tokens,omitempty" yaml:"overlap_tokens,omitempty"`
	TargetSize    *int `json:"target_size,omitempty" yaml:"target_size,omitempty"`
}

// BaseMetadata builds the document-level fields shared by every chunk.
func BaseMetadata(doc *document.Document) ChunkMetadata {
	return ChunkMetadata{
		PostID:     doc.ID,
		SourceType: doc.SourceType(),
		Title:      doc.Title,
		URL:        doc.Permalink,
		Date:       formatTime(doc.CreatedAt),
		Modified:   formatTime(doc.ModifiedAt),
		Author:     doc.Author,
		Categories: cloneStrings(doc.Categories),
		Tags:       cloneStrings(doc.Tags),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(document.DateLayout)
}

func cloneStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

// clone returns a copy of m whose slices are not shared with m.
func (m ChunkMetadata) clone() ChunkMetadata {
	m.Categories = cloneStrings(m.Categories)
	m.Tags = cloneStrings(m.Tags)
	return m
}
