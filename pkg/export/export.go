// Package export renders chunk lists in formats consumed by RAG frameworks.
//
// Formatting never fails: empty chunk lists produce valid, empty documents,
// and a universal export for a document that cannot be loaded carries an
// error field instead of chunks.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/version"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/document"
)

// FormatVersion is the version of the universal export layout.
const FormatVersion = "1.0"

// Format names an export layout.
type Format string

// Supported formats.
const (
	Universal  Format = "universal"
	LangChain  Format = "langchain"
	LlamaIndex Format = "llamaindex"
)

// Formats lists every format in a stable order.
var Formats = []Format{Universal, LangChain, LlamaIndex}

// ParseFormat maps a name to a format. Unknown names select Universal.
func ParseFormat(name string) Format {
	for _, f := range Formats {
		if string(f) == name {
			return f
		}
	}
	return Universal
}

// Formatter renders chunk lists. The zero value is usable: it has no store,
// so universal exports report the document as missing.
type Formatter struct {
	// Store resolves source documents for universal exports.
	Store document.Store

	// Clock stamps exports. Nil uses time.Now.
	Clock func() time.Time

	// PluginVersion defaults to the build version.
	PluginVersion string

	// PlatformVersion identifies the content platform, if known.
	PlatformVersion string
}

func (f *Formatter) now() time.Time {
	if f.Clock != nil {
		return f.Clock()
	}
	return time.Now()
}

func (f *Formatter) pluginVersion() string {
	if f.PluginVersion != "" {
		return f.PluginVersion
	}
	return version.String()
}

// ExportMetadata describes a framework export.
type ExportMetadata struct {
	ExportedAt     string `json:"exported_at" yaml:"exported_at"`
	PluginVersion  string `json:"plugin_version" yaml:"plugin_version"`
	TotalDocuments int    `json:"total_documents" yaml:"total_documents"`
	Format         Format `json:"format" yaml:"format"`
}

func (f *Formatter) exportMetadata(total int, format Format) ExportMetadata {
	return ExportMetadata{
		ExportedAt:     f.now().Format(document.DateLayout),
		PluginVersion:  f.pluginVersion(),
		TotalDocuments: total,
		Format:         format,
	}
}

// LangChainDocument mirrors a LangChain Document.
type LangChainDocument struct {
	PageContent string                `json:"page_content" yaml:"page_content"`
	Metadata    chunker.ChunkMetadata `json:"metadata" yaml:"metadata"`
}

// LangChainExport is the LangChain layout.
type LangChainExport struct {
	Documents      []LangChainDocument `json:"documents" yaml:"documents"`
	ExportMetadata ExportMetadata      `json:"export_metadata" yaml:"export_metadata"`
}

// LangChain renders chunks as LangChain documents.
func (f *Formatter) LangChain(chunks []chunker.Chunk) *LangChainExport {
	docs := make([]LangChainDocument, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, LangChainDocument{PageContent: c.Content, Metadata: c.Metadata})
	}
	return &LangChainExport{
		Documents:      docs,
		ExportMetadata: f.exportMetadata(len(docs), LangChain),
	}
}

// LlamaIndexDocument mirrors a LlamaIndex Document. Embedding is always null.
type LlamaIndexDocument struct {
	Text      string                `json:"text" yaml:"text"`
	Metadata  chunker.ChunkMetadata `json:"metadata" yaml:"metadata"`
	ID        string                `json:"id" yaml:"id"`
	Embedding []float64             `json:"embedding" yaml:"embedding"`
}

// LlamaIndexExport is the LlamaIndex layout.
type LlamaIndexExport struct {
	Documents      []LlamaIndexDocument `json:"documents" yaml:"documents"`
	ExportMetadata ExportMetadata       `json:"export_metadata" yaml:"export_metadata"`
}

// DocumentID returns the LlamaIndex id of a chunk.
func DocumentID(c chunker.Chunk) string {
	return fmt.Sprintf("post_%d_chunk_%d", c.Metadata.PostID, c.ChunkIndex)
}

// LlamaIndex renders chunks as LlamaIndex documents.
func (f *Formatter) LlamaIndex(chunks []chunker.Chunk) *LlamaIndexExport {
	docs := make([]LlamaIndexDocument, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, LlamaIndexDocument{
			Text:     c.Content,
			Metadata: c.Metadata,
			ID:       DocumentID(c),
		})
	}
	return &LlamaIndexExport{
		Documents:      docs,
		ExportMetadata: f.exportMetadata(len(docs), LlamaIndex),
	}
}

// ExportInfo describes a universal export.
type ExportInfo struct {
	ExportedAt      string `json:"exported_at" yaml:"exported_at"`
	PluginVersion   string `json:"plugin_version" yaml:"plugin_version"`
	PlatformVersion string `json:"platform_version" yaml:"platform_version"`
	Format          Format `json:"format" yaml:"format"`
}

// SourceDocument summarises the exported document.
type SourceDocument struct {
	ID          int64  `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title" yaml:"title"`
	TotalChunks int    `json:"total_chunks" yaml:"total_chunks"`
	Date        string `json:"date" yaml:"date"`
	Modified    string `json:"modified" yaml:"modified"`
}

// UniversalExport is the framework-neutral layout. When Error is set the
// document could not be loaded and only FormatVersion accompanies it.
type UniversalExport struct {
	FormatVersion  string          `json:"format_version" yaml:"format_version"`
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
	ExportInfo     *ExportInfo     `json:"export_info,omitempty" yaml:"export_info,omitempty"`
	SourceDocument *SourceDocument `json:"source_document,omitempty" yaml:"source_document,omitempty"`
	Chunks         []chunker.Chunk `json:"chunks" yaml:"chunks"`
}

// MarshalJSON drops the chunks key from error payloads.
func (u UniversalExport) MarshalJSON() ([]byte, error) {
	if u.Error != "" {
		return json.Marshal(struct {
			FormatVersion string `json:"format_version"`
			Error         string `json:"error"`
		}{u.FormatVersion, u.Error})
	}
	type plain UniversalExport
	return json.Marshal(plain(u))
}

// ErrDocumentMissing is the error text of a universal export whose document
// cannot be loaded.
const ErrDocumentMissing = "Post not found"

// Universal renders chunks with the source document's details. The document
// is looked up regardless of its status.
func (f *Formatter) Universal(ctx context.Context, chunks []chunker.Chunk, id int64) *UniversalExport {
	doc, err := f.lookup(ctx, id)
	if err != nil {
		logger.Debug("universal export without document", "id", id, "error", err)
		return &UniversalExport{FormatVersion: FormatVersion, Error: ErrDocumentMissing}
	}

	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	return &UniversalExport{
		FormatVersion: FormatVersion,
		ExportInfo: &ExportInfo{
			ExportedAt:      f.now().Format(time.RFC3339),
			PluginVersion:   f.pluginVersion(),
			PlatformVersion: f.PlatformVersion,
			Format:          Universal,
		},
		SourceDocument: &SourceDocument{
			ID:          id,
			Type:        doc.SourceType(),
			URL:         doc.Permalink,
			Title:       doc.Title,
			TotalChunks: len(chunks),
			Date:        formatTime(doc.CreatedAt),
			Modified:    formatTime(doc.ModifiedAt),
		},
		Chunks: chunks,
	}
}

func (f *Formatter) lookup(ctx context.Context, id int64) (*document.Document, error) {
	if f.Store == nil {
		return nil, document.ErrNotFound
	}
	if err := document.ValidateID(id); err != nil {
		return nil, err
	}
	return f.Store.Get(ctx, id)
}

// Format renders chunks in the named format. Unknown names select Universal.
func (f *Formatter) Format(ctx context.Context, name string, chunks []chunker.Chunk, id int64) any {
	switch ParseFormat(name) {
	case LangChain:
		return f.LangChain(chunks)
	case LlamaIndex:
		return f.LlamaIndex(chunks)
	default:
		return f.Universal(ctx, chunks, id)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(document.DateLayout)
}
