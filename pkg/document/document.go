// Package document defines the source documents the pipeline reads and the
// stores they are fetched from.
package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Error types for distinguishing lookup failures.
// Check with errors.Is(err, document.ErrNotFound).
var (
	// ErrInvalidID indicates a non-positive or non-numeric document id.
	ErrInvalidID = errors.New("invalid document id")
	// ErrNotFound indicates the store has no document with the id.
	ErrNotFound = errors.New("document not found")
	// ErrNotAccessible indicates the document exists but is not publicly readable.
	ErrNotAccessible = errors.New("document not published or not accessible")
)

// Status values. Only StatusPublish is readable by the pipeline.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPrivate = "private"
	StatusFuture  = "future"
)

// DateLayout is the timestamp layout used in frontmatter and chunk metadata.
const DateLayout = "2006-01-02 15:04:05"

// Document is a single piece of CMS content.
type Document struct {
	ID     int64  `json:"id" yaml:"id"`
	Type   string `json:"type" yaml:"type"`
	Status string `json:"status" yaml:"status"`
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`

	// Content is the raw body: block-comment markup or rendered HTML.
	Content string `json:"content" yaml:"content"`

	// Blocks is the parsed block tree, when the store already has one.
	// Nil means the processor decides from Content.
	Blocks []Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`

	Excerpt    string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Permalink  string    `json:"permalink" yaml:"permalink"`
	Categories []string  `json:"categories" yaml:"categories"`
	Tags       []string  `json:"tags" yaml:"tags"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
}

// IsPublished reports whether the document is publicly readable.
func (d *Document) IsPublished() bool {
	return d.Status == StatusPublish
}

// SourceType returns the content type, defaulting to "post".
func (d *Document) SourceType() string {
	if d.Type == "" {
		return "post"
	}
	return d.Type
}

// Store fetches documents by id.
type Store interface {
	// Get returns the document or an error wrapping ErrNotFound.
	Get(ctx context.Context, id int64) (*Document, error)
}

// ValidateID rejects non-positive ids.
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// ParseID parses a user-supplied id string.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetPublished fetches a document and checks it is readable. A missing
// document matches both ErrNotFound and ErrNotAccessible.
func GetPublished(ctx context.Context, store Store, id int64) (*Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	doc, err := store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotAccessible) {
		return nil, fmt.Errorf("%w: %w", ErrNotAccessible, err)
	}
	if err != nil {
		return nil, err
	}
	if !doc.IsPublished() {
		return nil, fmt.Errorf("%w: %d has status %q", ErrNotAccessible, id, doc.Status)
	}
	return doc, nil
}
