package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/jmylchreest/ragdown/internal/logger"
)

// FileExtensions are tried in order when resolving an id to a file.
var FileExtensions = []string{".html", ".htm", ".md"}

// FileStore reads documents from a directory. Each document lives in a file
// named after its id ("42.html") with an optional YAML frontmatter header:
//
//	---
//	title: "Hello"
//	status: publish
//	date: "2024-01-15 10:00:00"
//	categories: [News]
//	---
//	<!-- wp:paragraph --><p>Body</p><!-- /wp:paragraph -->
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id int64) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	for _, ext := range FileExtensions {
		path := filepath.Join(s.dir, strconv.FormatInt(id, 10)+ext)
		source, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		logger.Debug("document loaded from file", "id", id, "path", path)
		doc, err := ParseFile(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		doc.ID = id
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %d in %s", ErrNotFound, id, s.dir)
}

// IDs lists the ids of every document file in the directory, ascending.
func (s *FileStore) IDs() ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !hasExtension(ext) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(e.Name(), ext), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func hasExtension(ext string) bool {
	for _, want := range FileExtensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

type fileFrontMatter struct {
	ID         int64    `yaml:"id"`
	Type       string   `yaml:"type"`
	Status     string   `yaml:"status"`
	Title      string   `yaml:"title"`
	Author     string   `yaml:"author"`
	Date       string   `yaml:"date"`
	Modified   string   `yaml:"modified"`
	URL        string   `yaml:"url"`
	Excerpt    string   `yaml:"excerpt"`
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
}

var dateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseFile builds a document from a file body with optional frontmatter.
// Missing status defaults to published; missing modified defaults to date.
func ParseFile(source []byte) (*Document, error) {
	var meta fileFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	created, err := parseDate(meta.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	modified, err := parseDate(meta.Modified)
	if err != nil {
		return nil, fmt.Errorf("modified: %w", err)
	}
	if modified.IsZero() {
		modified = created
	}

	status := meta.Status
	if status == "" {
		status = StatusPublish
	}

	return &Document{
		ID:         meta.ID,
		Type:       meta.Type,
		Status:     status,
		Title:      meta.Title,
		Author:     meta.Author,
		Content:    string(body),
		Excerpt:    meta.Excerpt,
		Permalink:  meta.URL,
		Categories: nonNil(meta.Categories),
		Tags:       nonNil(meta.Tags),
		CreatedAt:  created,
		ModifiedAt: modified,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
