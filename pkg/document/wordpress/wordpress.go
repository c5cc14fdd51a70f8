// Package wordpress implements a document.Store backed by the WordPress REST API.
package wordpress

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/tidwall/gjson"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/version"
	"github.com/jmylchreest/ragdown/pkg/document"
)

// Config holds connection settings for a WordPress site.
type Config struct {
	// BaseURL is the site root, e.g. "https://example.com".
	BaseURL string

	// Endpoint is the REST collection: "posts" or "pages".
	Endpoint string

	// Username and Password authenticate with an application password.
	// When set, requests use context=edit so raw block markup is returned.
	Username string
	Password string

	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "posts",
		Timeout:   30 * time.Second,
		UserAgent: "ragdown/" + version.String(),
	}
}

// Store fetches posts over the REST API using Colly.
type Store struct {
	config Config
}

// New creates a store.
func New(cfg Config) *Store {
	defaults := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Store{config: cfg}
}

// URL returns the REST URL for a document.
func (s *Store) URL(id int64) string {
	u := fmt.Sprintf("%s/wp-json/wp/v2/%s/%d?_embed=1", s.config.BaseURL, s.config.Endpoint, id)
	if s.authenticated() {
		u += "&context=edit"
	}
	return u
}

func (s *Store) authenticated() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// Get implements document.Store. 404 maps to document.ErrNotFound and
// 401/403 to document.ErrNotAccessible.
func (s *Store) Get(ctx context.Context, id int64) (*document.Document, error) {
	if err := document.ValidateID(id); err != nil {
		return nil, err
	}

	target := s.URL(id)
	logger.Debug("wordpress fetch starting", "url", target)

	// Create a new collector for each request
	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		if s.authenticated() {
			creds := base64.StdEncoding.EncodeToString([]byte(s.config.Username + ":" + s.config.Password))
			r.Headers.Set("Authorization", "Basic "+creds)
		}
	})

	var (
		body     []byte
		status   int
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
		logger.Debug("wordpress fetch response received",
			"status", r.StatusCode,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
		logger.Debug("wordpress fetch error", "status", status, "error", err)
	})

	visitErr := c.Visit(target)

	switch status {
	case http.StatusNotFound, http.StatusGone:
		return nil, fmt.Errorf("%w: %d", document.ErrNotFound, id)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %d (HTTP %d)", document.ErrNotAccessible, id, status)
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, fetchErr)
	}
	if visitErr != nil {
		return nil, fmt.Errorf("failed to visit URL: %w", visitErr)
	}

	doc, err := ParsePost(body)
	if err != nil {
		return nil, err
	}
	if doc.Permalink == "" {
		doc.Permalink = fmt.Sprintf("%s/?p=%d", s.config.BaseURL, id)
	}

	logger.Debug("wordpress fetch complete",
		"id", doc.ID,
		"status", doc.Status,
		"content_size", len(doc.Content))
	return doc, nil
}

// wpDateLayout is the REST API's site-local timestamp layout.
const wpDateLayout = "2006-01-02T15:04:05"

// ParsePost decodes a single REST API post object. Embedded author and
// taxonomy terms are used when the response was requested with _embed.
func ParsePost(body []byte) (*document.Document, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response (%d bytes)", len(body))
	}
	post := gjson.ParseBytes(body)
	if !post.Get("id").Exists() {
		return nil, fmt.Errorf("response has no post id")
	}

	content := post.Get("content.raw").String()
	if content == "" {
		content = post.Get("content.rendered").String()
	}

	doc := &document.Document{
		ID:         post.Get("id").Int(),
		Type:       post.Get("type").String(),
		Status:     post.Get("status").String(),
		Title:      htmlText(post.Get("title.rendered").String()),
		Author:     post.Get("_embedded.author.0.name").String(),
		Content:    content,
		Excerpt:    htmlText(post.Get("excerpt.rendered").String()),
		Permalink:  post.Get("link").String(),
		Categories: []string{},
		Tags:       []string{},
		CreatedAt:  parseDate(post.Get("date").String()),
		ModifiedAt: parseDate(post.Get("modified").String()),
	}

	post.Get("_embedded.wp:term").ForEach(func(_, group gjson.Result) bool {
		group.ForEach(func(_, term gjson.Result) bool {
			name := htmlText(term.Get("name").String())
			switch term.Get("taxonomy").String() {
			case "category":
				doc.Categories = append(doc.Categories, name)
			case "post_tag":
				doc.Tags = append(doc.Tags, name)
			}
			return true
		})
		return true
	})

	return doc, nil
}

func parseDate(s string) time.Time {
	t, err := time.Parse(wpDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// htmlText returns the text content of an HTML fragment with entities decoded.
func htmlText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
