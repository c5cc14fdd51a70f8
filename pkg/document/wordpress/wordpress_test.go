package wordpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/ragdown/pkg/document"
)

const postJSON = `{
  "id": 42,
  "date": "2024-01-15T10:00:00",
  "modified": "2024-02-01T08:30:00",
  "status": "publish",
  "type": "post",
  "link": "https://example.com/hello-world/",
  "title": {"rendered": "Hello &#8211; World"},
  "content": {"rendered": "<p>Rendered body</p>\n"},
  "excerpt": {"rendered": "<p>Short &amp; sweet</p>\n"},
  "author": 3,
  "_embedded": {
    "author": [{"id": 3, "name": "Jane Doe"}],
    "wp:term": [
      [{"id": 1, "name": "News", "taxonomy": "category"}],
      [{"id": 5, "name": "go", "taxonomy": "post_tag"}, {"id": 6, "name": "rag", "taxonomy": "post_tag"}]
    ]
  }
}`

func TestParsePost(t *testing.T) {
	doc, err := ParsePost([]byte(postJSON))
	if err != nil {
		t.Fatalf("ParsePost() error = %v", err)
	}

	if doc.ID != 42 {
		t.Errorf("ID = %d, want 42", doc.ID)
	}
	if doc.Title != "Hello – World" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Author != "Jane Doe" {
		t.Errorf("Author = %q", doc.Author)
	}
	if doc.Excerpt != "Short & sweet" {
		t.Errorf("Excerpt = %q", doc.Excerpt)
	}
	if !doc.IsPublished() {
		t.Errorf("Status = %q", doc.Status)
	}
	if doc.Content != "<p>Rendered body</p>\n" {
		t.Errorf("Content = %q", doc.Content)
	}
	if want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC); !doc.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", doc.CreatedAt, want)
	}
	if len(doc.Categories) != 1 || doc.Categories[0] != "News" {
		t.Errorf("Categories = %v", doc.Categories)
	}
	if strings.Join(doc.Tags, ",") != "go,rag" {
		t.Errorf("Tags = %v", doc.Tags)
	}
}

func TestParsePost_PrefersRawContent(t *testing.T) {
	body := `{"id": 1, "status": "publish", "content": {"raw": "<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->", "rendered": "<p>x</p>"}}`

	doc, err := ParsePost([]byte(body))
	if err != nil {
		t.Fatalf("ParsePost() error = %v", err)
	}
	if !document.IsBlockMarkup(doc.Content) {
		t.Errorf("Content = %q, want raw block markup", doc.Content)
	}
	if doc.Categories == nil || doc.Tags == nil {
		t.Error("expected non-nil taxonomy slices")
	}
}

func TestParsePost_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not_json", "<html>error</html>"},
		{"no_id", `{"status": "publish"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePost([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_Get(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(postJSON))
	}))
	defer server.Close()

	store := New(Config{BaseURL: server.URL + "/"})

	doc, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Title != "Hello – World" {
		t.Errorf("Title = %q", doc.Title)
	}
	if gotPath != "/wp-json/wp/v2/posts/42" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "_embed=1" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestStore_Get_Authenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "app-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("context") != "edit" {
			t.Errorf("context = %q, want edit", r.URL.Query().Get("context"))
		}
		_, _ = w.Write([]byte(`{"id": 7, "status": "publish", "content": {"raw": "<!-- wp:paragraph --><p>raw</p><!-- /wp:paragraph -->"}}`))
	}))
	defer server.Close()

	store := New(Config{BaseURL: server.URL, Endpoint: "pages", Username: "editor", Password: "app-pass"})

	doc, err := store.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !document.IsBlockMarkup(doc.Content) {
		t.Errorf("Content = %q", doc.Content)
	}
	if !strings.HasSuffix(doc.Permalink, "/?p=7") {
		t.Errorf("Permalink = %q, want fallback", doc.Permalink)
	}
}

func TestStore_Get_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not_found", http.StatusNotFound, document.ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, document.ErrNotAccessible},
		{"forbidden", http.StatusForbidden, document.ErrNotAccessible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":"rest_post_invalid_id"}`))
			}))
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL}).Get(context.Background(), 99)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_Get_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL}).Get(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, document.ErrNotFound) || errors.Is(err, document.ErrNotAccessible) {
		t.Errorf("server error mapped to lookup error: %v", err)
	}
}

func TestStore_Get_InvalidID(t *testing.T) {
	_, err := New(Config{BaseURL: "http://127.0.0.1:1"}).Get(context.Background(), 0)
	if !errors.Is(err, document.ErrInvalidID) {
		t.Errorf("error = %v, want ErrInvalidID", err)
	}
}

func TestStore_URL(t *testing.T) {
	got := New(Config{BaseURL: "https://example.com/", Endpoint: "pages"}).URL(5)
	if got != "https://example.com/wp-json/wp/v2/pages/5?_embed=1" {
		t.Errorf("URL() = %q", got)
	}
}
