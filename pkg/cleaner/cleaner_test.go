package cleaner

import (
	"errors"
	"strings"
	"testing"
)

// --- NoopCleaner Tests ---

func TestNoopCleaner_Clean(t *testing.T) {
	c := NewNoop()

	tests := []struct {
		name  string
		input string
	}{
		{"empty_string", ""},
		{"plain_text", "Hello, World!"},
		{"html_content", "<html><body><h1>Title</h1></body></html>"},
		{"whitespace", "  \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.input {
				t.Errorf("Clean() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNoopCleaner_Name(t *testing.T) {
	c := NewNoop()
	if got := c.Name(); got != "noop" {
		t.Errorf("Name() = %q, want %q", got, "noop")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_SkipsNil(t *testing.T) {
	var missing Cleaner
	c := NewChain(NewNoop(), missing)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestChainCleaner_Order(t *testing.T) {
	c := NewChain(
		NewFunc("upper", strings.ToUpper),
		NewFunc("suffix", func(s string) string { return s + "!" }),
	)

	got, err := c.Clean("hi")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "HI!" {
		t.Errorf("Clean() = %q, want %q", got, "HI!")
	}
}

func TestChainCleaner_MarkdownConversion(t *testing.T) {
	c := NewChain(NewShortcodeStripper(), NewRegexMarkdown())

	got, err := c.Clean(`<h1>Title</h1><p>[note]Content[/note]</p>`)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "# Title\nContent" {
		t.Errorf("Clean() = %q, want %q", got, "# Title\nContent")
	}
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(html string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorCleaner{}, NewRegexMarkdown())

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	if !strings.Contains(err.Error(), "error: test error") {
		t.Errorf("expected error naming the stage, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewNoop()}, "chain(noop)"},
		{"double", []Cleaner{NewNoop(), NewRegexMarkdown()}, "chain(noop->markdown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Option Tests ---

func TestWithStripImages(t *testing.T) {
	cfg := &markdownConfig{}
	WithStripImages(true)(cfg)

	if !cfg.stripImages {
		t.Error("WithStripImages(true) did not set stripImages")
	}

	WithStripImages(false)(cfg)
	if cfg.stripImages {
		t.Error("WithStripImages(false) did not unset stripImages")
	}
}

// --- Pipeline Tests ---

const pipelineInput = `<nav><a href="/">Home</a></nav>
<h2>Intro</h2>
<p>See [tag]this[/tag] <a href="/about">about</a>.</p>
<div class="wp-embed">embedded player</div>
<img src="/a.png">`

func TestNewPipeline(t *testing.T) {
	tests := []struct {
		name     string
		cfg      PipelineConfig
		contains []string
		excludes []string
	}{
		{
			name: "links_and_images",
			cfg:  PipelineConfig{BaseURL: "https://example.com", PreserveLinks: true, IncludeImages: true},
			contains: []string{
				"## Intro",
				"See this [about](https://example.com/about).",
				"![](/a.png)",
			},
			excludes: []string{"Home", "embedded player", "[tag]", "<"},
		},
		{
			name:     "without_link_rewriting",
			cfg:      PipelineConfig{BaseURL: "https://example.com", IncludeImages: true},
			contains: []string{"[about](/about)"},
			excludes: []string{"https://example.com"},
		},
		{
			name:     "without_images",
			cfg:      PipelineConfig{BaseURL: "https://example.com", PreserveLinks: true},
			contains: []string{"## Intro"},
			excludes: []string{"![", "a.png"},
		},
		{
			name:     "html_output",
			cfg:      PipelineConfig{Converter: NewNoop(), IncludeImages: true},
			contains: []string{"<h2>Intro</h2>", `alt=""`},
			excludes: []string{"<nav>", "wp-embed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPipeline(tt.cfg).Clean(pipelineInput)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestNewPipeline_StageOrder(t *testing.T) {
	got := NewPipeline(PipelineConfig{BaseURL: "https://example.com", PreserveLinks: true}).Name()
	want := "chain(shortcode->embeds->chrome->semantic->links->markdown)"
	if got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}
