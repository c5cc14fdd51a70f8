package cleaner

import (
	"strings"
	"testing"
)

func TestChromeStripper_Clean(t *testing.T) {
	c := NewChromeStripper(ChromeConfig{})

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "tags",
			input:    `<header>Site</header><nav>Menu</nav><p>Body</p><aside>Related</aside><footer>Copyright</footer>`,
			contains: []string{"<p>Body</p>"},
			excludes: []string{"Site", "Menu", "Related", "Copyright"},
		},
		{
			name:     "class_tokens",
			input:    `<div class="sidebar-widget">W</div><div class="my-sidebar-thing">Keep</div><p>Body</p>`,
			contains: []string{"my-sidebar-thing", "Keep", "Body"},
			excludes: []string{"sidebar-widget", ">W<"},
		},
		{
			name:     "class_among_others",
			input:    `<ul class="primary menu large"><li>x</li></ul><div class="comments-area">c</div><p>Body</p>`,
			contains: []string{"Body"},
			excludes: []string{"primary", "comments-area"},
		},
		{
			name:     "ids",
			input:    `<div id="sidebar">S</div><div id="footer">F</div><div id="footer-2">Keep</div>`,
			contains: []string{"footer-2", "Keep"},
			excludes: []string{`id="sidebar"`, `id="footer"`},
		},
		{
			name:     "malformed",
			input:    `<div><p>Unclosed <nav>menu</div><p>Text`,
			contains: []string{"Unclosed", "Text"},
			excludes: []string{"menu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q: %s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("output contains %q: %s", unwanted, got)
				}
			}
		})
	}
}

func TestChromeStripper_EmptyInput(t *testing.T) {
	c := NewChromeStripper(DefaultChromeConfig())

	for _, input := range []string{"", "   \n"} {
		got, err := c.Clean(input)
		if err != nil {
			t.Fatalf("Clean(%q) error = %v", input, err)
		}
		if got != input {
			t.Errorf("Clean(%q) = %q, want input unchanged", input, got)
		}
	}
}

func TestChromeStripper_Stats(t *testing.T) {
	c := NewChromeStripper(DefaultChromeConfig())

	result := c.CleanWithStats(`<nav>a</nav><aside><div class="widget">b</div></aside><p>Body</p>`)

	if result.HasWarnings() {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if got := result.Stats.TotalElementsRemoved(); got != 2 {
		t.Errorf("TotalElementsRemoved() = %d, want 2", got)
	}
	if got := result.Stats.RuleMatches["tag:nav"]; got != 1 {
		t.Errorf("RuleMatches[tag:nav] = %d, want 1", got)
	}
	if got := result.Stats.RuleMatches["class:widget"]; got != 0 {
		t.Errorf("RuleMatches[class:widget] = %d, want 0 (inside removed aside)", got)
	}
	if result.Stats.OutputBytes >= result.Stats.InputBytes {
		t.Errorf("OutputBytes = %d, want less than InputBytes %d",
			result.Stats.OutputBytes, result.Stats.InputBytes)
	}
	if !strings.Contains(result.Stats.String(), "Elements removed: 2") {
		t.Errorf("String() = %q", result.Stats.String())
	}
}

func TestChromeStripper_CustomConfig(t *testing.T) {
	c := NewChromeStripper(ChromeConfig{Classes: []string{"ad"}})

	got, _ := c.Clean(`<nav>Menu</nav><div class="ad-slot">Buy</div>`)
	if !strings.Contains(got, "Menu") {
		t.Errorf("custom config should not remove nav: %s", got)
	}
	if strings.Contains(got, "Buy") {
		t.Errorf("custom class not removed: %s", got)
	}
}

func TestMatchClassToken(t *testing.T) {
	names := DefaultChromeConfig().Classes

	tests := []struct {
		class string
		want  bool
	}{
		{"sidebar", true},
		{"sidebar-widget", true},
		{"widget-area primary", true},
		{"my-sidebar-thing", false},
		{"menus", false},
		{"", false},
		{"content  navigation ", true},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			if _, got := matchClassToken(tt.class, names); got != tt.want {
				t.Errorf("matchClassToken(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}

func TestSemanticNormalizer(t *testing.T) {
	n := NewSemanticNormalizer()

	result := n.CleanWithStats(`<figure><img src="a.png"><figcaption>Cap</figcaption></figure><img src="b.png" alt="B">`)

	if got := strings.Count(result.Content, `alt=""`); got != 1 {
		t.Errorf("expected one empty alt, got %d in %s", got, result.Content)
	}
	if !strings.Contains(result.Content, `alt="B"`) {
		t.Errorf("existing alt changed: %s", result.Content)
	}
	if !strings.Contains(result.Content, "<figcaption>Cap</figcaption>") {
		t.Errorf("figure not preserved: %s", result.Content)
	}
	if result.Stats.AltAttributesAdded != 1 {
		t.Errorf("AltAttributesAdded = %d, want 1", result.Stats.AltAttributesAdded)
	}
}

func TestLinkAbsolutizer(t *testing.T) {
	l := NewLinkAbsolutizer("https://example.com")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"root_relative", `<a href="/x">l</a>`, `href="https://example.com/x"`},
		{"relative", `<a href="page">l</a>`, `href="https://example.com/page"`},
		{"anchor", `<a href="#top">l</a>`, `href="#top"`},
		{"absolute", `<a href="https://other.com/y">l</a>`, `href="https://other.com/y"`},
		{"script", `<a href="javascript:void(0)">l</a>`, `href="javascript:void(0)"`},
		{"mailto", `<a href="mailto:a@example.com">l</a>`, `href="mailto:a@example.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Clean(%s) = %s, want it to contain %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestLinkAbsolutizer_EmptyBase(t *testing.T) {
	input := `<a href="/x">l</a>`
	got, _ := NewLinkAbsolutizer("").Clean(input)
	if got != input {
		t.Errorf("Clean() = %q, want unchanged", got)
	}
}

func TestAbsolutizeURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://example.com", "/x", "https://example.com/x"},
		{"https://example.com/", "/x", "https://example.com/x"},
		{"https://example.com", "page", "https://example.com/page"},
		{"https://example.com/blog/", "page", "https://example.com/blog/page"},
		{"https://example.com", "//cdn.example.com/a.js", "//cdn.example.com/a.js"},
		{"https://example.com", "#top", "#top"},
		{"https://example.com", "tel:123", "tel:123"},
		{"https://example.com", "", ""},
		{"", "/x", "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"|"+tt.href, func(t *testing.T) {
			if got := AbsolutizeURL(tt.base, tt.href); got != tt.want {
				t.Errorf("AbsolutizeURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}
