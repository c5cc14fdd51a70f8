package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ChromeConfig lists the markers that identify page chrome.
type ChromeConfig struct {
	// Tags are removed wherever they appear.
	Tags []string `yaml:"tags" json:"tags"`

	// Classes match a class token exactly, or as the leading segment of a
	// hyphenated token ("widget" matches "widget" and "widget-area" but not
	// "my-widget").
	Classes []string `yaml:"classes" json:"classes"`

	// IDs match the id attribute exactly.
	IDs []string `yaml:"ids" json:"ids"`
}

// DefaultChromeConfig returns the WordPress theme chrome markers.
func DefaultChromeConfig() ChromeConfig {
	return ChromeConfig{
		Tags:    []string{"nav", "aside", "footer", "header"},
		Classes: []string{"sidebar", "navigation", "menu", "comments", "widget"},
		IDs:     []string{"sidebar", "navigation", "footer"},
	}
}

// ChromeStripper removes navigation, sidebars, headers and footers.
type ChromeStripper struct {
	config ChromeConfig
}

// NewChromeStripper creates a stripper. A zero config uses DefaultChromeConfig.
func NewChromeStripper(cfg ChromeConfig) *ChromeStripper {
	if len(cfg.Tags) == 0 && len(cfg.Classes) == 0 && len(cfg.IDs) == 0 {
		cfg = DefaultChromeConfig()
	}
	return &ChromeStripper{config: cfg}
}

// Clean implements Cleaner.
func (c *ChromeStripper) Clean(content string) (string, error) {
	return c.CleanWithStats(content).Content, nil
}

// CleanWithStats removes chrome and reports what was removed.
func (c *ChromeStripper) CleanWithStats(content string) *Result {
	return transformDOM(c.Name(), content, func(doc *goquery.Document, stats *Stats) {
		for _, tag := range c.config.Tags {
			doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
				if !inDocument(s) {
					return
				}
				stats.RecordRemoval(goquery.NodeName(s), "tag:"+tag)
				s.Remove()
			})
		}

		doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
			if !inDocument(s) {
				return
			}
			class, _ := s.Attr("class")
			if name, ok := matchClassToken(class, c.config.Classes); ok {
				stats.RecordRemoval(goquery.NodeName(s), "class:"+name)
				s.Remove()
			}
		})

		doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
			if !inDocument(s) {
				return
			}
			id, _ := s.Attr("id")
			for _, want := range c.config.IDs {
				if id == want {
					stats.RecordRemoval(goquery.NodeName(s), "id:"+want)
					s.Remove()
					return
				}
			}
		})
	})
}

// Name implements Cleaner.
func (c *ChromeStripper) Name() string {
	return "chrome"
}

// matchClassToken reports which configured name, if any, matches a token of
// the class attribute.
func matchClassToken(class string, names []string) (string, bool) {
	for _, token := range strings.Fields(class) {
		for _, name := range names {
			if token == name || strings.HasPrefix(token, name+"-") {
				return name, true
			}
		}
	}
	return "", false
}

// inDocument reports whether the selection is still attached, so elements
// inside an already-removed ancestor are not counted twice.
func inDocument(s *goquery.Selection) bool {
	if len(s.Nodes) == 0 {
		return false
	}
	n := s.Nodes[0]
	for n.Parent != nil {
		n = n.Parent
	}
	return n.Type == html.DocumentNode
}
