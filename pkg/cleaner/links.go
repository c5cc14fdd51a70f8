package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var schemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// LinkAbsolutizer rewrites relative anchor hrefs against a base URL.
type LinkAbsolutizer struct {
	baseURL string
}

// NewLinkAbsolutizer creates an absolutizer for baseURL. An empty base leaves
// links unchanged.
func NewLinkAbsolutizer(baseURL string) *LinkAbsolutizer {
	return &LinkAbsolutizer{baseURL: baseURL}
}

// Clean implements Cleaner.
func (l *LinkAbsolutizer) Clean(content string) (string, error) {
	return l.CleanWithStats(content).Content, nil
}

// CleanWithStats rewrites links and reports how many changed.
func (l *LinkAbsolutizer) CleanWithStats(content string) *Result {
	if l.baseURL == "" {
		r := &Result{Content: content, Stats: NewStats()}
		r.Stats.InputBytes = len(content)
		r.Stats.OutputBytes = len(content)
		return r
	}
	return transformDOM(l.Name(), content, func(doc *goquery.Document, stats *Stats) {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			abs := AbsolutizeURL(l.baseURL, href)
			if abs != href {
				s.SetAttr("href", abs)
				stats.LinksRewritten++
			}
		})
	})
}

// Name implements Cleaner.
func (l *LinkAbsolutizer) Name() string {
	return "links"
}

// AbsolutizeURL resolves href against base. Hrefs carrying a scheme
// (including javascript: and mailto:), in-page anchors, protocol-relative
// URLs and empty hrefs are returned unchanged. Root-relative paths are
// appended to the base directly; anything else is joined with one slash.
func AbsolutizeURL(base, href string) string {
	switch {
	case base == "", href == "":
		return href
	case strings.HasPrefix(href, "#"), strings.HasPrefix(href, "//"):
		return href
	case schemeRegex.MatchString(href):
		return href
	}

	base = strings.TrimRight(base, "/")
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + strings.TrimLeft(href, "/")
}
