package cleaner

import "github.com/PuerkitoBio/goquery"

// SemanticNormalizer gives every image an alt attribute, possibly empty, so the
// Markdown converter always has one to read. Figures, blockquotes and code
// blocks pass through untouched.
type SemanticNormalizer struct{}

// NewSemanticNormalizer creates a normalizer.
func NewSemanticNormalizer() *SemanticNormalizer {
	return &SemanticNormalizer{}
}

// Clean implements Cleaner.
func (n *SemanticNormalizer) Clean(content string) (string, error) {
	return n.CleanWithStats(content).Content, nil
}

// CleanWithStats normalizes images and reports how many were changed.
func (n *SemanticNormalizer) CleanWithStats(content string) *Result {
	return transformDOM(n.Name(), content, func(doc *goquery.Document, stats *Stats) {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if _, ok := s.Attr("alt"); !ok {
				s.SetAttr("alt", "")
				stats.AltAttributesAdded++
			}
		})
	})
}

// Name implements Cleaner.
func (n *SemanticNormalizer) Name() string {
	return "semantic"
}
