package cleaner

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/ragdown/internal/logger"
)

// transformDOM parses html with the forgiving HTML5 parser, lets fn mutate the
// tree and renders the body back out. Parse or render failures return the
// input untouched with a warning; empty input is returned as-is.
func transformDOM(stage, html string, fn func(doc *goquery.Document, stats *Stats)) *Result {
	start := time.Now()
	result := &Result{Content: html, Stats: NewStats()}
	result.Stats.InputBytes = len(html)
	result.Stats.OutputBytes = len(html)

	if strings.TrimSpace(html) == "" {
		return result
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		result.AddWarning(stage, "HTML parse failed, returning original", err.Error())
		logger.Warn("cleaner parse failed", "stage", stage, "error", err)
		return result
	}

	fn(doc, result.Stats)

	out, err := renderBody(doc)
	if err != nil {
		result.AddWarning(stage, "HTML render failed, returning original", err.Error())
		logger.Warn("cleaner render failed", "stage", stage, "error", err)
		return result
	}

	result.Content = out
	result.Stats.OutputBytes = len(out)
	result.Stats.Duration = time.Since(start)
	return result
}

// renderBody returns the inner HTML of <body>, skipping the wrapper the parser adds.
func renderBody(doc *goquery.Document) (string, error) {
	html, err := doc.Find("body").Html()
	if err != nil {
		return doc.Html()
	}
	return html, nil
}
