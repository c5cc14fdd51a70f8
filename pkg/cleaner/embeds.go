package cleaner

import (
	"fmt"
	"regexp"
)

// DefaultEmbedMarkers are the wrapper classes platform embeds are rendered with.
var DefaultEmbedMarkers = EmbedMarkers{
	Div:    []string{"wp-embed"},
	Figure: []string{"wp-block-embed"},
}

// EmbedMarkers lists the marker substrings that identify embed wrappers.
type EmbedMarkers struct {
	// Div markers identify <div> wrappers.
	Div []string
	// Figure markers identify <figure> wrappers.
	Figure []string
}

// EmbedRemover strips embed wrapper blocks. Matching is textual and non-greedy,
// so a wrapper ends at the first closing tag of the same element.
type EmbedRemover struct {
	patterns []*regexp.Regexp
}

// NewEmbedRemover builds a remover for the given markers.
// A zero EmbedMarkers value uses DefaultEmbedMarkers.
func NewEmbedRemover(markers EmbedMarkers) *EmbedRemover {
	if len(markers.Div) == 0 && len(markers.Figure) == 0 {
		return &EmbedRemover{patterns: defaultEmbedPatterns}
	}
	return &EmbedRemover{patterns: compileEmbedPatterns(markers)}
}

var defaultEmbedPatterns = compileEmbedPatterns(DefaultEmbedMarkers)

func compileEmbedPatterns(markers EmbedMarkers) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, m := range markers.Div {
		patterns = append(patterns, embedPattern("div", m))
	}
	for _, m := range markers.Figure {
		patterns = append(patterns, embedPattern("figure", m))
	}
	return patterns
}

func embedPattern(tag, marker string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?s)<%s[^>]*%s[^>]*>.*?</%s>`,
		tag, regexp.QuoteMeta(marker), tag))
}

// Clean removes every embed wrapper.
func (r *EmbedRemover) Clean(content string) (string, error) {
	for _, p := range r.patterns {
		content = p.ReplaceAllString(content, "")
	}
	return content, nil
}

// Name returns the cleaner type.
func (r *EmbedRemover) Name() string {
	return "embeds"
}
