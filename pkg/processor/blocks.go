package processor

import (
	"strings"

	"github.com/jmylchreest/ragdown/pkg/document"
)

// DefaultSkipBlocks are navigational, social and widget blocks.
var DefaultSkipBlocks = []string{
	"core/navigation",
	"core/social-links",
	"core/widget-area",
	"core/widget-group",
	"core/legacy-widget",
}

// FlattenBlocks concatenates block markup depth-first. Top-level blocks are
// separated by a blank line and inner blocks by a newline. Freeform
// (nameless) blocks and blocks in skip are dropped with their children.
func FlattenBlocks(blocks []document.Block, skip map[string]bool) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if html := flattenBlock(b, skip); html != "" {
			parts = append(parts, html)
		}
	}
	return strings.Join(parts, "\n\n")
}

func flattenBlock(b document.Block, skip map[string]bool) string {
	if b.Name == "" || skip[b.Name] {
		return ""
	}

	html := b.InnerHTML
	if len(b.InnerBlocks) > 0 {
		inner := make([]string, 0, len(b.InnerBlocks))
		for _, child := range b.InnerBlocks {
			if s := flattenBlock(child, skip); s != "" {
				inner = append(inner, s)
			}
		}
		html += strings.Join(inner, "\n")
	}
	return html
}
