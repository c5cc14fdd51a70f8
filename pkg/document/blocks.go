package document

import (
	"regexp"
	"strings"
)

// Block is one node of a block-editor document.
type Block struct {
	// Name is the namespaced block kind, e.g. "core/paragraph". Empty for
	// freeform markup between blocks.
	Name string `json:"name" yaml:"name"`

	// Attrs is the raw JSON attribute object from the delimiter, if any.
	Attrs string `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	// InnerHTML is the block's own markup, excluding its inner blocks.
	InnerHTML string `json:"inner_html" yaml:"inner_html"`

	InnerBlocks []Block `json:"inner_blocks,omitempty" yaml:"inner_blocks,omitempty"`
}

const blockMarker = "<!-- wp:"

// blockDelimiterRegex matches opening, closing and self-closing delimiters:
//
//	<!-- wp:paragraph {"align":"center"} -->
//	<!-- /wp:paragraph -->
//	<!-- wp:core/spacer /-->
var blockDelimiterRegex = regexp.MustCompile(
	`<!--\s+(/)?wp:([a-z][a-z0-9_-]*(?:/[a-z][a-z0-9_-]*)?)\s+(\{.*?\}\s+)?(/)?-->`)

// IsBlockMarkup reports whether content uses block-comment delimiters.
func IsBlockMarkup(content string) bool {
	return strings.Contains(content, blockMarker)
}

// ParseBlocks parses block-comment markup into a tree. Markup outside any
// block becomes a nameless freeform block. Unbalanced closers are ignored and
// unclosed blocks are closed at the end of input.
func ParseBlocks(content string) []Block {
	type frame struct {
		block Block
		html  strings.Builder
	}

	var (
		top   []Block
		stack []*frame
		free  strings.Builder
	)

	flushFree := func() {
		if free.Len() > 0 {
			top = append(top, Block{InnerHTML: free.String()})
			free.Reset()
		}
	}
	appendText := func(text string) {
		if text == "" {
			return
		}
		if len(stack) == 0 {
			free.WriteString(text)
			return
		}
		stack[len(stack)-1].html.WriteString(text)
	}
	closeTop := func() {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		f.block.InnerHTML = f.html.String()
		if len(stack) == 0 {
			top = append(top, f.block)
			return
		}
		parent := stack[len(stack)-1]
		parent.block.InnerBlocks = append(parent.block.InnerBlocks, f.block)
	}

	pos := 0
	for _, loc := range blockDelimiterRegex.FindAllStringSubmatchIndex(content, -1) {
		appendText(content[pos:loc[0]])
		pos = loc[1]

		closer := loc[2] >= 0
		name := qualifyBlockName(content[loc[4]:loc[5]])
		attrs := ""
		if loc[6] >= 0 {
			attrs = strings.TrimSpace(content[loc[6]:loc[7]])
		}
		selfClosing := loc[8] >= 0

		switch {
		case closer:
			// Close up to the matching opener; stray closers are dropped.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].block.Name == name {
					for len(stack) > i {
						closeTop()
					}
					break
				}
			}
		case selfClosing:
			b := Block{Name: name, Attrs: attrs}
			if len(stack) == 0 {
				flushFree()
				top = append(top, b)
			} else {
				parent := stack[len(stack)-1]
				parent.block.InnerBlocks = append(parent.block.InnerBlocks, b)
			}
		default:
			if len(stack) == 0 {
				flushFree()
			}
			stack = append(stack, &frame{block: Block{Name: name, Attrs: attrs}})
		}
	}
	appendText(content[pos:])

	for len(stack) > 0 {
		closeTop()
	}
	flushFree()

	return top
}

// qualifyBlockName adds the core namespace to bare block names.
func qualifyBlockName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return "core/" + name
}
