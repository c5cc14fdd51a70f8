package cleaner

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ParserMarkdown converts HTML to Markdown with html-to-markdown. It handles
// nested and malformed markup better than RegexMarkdown and renders tables.
type ParserMarkdown struct {
	config markdownConfig
}

// NewParserMarkdown creates the parser-backed converter.
func NewParserMarkdown(opts ...MarkdownOption) *ParserMarkdown {
	return &ParserMarkdown{config: newMarkdownConfig(opts)}
}

// Clean implements Cleaner.
func (c *ParserMarkdown) Clean(content string) (string, error) {
	markdown, err := md.ConvertString(content)
	if err != nil {
		return "", err
	}

	markdown = cleanWhitespace(markdown)
	if c.config.stripImages {
		markdown = StripImageMarkdown(markdown)
	}
	return markdown, nil
}

// Name implements Cleaner.
func (c *ParserMarkdown) Name() string {
	return "parser-markdown"
}

// cleanWhitespace keeps at most one blank line between blocks and trims
// trailing spaces.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	blankCount := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankCount++
			if blankCount <= 1 {
				result = append(result, "")
			}
			continue
		}
		blankCount = 0
		result = append(result, strings.TrimRight(line, " \t"))
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
