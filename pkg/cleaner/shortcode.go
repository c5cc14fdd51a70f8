package cleaner

import (
	"regexp"
	"strings"
)

// shortcodeTagRegex matches a bracketed directive such as [gallery ids="1,2"] or [/caption].
var shortcodeTagRegex = regexp.MustCompile(`\[([^\]]+)\]`)

// ShortcodeStripper removes shortcode directives from content.
// Paired tags ([x]inner[/x]) are replaced by their inner text, and any
// remaining bracketed directive is dropped entirely.
type ShortcodeStripper struct{}

// NewShortcodeStripper creates a new shortcode stripper.
func NewShortcodeStripper() *ShortcodeStripper {
	return &ShortcodeStripper{}
}

// Clean strips shortcodes while preserving the content between paired tags.
func (s *ShortcodeStripper) Clean(content string) (string, error) {
	return StripShortcodes(content), nil
}

// Name returns the cleaner type.
func (s *ShortcodeStripper) Name() string {
	return "shortcode"
}

// StripShortcodes removes shortcodes, keeping the inner text of paired tags.
func StripShortcodes(content string) string {
	if !strings.Contains(content, "[") {
		return content
	}
	content = unwrapPairedShortcodes(content)
	return shortcodeTagRegex.ReplaceAllString(content, "")
}

// unwrapPairedShortcodes replaces each [tag]inner[/tag] with inner, scanning left
// to right without revisiting replaced text. The closing tag must repeat the
// full opening text, attributes included; anything else is left for the
// standalone pass. Every iteration advances the cursor so input of any shape
// terminates.
func unwrapPairedShortcodes(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	i := 0
	for i < len(content) {
		loc := shortcodeTagRegex.FindStringSubmatchIndex(content[i:])
		if loc == nil {
			break
		}
		start, end := i+loc[0], i+loc[1]
		tag := content[i+loc[2] : i+loc[3]]

		closing := "[/" + tag + "]"
		rel := strings.Index(content[end:], closing)
		if rel < 0 {
			// No partner: keep the bracket and retry one byte further on,
			// since the tag body may itself contain an opening bracket.
			b.WriteString(content[i : start+1])
			i = start + 1
			continue
		}

		b.WriteString(content[i:start])
		b.WriteString(content[end : end+rel])
		i = end + rel + len(closing)
	}
	b.WriteString(content[i:])
	return b.String()
}
