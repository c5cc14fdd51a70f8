package chunker

import (
	"regexp"
	"unicode/utf8"
)

// EstimateTokens approximates an LLM token count as one token per four
// characters, rounded up. It is a fixed heuristic, not a tokenizer.
func EstimateTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}

var paragraphBreakRegex = regexp.MustCompile(`\n\n+`)

// SplitParagraphs splits on runs of two or more newlines, dropping empty pieces.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreakRegex.Split(text, -1) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitSentences splits where '.', '!' or '?' is followed by whitespace and
// then an ASCII uppercase letter; the whitespace is dropped. When that yields
// at most one piece, the text is split into paragraphs instead.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) || text[j] < 'A' || text[j] > 'Z' {
			continue
		}
		if piece := text[start : i+1]; piece != "" {
			out = append(out, piece)
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		out = append(out, text[start:])
	}

	if len(out) <= 1 {
		return SplitParagraphs(text)
	}
	return out
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
