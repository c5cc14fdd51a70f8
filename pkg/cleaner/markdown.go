package cleaner

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// replaceRule is one step of the textual HTML to Markdown conversion.
// Exactly one of repl or fn is set.
type replaceRule struct {
	re   *regexp.Regexp
	repl string
	fn   func(groups []string) string
}

func (r replaceRule) apply(s string) string {
	if r.fn == nil {
		return r.re.ReplaceAllString(s, r.repl)
	}
	return r.re.ReplaceAllStringFunc(s, func(match string) string {
		return r.fn(r.re.FindStringSubmatch(match))
	})
}

// markdownRules run in order. Bold and italic are split per tag because RE2
// has no backreferences to pair opening and closing tags.
var markdownRules = []replaceRule{
	{re: regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`), repl: "\n# ${1}\n"},
	{re: regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`), repl: "\n## ${1}\n"},
	{re: regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`), repl: "\n### ${1}\n"},
	{re: regexp.MustCompile(`(?is)<h4[^>]*>(.*?)</h4>`), repl: "\n#### ${1}\n"},
	{re: regexp.MustCompile(`(?is)<h5[^>]*>(.*?)</h5>`), repl: "\n##### ${1}\n"},
	{re: regexp.MustCompile(`(?is)<h6[^>]*>(.*?)</h6>`), repl: "\n###### ${1}\n"},

	{re: regexp.MustCompile(`(?is)<strong(?:\s[^>]*)?>(.*?)</strong>`), repl: "**${1}**"},
	{re: regexp.MustCompile(`(?is)<b(?:\s[^>]*)?>(.*?)</b>`), repl: "**${1}**"},
	{re: regexp.MustCompile(`(?is)<em(?:\s[^>]*)?>(.*?)</em>`), repl: "*${1}*"},
	{re: regexp.MustCompile(`(?is)<i(?:\s[^>]*)?>(.*?)</i>`), repl: "*${1}*"},

	{re: regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']+)["'][^>]*alt=["']([^"']*)["'][^>]*>`), repl: "![${2}](${1})"},
	{re: regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']+)["'][^>]*>`), repl: "![](${1})"},

	{re: regexp.MustCompile(`(?is)<a\s[^>]*href=["']([^"']+)["'][^>]*>(.*?)</a>`), repl: "[${2}](${1})"},

	{re: regexp.MustCompile(`(?is)<pre[^>]*><code[^>]*>(.*?)</code></pre>`), repl: "\n```\n${1}\n```\n"},
	{re: regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`), repl: "`${1}`"},

	{re: regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`), fn: quoteLines},

	// Ordered lists go before the generic <li> rule so their items keep numbers.
	{re: regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`), fn: numberItems},
	{re: regexp.MustCompile(`(?is)<ul[^>]*>(.*?)</ul>`), repl: "${1}\n"},
	{re: regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.*?)</li>`), repl: "- ${1}\n"},

	{re: regexp.MustCompile(`(?is)<p(?:\s[^>]*)?>(.*?)</p>`), repl: "${1}\n\n"},
	{re: regexp.MustCompile(`(?i)<br\s*/?>`), repl: "\n"},
	{re: regexp.MustCompile(`(?i)<hr\s*/?>`), repl: "\n---\n"},

	{re: regexp.MustCompile(`<[^>]*>`), repl: ""},
}

var (
	listItemOpenRegex  = regexp.MustCompile(`(?i)<li[^>]*>`)
	listItemCloseRegex = regexp.MustCompile(`(?i)</li>`)
	excessNewlineRegex = regexp.MustCompile(`\n{3,}`)
	imageMarkdownRegex = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
)

func quoteLines(groups []string) string {
	lines := strings.Split(strings.TrimSpace(groups[1]), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

func numberItems(groups []string) string {
	var sb strings.Builder
	n := 1
	for _, item := range listItemCloseRegex.Split(groups[1], -1) {
		item = strings.TrimSpace(listItemOpenRegex.ReplaceAllString(item, ""))
		if item == "" {
			continue
		}
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(". ")
		sb.WriteString(item)
		sb.WriteString("\n")
		n++
	}
	return sb.String()
}

// ToMarkdown converts HTML to Markdown with an ordered chain of textual
// rewrites. It is not a parser: attributes other than src, href and alt are
// ignored and overlapping tags give imperfect but well-formed output.
func ToMarkdown(content string) string {
	for _, rule := range markdownRules {
		content = rule.apply(content)
	}
	content = html.UnescapeString(content)
	content = excessNewlineRegex.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// StripImageMarkdown removes ![alt](src) references from Markdown.
func StripImageMarkdown(markdown string) string {
	markdown = imageMarkdownRegex.ReplaceAllString(markdown, "")
	markdown = excessNewlineRegex.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// MarkdownOption configures a Markdown converter.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	stripImages bool
}

// WithStripImages drops images from the converted output.
func WithStripImages(strip bool) MarkdownOption {
	return func(c *markdownConfig) {
		c.stripImages = strip
	}
}

func newMarkdownConfig(opts []MarkdownOption) markdownConfig {
	var cfg markdownConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// RegexMarkdown is the default HTML to Markdown converter.
type RegexMarkdown struct {
	config markdownConfig
}

// NewRegexMarkdown creates the regex converter.
func NewRegexMarkdown(opts ...MarkdownOption) *RegexMarkdown {
	return &RegexMarkdown{config: newMarkdownConfig(opts)}
}

// Clean implements Cleaner.
func (c *RegexMarkdown) Clean(content string) (string, error) {
	out := ToMarkdown(content)
	if c.config.stripImages {
		out = StripImageMarkdown(out)
	}
	return out, nil
}

// Name implements Cleaner.
func (c *RegexMarkdown) Name() string {
	return "markdown"
}
