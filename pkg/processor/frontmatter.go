package processor

import (
	"strings"

	"github.com/jmylchreest/ragdown/pkg/document"
)

var yamlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Frontmatter renders the YAML header prepended to Markdown output. String
// values are double-quoted; categories and tags are block lists and are
// omitted when empty, as is an empty excerpt.
func Frontmatter(doc *document.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "title", doc.Title)
	writeField(&b, "date", formatDate(doc))
	writeField(&b, "author", doc.Author)
	writeField(&b, "url", doc.Permalink)
	if doc.Excerpt != "" {
		writeField(&b, "excerpt", doc.Excerpt)
	}
	writeList(&b, "categories", doc.Categories)
	writeList(&b, "tags", doc.Tags)
	b.WriteString("---\n\n")
	return b.String()
}

func formatDate(doc *document.Document) string {
	if doc.CreatedAt.IsZero() {
		return ""
	}
	return doc.CreatedAt.Format(document.DateLayout)
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(`: "`)
	b.WriteString(yamlEscaper.Replace(value))
	b.WriteString("\"\n")
}

func writeList(b *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	b.WriteString(key)
	b.WriteString(":\n")
	for _, v := range values {
		b.WriteString(`  - "`)
		b.WriteString(yamlEscaper.Replace(v))
		b.WriteString("\"\n")
	}
}
