package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sentenceBufferSize caps how many recent sentences are kept for overlap.
const sentenceBufferSize = 20

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// SplitHierarchical emits one chunk per heading section. A section runs from
// a heading line up to the next heading; content before the first heading
// forms a section with an empty title at level 0. Whitespace-only sections
// are skipped.
func SplitHierarchical(markdown string, base ChunkMetadata) []Chunk {
	var (
		chunks  []Chunk
		section strings.Builder
		title   string
		level   int
	)

	flush := func() {
		if strings.TrimSpace(section.String()) == "" {
			return
		}
		content := strings.TrimSpace(section.String())
		meta := base.clone()
		meta.SectionTitle = ptr(title)
		meta.HeadingLevel = ptr(level)
		meta.TokenCount = EstimateTokens(content)
		meta.ChunkingStrategy = "hierarchical"
		chunks = append(chunks, newChunk(content, meta))
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := headingRegex.FindStringSubmatch(line); m != nil {
			flush()
			section.Reset()
			level = len(m[1])
			title = m[2]
		}
		section.WriteString(line)
		section.WriteString("\n")
	}
	flush()

	return chunks
}

// SplitFixed packs sentences into chunks of at most chunkSize estimated
// tokens. Each new chunk is seeded with the longest run of trailing
// sentences, from the last sentenceBufferSize seen, that fits in overlap
// tokens. A sentence larger than chunkSize forms its own chunk.
func SplitFixed(markdown string, chunkSize, overlap int, base ChunkMetadata) []Chunk {
	var (
		chunks  []Chunk
		current string
		tokens  int
		recent  []string
	)

	emit := func() {
		content := strings.TrimSpace(current)
		meta := base.clone()
		meta.TokenCount = tokens
		meta.ChunkingStrategy = "fixed_size"
		meta.OverlapTokens = ptr(overlap)
		meta.TargetSize = ptr(chunkSize)
		chunks = append(chunks, newChunk(content, meta))
	}

	for _, sentence := range SplitSentences(markdown) {
		sentenceTokens := EstimateTokens(sentence)

		if tokens+sentenceTokens > chunkSize && current != "" {
			emit()
			current = overlapText(recent, overlap)
			tokens = EstimateTokens(current)
			if current != "" {
				current += " "
			}
		}

		current += sentence + " "
		tokens += sentenceTokens

		recent = append(recent, sentence)
		if len(recent) > sentenceBufferSize {
			recent = recent[1:]
		}
	}

	if strings.TrimSpace(current) != "" {
		emit()
	}
	return chunks
}

// overlapText walks backwards through recent sentences, collecting them while
// the total stays within budget tokens, and returns them in original order.
func overlapText(recent []string, budget int) string {
	used := 0
	start := len(recent)
	for i := len(recent) - 1; i >= 0; i-- {
		t := EstimateTokens(recent[i])
		if used+t > budget {
			break
		}
		used += t
		start = i
	}
	return strings.TrimSpace(strings.Join(recent[start:], " "))
}

// SplitSemantic packs paragraphs into chunks of at most chunkSize estimated
// tokens. A paragraph larger than chunkSize is split by sentences without
// overlap; its trailing partial chunk carries forward and later paragraphs
// may be appended to it.
func SplitSemantic(markdown string, chunkSize int, base ChunkMetadata) []Chunk {
	var (
		chunks  []Chunk
		current string
		tokens  int
	)

	emit := func(text string, count int) {
		meta := base.clone()
		meta.TokenCount = count
		meta.ChunkingStrategy = "semantic"
		chunks = append(chunks, newChunk(strings.TrimSpace(text), meta))
	}

	for _, paragraph := range SplitParagraphs(markdown) {
		paraTokens := EstimateTokens(paragraph)

		switch {
		case paraTokens > chunkSize:
			if strings.TrimSpace(current) != "" {
				emit(current, tokens)
				current, tokens = "", 0
			}

			var partial string
			partialTokens := 0
			for _, sentence := range SplitSentences(paragraph) {
				sentenceTokens := EstimateTokens(sentence)
				if partialTokens+sentenceTokens > chunkSize && partial != "" {
					emit(partial, partialTokens)
					partial, partialTokens = "", 0
				}
				partial += sentence + " "
				partialTokens += sentenceTokens
			}
			if strings.TrimSpace(partial) != "" {
				current, tokens = partial, partialTokens
			}

		case tokens+paraTokens > chunkSize && current != "":
			emit(current, tokens)
			current = paragraph + "\n\n"
			tokens = paraTokens

		default:
			current += paragraph + "\n\n"
			tokens += paraTokens
		}
	}

	if strings.TrimSpace(current) != "" {
		emit(current, tokens)
	}
	return chunks
}

func newChunk(content string, meta ChunkMetadata) Chunk {
	meta.CharCount = utf8.RuneCountInString(content)
	return Chunk{Content: content, Metadata: meta}
}

// finalize assigns indices and totals once the full list is known.
func finalize(chunks []Chunk) []Chunk {
	if chunks == nil {
		chunks = []Chunk{}
	}
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.TotalChunks = len(chunks)
	}
	return chunks
}

func ptr[T any](v T) *T {
	return &v
}
