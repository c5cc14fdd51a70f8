package chunker

import (
	"context"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/document"
)

// StrategyStats summarises the chunk sizes one strategy produces.
type StrategyStats struct {
	TotalChunks int     `json:"total_chunks" yaml:"total_chunks"`
	MinTokens   int     `json:"min_tokens" yaml:"min_tokens"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	AvgTokens   float64 `json:"avg_tokens" yaml:"avg_tokens"`
}

// Summarize computes size statistics for a chunk list.
func Summarize(chunks []Chunk) StrategyStats {
	stats := StrategyStats{TotalChunks: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}

	sum := 0
	stats.MinTokens = chunks[0].Metadata.TokenCount
	for _, c := range chunks {
		n := c.Metadata.TokenCount
		sum += n
		stats.MinTokens = min(stats.MinTokens, n)
		stats.MaxTokens = max(stats.MaxTokens, n)
	}
	stats.AvgTokens = float64(sum) / float64(len(chunks))
	return stats
}

// Stats chunks a document with every strategy through the cache and reports
// per-strategy sizes. A strategy that fails is logged and left out.
func (e *Engine) Stats(ctx context.Context, id int64, opts Options) (map[Strategy]StrategyStats, error) {
	if _, err := document.GetPublished(ctx, e.processor.Store(), id); err != nil {
		return nil, err
	}

	stats := make(map[Strategy]StrategyStats, len(Strategies))
	for _, s := range Strategies {
		chunks, err := e.CachedChunks(ctx, id, s, opts)
		if err != nil {
			logger.Warn("chunking stats skipped strategy", "id", id, "strategy", s, "error", err)
			continue
		}
		stats[s] = Summarize(chunks)
	}
	return stats, nil
}
