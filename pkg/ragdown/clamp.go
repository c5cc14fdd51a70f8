package ragdown

import "github.com/jmylchreest/ragdown/pkg/chunker"

// Request bounds applied by adapters before options reach the engine.
const (
	MinChunkSize = 128
	MaxChunkSize = 2048
	MaxOverlap   = 512
)

// ClampOptions bounds user-supplied chunk sizes to the ranges accepted from
// external callers. The engine itself accepts any non-negative size.
func ClampOptions(opts chunker.Options) chunker.Options {
	return chunker.Options{
		ChunkSize: max(MinChunkSize, min(opts.ChunkSize, MaxChunkSize)),
		Overlap:   max(0, min(opts.Overlap, MaxOverlap)),
	}
}
