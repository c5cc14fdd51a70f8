package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error types for distinguishing chunking failures.
var (
	// ErrInvalidStrategy indicates an unknown strategy name.
	ErrInvalidStrategy = errors.New("invalid chunking strategy")
	// ErrInvalidOptions indicates out-of-range chunking options.
	ErrInvalidOptions = errors.New("invalid chunking options")
)

// Strategy selects the chunk boundary algorithm.
type Strategy string

// Available strategies.
const (
	Hierarchical Strategy = "hierarchical"
	Fixed        Strategy = "fixed"
	Semantic     Strategy = "semantic"
)

// Strategies lists every strategy in a stable order.
var Strategies = []Strategy{Hierarchical, Fixed, Semantic}

// ParseStrategy validates a strategy name. Matching is exact.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrInvalidStrategy, name, strategyNames())
}

func strategyNames() string {
	names := make([]string, len(Strategies))
	for i, s := range Strategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Default sizes, in estimated tokens.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 128
)

// Options sizes chunks in estimated tokens. Overlap is used by the fixed
// strategy only.
type Options struct {
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" validate:"gte=0"`
	Overlap   int `json:"overlap" yaml:"overlap" validate:"gte=0"`
}

// DefaultOptions returns the default sizes.
func DefaultOptions() Options {
	return Options{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

var validate = validator.New()

// Normalize validates opts and fills a zero ChunkSize with the default.
func (o Options) Normalize() (Options, error) {
	if err := validate.Struct(o); err != nil {
		return o, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o, nil
}

// Split runs strategy over markdown and assigns chunk indices. It performs
// no document lookup, so it also serves content that never lived in a store.
func Split(markdown string, strategy Strategy, opts Options, base ChunkMetadata) ([]Chunk, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	switch strategy {
	case Hierarchical:
		chunks = SplitHierarchical(markdown, base)
	case Fixed:
		chunks = SplitFixed(markdown, opts.ChunkSize, opts.Overlap, base)
	case Semantic:
		chunks = SplitSemantic(markdown, opts.ChunkSize, base)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	return finalize(chunks), nil
}
