package cleaner

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/ragdown/internal/logger"
)

// ChainCleaner applies multiple cleaners in sequence.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a cleaner that applies cleaners in the order provided.
// Nil entries are skipped so optional stages can be passed inline.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewShortcodeStripper(),
//	    cleaner.NewChromeStripper(cleaner.DefaultChromeConfig()),
//	    cleaner.NewRegexMarkdown(),
//	)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	kept := make([]Cleaner, 0, len(cleaners))
	for _, c := range cleaners {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &ChainCleaner{cleaners: kept}
}

// Clean applies all cleaners in sequence, stopping at the first error.
func (c *ChainCleaner) Clean(content string) (string, error) {
	var err error
	for _, stage := range c.cleaners {
		start := time.Now()
		content, err = stage.Clean(content)
		if err != nil {
			return "", fmt.Errorf("%s: %w", stage.Name(), err)
		}
		logger.Debug("cleaner stage complete",
			"stage", stage.Name(),
			"bytes", len(content),
			"duration", time.Since(start))
	}
	return content, nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, stage := range c.cleaners {
		names[i] = stage.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

// Len returns the number of stages in the chain.
func (c *ChainCleaner) Len() int {
	return len(c.cleaners)
}
