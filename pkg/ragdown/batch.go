package ragdown

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/chunker"
	"github.com/jmylchreest/ragdown/pkg/document"
	"github.com/jmylchreest/ragdown/pkg/processor"
)

// Batch size limits.
const (
	MaxBatchMarkdown = 50
	MaxBatchChunks   = 20
)

// ErrBatchTooLarge is returned when a batch exceeds its size limit.
var ErrBatchTooLarge = errors.New("batch too large")

// BatchError reports why one document in a batch failed.
type BatchError struct {
	PostID int64  `json:"post_id" yaml:"post_id"`
	Error  string `json:"error" yaml:"error"`
}

// MarkdownItem is one converted document in a batch.
type MarkdownItem struct {
	PostID    int64  `json:"post_id" yaml:"post_id"`
	Markdown  string `json:"markdown" yaml:"markdown"`
	PostTitle string `json:"post_title" yaml:"post_title"`
	PostURL   string `json:"post_url" yaml:"post_url"`
}

// BatchMarkdownResult collects a markdown batch. Results and errors keep
// the order of the requested ids.
type BatchMarkdownResult struct {
	SuccessCount int            `json:"success_count" yaml:"success_count"`
	ErrorCount   int            `json:"error_count" yaml:"error_count"`
	Results      []MarkdownItem `json:"results" yaml:"results"`
	Errors       []BatchError   `json:"errors" yaml:"errors"`
}

// BatchChunksResult collects a chunk batch; each result is an export in the
// requested format.
type BatchChunksResult struct {
	SuccessCount int          `json:"success_count" yaml:"success_count"`
	ErrorCount   int          `json:"error_count" yaml:"error_count"`
	Results      []any        `json:"results" yaml:"results"`
	Errors       []BatchError `json:"errors" yaml:"errors"`
}

// batchSlot holds the outcome for one id; exactly one field is set.
type batchSlot[T any] struct {
	value T
	err   error
}

// runBatch calls fn for every id with bounded parallelism and returns the
// outcomes in id order. Per-id failures never stop the batch.
func runBatch[T any](ctx context.Context, limit int, ids []int64, fn func(context.Context, int64) (T, error)) []batchSlot[T] {
	slots := make([]batchSlot[T], len(ids))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].value, slots[i].err = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return slots
}

// batchMessage maps a per-document failure to its reported message.
func batchMessage(err error) string {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return "Post not found"
	case errors.Is(err, document.ErrNotAccessible):
		return "Post not accessible"
	default:
		return err.Error()
	}
}

// BatchMarkdown converts up to MaxBatchMarkdown documents.
func (s *Service) BatchMarkdown(ctx context.Context, ids []int64, opts processor.Options) (*BatchMarkdownResult, error) {
	if len(ids) > MaxBatchMarkdown {
		return nil, fmt.Errorf("%w: %d documents (maximum %d)", ErrBatchTooLarge, len(ids), MaxBatchMarkdown)
	}

	slots := runBatch(ctx, s.config.Concurrency, ids, func(ctx context.Context, id int64) (MarkdownItem, error) {
		doc, err := document.GetPublished(ctx, s.store, id)
		if err != nil {
			return MarkdownItem{}, err
		}
		md, err := s.Markdown(ctx, id, opts)
		if err != nil {
			return MarkdownItem{}, err
		}
		return MarkdownItem{PostID: id, Markdown: md, PostTitle: doc.Title, PostURL: doc.Permalink}, nil
	})

	out := &BatchMarkdownResult{Results: []MarkdownItem{}, Errors: []BatchError{}}
	for i, slot := range slots {
		if slot.err != nil {
			out.Errors = append(out.Errors, BatchError{PostID: ids[i], Error: batchMessage(slot.err)})
			continue
		}
		out.Results = append(out.Results, slot.value)
	}
	out.SuccessCount, out.ErrorCount = len(out.Results), len(out.Errors)

	logger.Debug("markdown batch complete", "requested", len(ids), "success", out.SuccessCount, "errors", out.ErrorCount)
	return out, nil
}

// BatchChunks chunks and exports up to MaxBatchChunks documents.
func (s *Service) BatchChunks(ctx context.Context, ids []int64, strategy chunker.Strategy, opts chunker.Options, format string) (*BatchChunksResult, error) {
	if len(ids) > MaxBatchChunks {
		return nil, fmt.Errorf("%w: %d documents (maximum %d)", ErrBatchTooLarge, len(ids), MaxBatchChunks)
	}

	slots := runBatch(ctx, s.config.Concurrency, ids, func(ctx context.Context, id int64) (any, error) {
		return s.Export(ctx, id, strategy, opts, format)
	})

	out := &BatchChunksResult{Results: []any{}, Errors: []BatchError{}}
	for i, slot := range slots {
		if slot.err != nil {
			out.Errors = append(out.Errors, BatchError{PostID: ids[i], Error: batchMessage(slot.err)})
			continue
		}
		out.Results = append(out.Results, slot.value)
	}
	out.SuccessCount, out.ErrorCount = len(out.Results), len(out.Errors)

	logger.Debug("chunk batch complete", "requested", len(ids), "success", out.SuccessCount, "errors", out.ErrorCount)
	return out, nil
}
