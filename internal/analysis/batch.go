package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// BatchItem is one independent analysis request within a batch — typically
// one paragraph of a longer reading session.
type BatchItem struct {
	ReferenceText string
	Transcription asr.Transcription
	AudioDuration time.Duration
}

// AnalyzeBatch runs the items concurrently and returns their results in input
// order. The engine holds no shared mutable state, so items parallelise
// freely; concurrency is capped at GOMAXPROCS since each analysis is pure
// CPU work.
//
// A single analysis is atomic and non-cancelable, but ctx is honoured between
// items: once ctx is done, unstarted items are abandoned and the context
// error is returned. Any item failure aborts the batch with an error naming
// the offending index.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, items []BatchItem) ([]*Result, error) {
	results := make([]*Result, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := a.Analyze(item.ReferenceText, item.Transcription, item.AudioDuration)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
