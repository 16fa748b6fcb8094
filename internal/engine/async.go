package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gcbaptista/lexidex/model"
)

// microBatchSize keeps each AddAllAsync batch's lock-hold time short,
// the way addDocumentMicroBatch keeps indexing micro-batches small.
const microBatchSize = 10

// ProgressFunc reports how many of total documents AddAllAsync has
// indexed so far.
type ProgressFunc func(current, total int)

// AddAllAsync indexes docs in small batches, yielding between each one so
// concurrent searches are never starved for long — the suspension point
// the lifecycle allows alongside Vacuum.
func (ix *Index) AddAllAsync(ctx context.Context, docs []model.Document, report ProgressFunc) error {
	for i := 0; i < len(docs); i += microBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := i + microBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		for j, doc := range docs[i:end] {
			if err := ix.Add(doc); err != nil {
				return fmt.Errorf("add_all_async: failed at document index %d: %w", i+j, err)
			}
		}

		if report != nil {
			report(end, len(docs))
		}

		if end < len(docs) {
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}
