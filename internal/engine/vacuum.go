package engine

import (
	"context"
	"time"
)

// vacuumRequest describes why a vacuum pass was scheduled. forced is set
// by an explicit, unconditional Vacuum() call and always wins a merge
// against a policy-triggered request.
type vacuumRequest struct {
	forced bool
}

// mergeVacuumRequest folds next into the pending follow-up request,
// keeping it queued: at most one follow-up is ever outstanding, and it
// inherits forced if either request asked for an unconditional vacuum.
func (ix *Index) mergeVacuumRequest(next vacuumRequest) {
	if ix.pendingVacuum == nil {
		ix.pendingVacuum = &next
		return
	}
	ix.pendingVacuum.forced = ix.pendingVacuum.forced || next.forced
}

// dirtyFactor is dirty_count / (1 + live + dirty), the auto-vacuum trigger
// ratio.
func (ix *Index) dirtyFactor(dirty int) float64 {
	live := ix.docs.DocumentsCount()
	return float64(dirty) / float64(1+live+dirty)
}

// maybeAutoVacuum runs the auto-vacuum policy after a discard: if a
// vacuum is already running, queue a follow-up instead of starting a
// second one concurrently.
func (ix *Index) maybeAutoVacuum() {
	if !ix.Opts.AutoVacuum.Enabled {
		return
	}

	ix.vacuumMu.Lock()
	dirty := ix.dirtyCount
	triggered := dirty >= ix.Opts.AutoVacuum.MinDirtyCount && ix.dirtyFactor(dirty) >= ix.Opts.AutoVacuum.MinDirtyFactor
	if !triggered {
		ix.vacuumMu.Unlock()
		return
	}
	if ix.vacuumInFlight {
		ix.mergeVacuumRequest(vacuumRequest{})
		ix.vacuumMu.Unlock()
		return
	}
	ix.vacuumInFlight = true
	ix.vacuumMu.Unlock()

	go ix.runVacuum(context.Background())
}

// Vacuum reclaims postings for short IDs no longer live. An already-running vacuum absorbs this call as a queued,
// unconditional follow-up rather than running two passes at once.
func (ix *Index) Vacuum(ctx context.Context) error {
	ix.vacuumMu.Lock()
	if ix.vacuumInFlight {
		ix.mergeVacuumRequest(vacuumRequest{forced: true})
		ix.vacuumMu.Unlock()
		return nil
	}
	ix.vacuumInFlight = true
	ix.vacuumMu.Unlock()

	return ix.runVacuum(ctx)
}

// runVacuum performs one vacuum pass, then — if a follow-up was queued
// while it ran — immediately performs another, until none remains.
func (ix *Index) runVacuum(ctx context.Context) error {
	for {
		ix.vacuumMu.Lock()
		observed := ix.dirtyCount
		ix.vacuumMu.Unlock()

		if err := ix.vacuumPass(ctx); err != nil {
			ix.vacuumMu.Lock()
			ix.vacuumInFlight = false
			ix.vacuumMu.Unlock()
			return err
		}

		ix.vacuumMu.Lock()
		ix.dirtyCount -= observed
		if ix.dirtyCount < 0 {
			ix.dirtyCount = 0
		}

		next := ix.pendingVacuum
		ix.pendingVacuum = nil
		if next == nil {
			ix.vacuumInFlight = false
			ix.vacuumMu.Unlock()
			return nil
		}
		ix.vacuumMu.Unlock()
	}
}

// vacuumPass walks every term in batches, cooperatively yielding between
// batches the way addDocumentMicroBatch yields between micro-batches.
func (ix *Index) vacuumPass(ctx context.Context) error {
	batchSize := ix.Opts.AutoVacuum.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	terms := ix.idx.Terms()
	for i := 0; i < len(terms); i += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := i + batchSize
		if end > len(terms) {
			end = len(terms)
		}
		ix.idx.VacuumBatch(terms[i:end], ix.docs.IsLive)

		if end < len(terms) {
			time.Sleep(time.Duration(ix.Opts.AutoVacuum.BatchWaitMS) * time.Millisecond)
		}
	}
	return nil
}
