package fetch

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// batchPause is the fixed delay between consecutive items in a batch.
const batchPause = 500 * time.Millisecond

// BatchSummary aggregates the outcome of a FetchAll run.
type BatchSummary struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// FetchAll fetches every URL in order, pausing between consecutive items
// but not after the last one. A failed URL never aborts the batch; it is
// counted and the run moves on.
func (s *Session) FetchAll(ctx context.Context, urls []string) BatchSummary {
	sum := BatchSummary{}

	for i, u := range urls {
		if i > 0 {
			pause(ctx, s.pause)
		}

		r := s.Fetch(ctx, u)
		if r.OK() {
			sum.Succeeded++
		} else {
			sum.Failed++
			log.WithError(r.Err).Errorf("failed to fetch: url=%s", r.URL)
		}
		sum.Results = append(sum.Results, r)
	}

	return sum
}

// pause sleeps for the given duration, returning early if the context
// finishes first.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
