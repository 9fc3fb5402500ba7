package agent

// Worker pool for parallel valuation.
//
// Evaluation is pure and shares no state, so listings fan out across
// workers. Each worker writes its result at the listing's input index,
// which keeps the pre-sort order independent of completion order; the
// stable sort afterwards makes the final ranking fully deterministic.

import (
	"runtime"
	"sort"
	"sync"

	"github.com/G-Eskayo/Autonomous-Marketplace-Flipper/internal/domain"
)

// evaluateConcurrent evaluates all listings in parallel and returns them
// ranked by score descending, ties in input order.
//
// workers <= 0 uses runtime.NumCPU() * 2.
func evaluateConcurrent(listings []domain.Listing, refs domain.ReferenceTable, workers int) []domain.EvaluatedListing {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers > len(listings) {
		workers = len(listings)
	}

	results := make([]domain.EvaluatedListing, len(listings))
	indexCh := make(chan int, len(listings))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				l := listings[idx]
				results[idx] = domain.EvaluatedListing{
					Listing:    l,
					Evaluation: domain.Evaluate(l, refs),
				}
			}
		}()
	}

	for idx := range listings {
		indexCh <- idx
	}
	close(indexCh)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
