package scan

import (
	"runtime"
	"sync"

	"github.com/inodb/motif-mark/internal/gene"
)

// WorkItem holds a record waiting to be scanned.
type WorkItem struct {
	Seq    int
	Record *gene.Record
}

// WorkResult holds the scan output for a single record.
type WorkResult struct {
	Seq    int
	Result Result
}

// ParallelScan scans work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (s *Scanner) ParallelScan(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq:    item.Seq,
					Result: s.Scan(item.Record),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until the next expected
// sequence number arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ScanAll scans records with the given number of workers and returns the
// results in input order. workers <= 0 is resolved by ParallelScan.
func (s *Scanner) ScanAll(records []*gene.Record, workers int) []Result {
	items := make(chan WorkItem, len(records))
	for i, rec := range records {
		items <- WorkItem{Seq: i, Record: rec}
	}
	close(items)

	out := make([]Result, 0, len(records))
	// fn never fails, so the error is always nil.
	_ = OrderedCollect(s.ParallelScan(items, workers), func(r WorkResult) error {
		out = append(out, r.Result)
		return nil
	})
	return out
}
