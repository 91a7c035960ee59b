// Package parallel splits index ranges across a bounded set of goroutines.
// Every range is processed exactly once and callers write only to the
// indices they are handed, so the outcome never depends on scheduling.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a requested worker count. Zero or negative values select
// GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Execute calls work on contiguous sub-ranges [start, end) covering [0, n).
// At most workers goroutines run at once; a single worker runs work inline.
func Execute(n, workers int, work func(start, end int)) {
	_ = ExecuteErr(n, workers, func(start, end int) error {
		work(start, end)
		return nil
	})
}

// ExecuteErr is Execute for work that can fail. Every sub-range still runs;
// the first error returned by any of them is reported.
func ExecuteErr(n, workers int, work func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		return work(0, n)
	}

	chunk := n / workers
	rem := n % workers

	var g errgroup.Group
	g.SetLimit(workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + chunk
		if i < rem {
			end++
		}
		s, e := start, end
		g.Go(func() error {
			return work(s, e)
		})
		start = end
	}
	return g.Wait()
}
