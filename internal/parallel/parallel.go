// Package parallel splits index ranges across worker goroutines.
//
// Each worker owns a disjoint [start, end) chunk, so callers that write only
// to their own indices get results identical to a serial loop.
package parallel

import (
	"runtime"
	"sync"
)

// Workers is the maximum number of goroutines For will start. Zero means
// runtime.GOMAXPROCS(0).
var Workers = 0

// For executes fn over [0, n) in chunks of at least minChunk elements.
func For(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	numWorkers := Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
