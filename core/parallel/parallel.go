// Package parallel は行単位の処理をCPUコア数に応じて分割実行するヘルパーです。
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize は items 件の処理を CPU コア数で区間 [start, end) に分割し、
// fn を並列に実行します。全ての区間が終わるまで戻りません。
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold は items が threshold 以下なら逐次実行し、
// それを超える場合だけ Parallelize を使います。
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
