// Package pipeline fans work out over a fixed pool of goroutines.
package pipeline

import (
	"runtime"
	"sync"
)

// Run calls fn for every item on up to workers goroutines and returns the errors in no
// particular order. workers <= 0 uses one worker per CPU.
func Run[T any](items []T, workers int, fn func(T) error) []error {
	if len(items) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan T)
	errs := make(chan error, len(items))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if err := fn(item); err != nil {
					errs <- err
				}
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
