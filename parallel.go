package wad

import "golang.org/x/sync/errgroup"

// forEach calls fn for every index in [0, n) on at most workers goroutines and returns the first
// error. With one worker the calls run in order.
func forEach(workers, n int, fn func(i int) error) error {
	if workers <= 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range n {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
