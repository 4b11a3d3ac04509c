package scene

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Scheduler runs fn(i) for every i in [0, n) and returns when all calls are
// done. Calls for different i may run concurrently.
type Scheduler interface {
	ForEach(n int, fn func(i int))
}

// Sequential runs every call on the caller's goroutine, in order.
type Sequential struct{}

func (Sequential) ForEach(n int, fn func(i int)) {
	for i := range n {
		fn(i)
	}
}

// Pool runs calls on at most Workers goroutines.
// Zero or negative Workers means one per available CPU.
type Pool struct {
	Workers int
}

func (p Pool) ForEach(n int, fn func(i int)) {
	limit := p.Workers
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// NewScheduler returns Sequential for one worker and a Pool otherwise.
func NewScheduler(workers int) Scheduler {
	if workers == 1 {
		return Sequential{}
	}
	return Pool{Workers: workers}
}
