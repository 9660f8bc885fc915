package worker

import "context"

// Pool runs submitted jobs on a fixed set of background goroutines so
// that slow blocking calls never run on a channel adapter's own
// goroutine. Concurrency is bounded by the pool size; extra jobs queue.
type Pool struct {
	jobs chan func()
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{jobs: make(chan func())}
	for i := 0; i < size; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	for job := range p.jobs {
		job()
	}
}

// Do submits fn to the pool and waits for it to finish. Cancellation is
// honored only while the job is still queued; once a worker picks it up
// the caller waits for the result unconditionally.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case p.jobs <- func() { done <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-done
}
