package dispatch

import (
	"errors"
	"sync"

	"github.com/devrpc-io/devrpc/internal/observability"
)

var (
	ErrPoolClosed = errors.New("dispatch: pool closed")
	ErrQueueFull  = errors.New("dispatch: task queue full")
)

const (
	defaultWorkers    = 4
	defaultQueueDepth = 64
)

// Pool runs spawned handlers on a fixed set of worker goroutines over a
// bounded queue. Submit never blocks the dispatch path: a full queue is a
// submission failure, surfaced to the caller as a FailedToSpawn frame.
type Pool struct {
	tasks     chan func()
	closed    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewPool(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	p := &Pool{
		tasks:  make(chan func(), queueDepth),
		closed: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			return
		case task := <-p.tasks:
			runTask(task)
		}
	}
}

// runTask keeps a panicking handler from taking down the pool worker.
func runTask(task func()) {
	defer func() {
		if rv := recover(); rv != nil {
			logger := observability.Logger("pool")
			logger.Error().Any("panic", rv).Msg("spawned handler panicked")
		}
	}()
	task()
}

// Submit enqueues one task without blocking.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return nil
	}
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	case <-p.closed:
		return ErrPoolClosed
	default:
		return ErrQueueFull
	}
}

// Close stops the workers and waits for in-flight tasks to finish. Queued
// tasks that no worker picked up are abandoned; there is no cancellation
// primitive at this layer.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	p.wg.Wait()
}
