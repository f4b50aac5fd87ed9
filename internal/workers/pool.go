package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrQueueFull  = errors.New("worker queue full")
	ErrPoolClosed = errors.New("worker pool closed")
)

// Pool runs handle on queued jobs with a fixed number of goroutines.
// Submit never blocks: when the buffer is full the job is refused.
type Pool[T any] struct {
	name    string
	handle  func(context.Context, T)
	queue   chan T
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	start  sync.Once
}

func NewPool[T any](name string, bufferSize, workers int, handle func(context.Context, T)) *Pool[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{
		name:    name,
		handle:  handle,
		queue:   make(chan T, bufferSize),
		workers: workers,
	}
}

func (p *Pool[T]) Start() {
	p.start.Do(func() {
		log.Info().Str("pool", p.name).Int("workers", p.workers).Msg("Starting worker pool")
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.run()
		}
	})
}

func (p *Pool[T]) run() {
	defer p.wg.Done()
	for job := range p.queue {
		p.safeHandle(job)
	}
}

func (p *Pool[T]) safeHandle(job T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("pool", p.name).Interface("panic", r).Msg("Recovered from panic in worker")
		}
	}()

	// Jobs outlive the request that queued them.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.handle(ctx, job)
}

func (p *Pool[T]) Submit(job T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new jobs and waits for queued ones to finish or ctx to expire.
func (p *Pool[T]) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	// Queued jobs still run when Start was never called.
	p.Start()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Str("pool", p.name).Msg("Worker pool drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every calls fn on each tick until ctx is cancelled.
func Every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
