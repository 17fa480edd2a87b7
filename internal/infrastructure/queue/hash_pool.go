package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/inventory-api/internal/api/metrics"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

const channelBuffer = 256

// ErrPoolStopped is returned for jobs submitted after the pool shut down.
var ErrPoolStopped = errors.New("hash pool stopped")

type job struct {
	op  string
	run func()
	// done is closed by the worker once run returns.
	done chan struct{}
}

// HashPool runs CPU-bound password hashing on a fixed set of workers so a
// burst of logins cannot starve unrelated requests. It wraps another
// PasswordHasher and satisfies the same interface.
type HashPool struct {
	jobs    chan job
	workers int
	hasher  ports.PasswordHasher
	log     zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewHashPool(numWorkers int, hasher ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		hasher:  hasher,
		log:     log,
		stopped: make(chan struct{}),
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		p.stopOnce.Do(func() { close(p.stopped) })
	}()
	p.log.Info().Int("workers", p.workers).Msg("hash pool started")
}

// Wait blocks until every worker has returned.
func (p *HashPool) Wait() {
	p.wg.Wait()
}

func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	var (
		hash string
		err  error
	)
	if subErr := p.submit(ctx, "hash", func() {
		hash, err = p.hasher.Hash(ctx, plaintext)
	}); subErr != nil {
		return "", subErr
	}
	return hash, err
}

func (p *HashPool) Compare(ctx context.Context, hash, plaintext string) error {
	var err error
	if subErr := p.submit(ctx, "compare", func() {
		err = p.hasher.Compare(ctx, hash, plaintext)
	}); subErr != nil {
		return subErr
	}
	return err
}

// submit enqueues fn and waits for a worker to finish it. The caller gives
// up when ctx is cancelled; a job already picked up still runs to completion
// but its result is discarded.
func (p *HashPool) submit(ctx context.Context, op string, fn func()) error {
	j := job{op: op, run: fn, done: make(chan struct{})}

	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	// Counted before the send so a worker's Dec never runs ahead of it.
	metrics.HashQueueDepth.Inc()
	select {
	case p.jobs <- j:
	case <-p.stopped:
		metrics.HashQueueDepth.Dec()
		return ErrPoolStopped
	case <-ctx.Done():
		metrics.HashQueueDepth.Dec()
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-p.stopped:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Dec()
			start := time.Now()
			j.run()
			metrics.HashDuration.WithLabelValues(j.op).Observe(time.Since(start).Seconds())
			close(j.done)
			p.log.Trace().Int("worker_id", id).Str("op", j.op).Dur("took", time.Since(start)).Msg("hash job done")
		}
	}
}
