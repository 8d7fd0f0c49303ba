// Package worker defines worker contracts for asynchronous ingestion of
// wellness updates: each update is written to the history store and any
// memoized readiness results it stales are invalidated.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/fettle/internal/domain/model"
	"github.com/okian/fettle/pkg/logger"
	"github.com/okian/fettle/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Update is what workers read off the queue.
type Update = model.Update

// Storer writes a wellness record into the history store.
type Storer interface {
	Put(ctx context.Context, athleteID string, rec model.WellnessRecord) (bool, error)
}

// Invalidator drops memoized results staled by an update.
type Invalidator interface {
	Invalidate(ctx context.Context, athleteID string, day time.Time)
}

// Queue defines how workers receive updates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Update
}

// Worker ingests updates using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for ingesting updates.
type InMemoryWorker struct {
	queue       Queue
	store       Storer
	invalidator Invalidator
	name        string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, store Storer, invalidator Invalidator, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:       queue,
		store:       store,
		invalidator: invalidator,
		name:        "worker",
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	updates := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := w.processUpdate(ctx, u); err != nil {
				w.logger.Error(ctx, "error ingesting update", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processUpdate writes one update and invalidates what it stales.
func (w *InMemoryWorker) processUpdate(ctx context.Context, u Update) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	created, err := w.store.Put(ctx, u.AthleteID, u.Record)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "store write failed for update",
			logger.String("updateID", string(u.UpdateID)),
			logger.String("athleteID", u.AthleteID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to store update %s: %w", u.UpdateID, err)
	}

	// Any change to a day stales that day's memoized result and every
	// later day whose baselines include it.
	if w.invalidator != nil {
		w.invalidator.Invalidate(ctx, u.AthleteID, u.Record.Day())
	}

	metrics.RecordUpdateIngested()
	w.logger.Debug(ctx, "update ingested",
		logger.String("updateID", string(u.UpdateID)),
		logger.String("athleteID", u.AthleteID),
		logger.Any("created", created),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers     []*InMemoryWorker
	queue       Queue
	store       Storer
	invalidator Invalidator

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, store Storer, invalidator Invalidator) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:     make([]*InMemoryWorker, workerCount),
		queue:       queue,
		store:       store,
		invalidator: invalidator,
		shutdown:    make(chan struct{}),
		logger:      logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			store,
			invalidator,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		close(worker.shutdown)
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so no new updates arrive.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
