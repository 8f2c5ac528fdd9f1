// Package worker defines worker contracts for asynchronous snapshot
// persistence.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/warfroggy/clashlens/internal/adapters/mq/queue"
	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/logger"
	"github.com/warfroggy/clashlens/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	gaugeUpdateInterval     = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Task abstracts what workers read off the queue.
type Task = queue.Task

// Saver persists one snapshot row for a player.
type Saver interface {
	Save(ctx context.Context, playerTag string, row model.RawSnapshot) error
}

// Releaser forgets a recorded row ID so a failed row can be resubmitted.
type Releaser interface {
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes ingest tasks and writes rows to the store.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining tasks before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for persisting snapshot rows.
type InMemoryWorker struct {
	queue    Queue
	saver    Saver
	releaser Releaser
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, saver Saver, releaser Releaser, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		saver:    saver,
		releaser: releaser,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
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
	defer func() {
		close(w.done)
	}()

	taskChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-taskChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processTask(ctx, task); err != nil {
				w.logger.Error(ctx, "error processing task", logger.Error(err))
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

// processTask persists a single snapshot row. On failure the row ID is
// released from the dedupe set so the client can resubmit it.
func (w *InMemoryWorker) processTask(ctx context.Context, task Task) error {
	if err := w.saver.Save(ctx, task.PlayerTag, task.Row); err != nil {
		metrics.RecordErrorByComponent("worker", "save_error")
		if w.releaser != nil && task.Row.ID != "" {
			w.releaser.Unrecord(ctx, task.Row.ID)
		}
		w.logger.Error(ctx, "saving snapshot failed",
			logger.String("player", task.PlayerTag),
			logger.String("rowID", task.Row.ID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to save snapshot %s: %w", task.Row.ID, err)
	}

	metrics.RecordSnapshotIngested()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	saver    Saver
	releaser Releaser

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, saver Saver, releaser Releaser) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		saver:    saver,
		releaser: releaser,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			saver,
			releaser,
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

	go p.startGaugeUpdater(ctx)
}

// startGaugeUpdater refreshes store gauges while the pool runs.
func (p *Pool) startGaugeUpdater(ctx context.Context) {
	counter, ok := p.saver.(interface {
		Count(ctx context.Context) int
		Players(ctx context.Context) ([]string, error)
	})
	if !ok {
		return
	}

	ticker := time.NewTicker(gaugeUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			metrics.UpdateStoreRows(counter.Count(ctx))
			if players, err := counter.Players(ctx); err == nil {
				metrics.UpdateStorePlayers(len(players))
			}
		}
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue first so workers drain remaining tasks and stop.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

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
