// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	taskqueue "github.com/warfroggy/clashlens/internal/adapters/mq/queue"
	workerpool "github.com/warfroggy/clashlens/internal/adapters/mq/worker"
	"github.com/warfroggy/clashlens/internal/adapters/repository"
	"github.com/warfroggy/clashlens/internal/domain/dedupe"
	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/internal/domain/scoring"
	"github.com/warfroggy/clashlens/internal/domain/timeline"
	"github.com/warfroggy/clashlens/internal/domain/types"
	"github.com/warfroggy/clashlens/pkg/logger"
	"github.com/warfroggy/clashlens/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize    = 100000
	defaultDedupeSize   = 50000
	defaultLookbackDays = 30
)

// Service implements the API dependencies for the timeline system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	deduper   dedupe.Deduper
	taskQueue taskqueue.Queue
	engine    *timeline.Engine
	scorer    scoring.Scorer
	pool      *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	timelineWindow int
	lookbackDays   int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStore injects a snapshot store, e.g. the Postgres-backed one. The
// default is the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTimelineWindow bounds how many trailing events a timeline keeps.
func WithTimelineWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.timelineWindow = window
		}
	}
}

// WithLookbackDays sets the activity scoring lookback.
func WithLookbackDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.lookbackDays = days
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		timelineWindow: timeline.DefaultWindow,
		lookbackDays:   defaultLookbackDays,
		stopCh:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting timeline service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory snapshot store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.taskQueue = taskqueue.NewInMemoryQueue(
		taskqueue.WithCapacity(s.queueSize),
		taskqueue.WithBufferSize(s.queueSize),
	)
	s.engine = timeline.New(
		timeline.WithWindow(s.timelineWindow),
	)
	s.scorer = scoring.NewWeightedScorer()

	s.pool = workerpool.NewPool(s.workerCount, s.taskQueue, s.store, s.deduper)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "timeline service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("timelineWindow", s.timelineWindow),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping timeline service...")

	// Shutdown drains the queue so accepted rows reach the store.
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "timeline service stopped")
}

// SeenAndRecord atomically checks if a row id was seen and records it if not.
// Returns true if the row was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSnapshotDuplicate()
	}
	return seen
}

// Unrecord removes a row ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a snapshot row for asynchronous persistence.
func (s *Service) Enqueue(ctx context.Context, playerTag string, row model.RawSnapshot) bool {
	ok := s.taskQueue.Enqueue(ctx, taskqueue.Task{PlayerTag: playerTag, Row: row})
	if !ok {
		s.logger.Warn(ctx, "ingest queue rejected row",
			logger.String("player", playerTag),
			logger.String("rowID", row.ID),
		)
	}
	return ok
}

// History reconstructs a player's activity event timeline over the trailing
// number of days.
func (s *Service) History(ctx context.Context, playerTag string, days int) (types.History, error) {
	if days < 1 {
		days = defaultLookbackDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.store.History(ctx, playerTag, since)
	if err != nil {
		return types.History{}, fmt.Errorf("loading history for %s: %w", playerTag, err)
	}

	events := s.engine.Build(ctx, rows)
	return types.History{
		PlayerTag:      playerTag,
		Days:           days,
		SnapshotsFound: len(rows),
		Events:         events,
	}, nil
}

// Activity scores a player's recent activity from their reconstructed
// timeline.
func (s *Service) Activity(ctx context.Context, playerTag string) (types.Activity, error) {
	history, err := s.History(ctx, playerTag, s.lookbackDays)
	if err != nil {
		return types.Activity{}, err
	}

	result, err := s.scorer.Score(ctx, scoring.Input{
		Timeline:     history.Events,
		LookbackDays: s.lookbackDays,
	})
	if err != nil {
		return types.Activity{}, fmt.Errorf("scoring activity for %s: %w", playerTag, err)
	}

	return types.Activity{
		PlayerTag:    playerTag,
		Score:        result.Score,
		Level:        result.Level,
		Breakdown:    result.Breakdown,
		LookbackDays: s.lookbackDays,
		Events:       len(history.Events),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.taskQueue.Len(ctx)
		totalRows := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalSnapshots"] = totalRows
		if players, err := s.store.Players(ctx); err == nil {
			stats["totalPlayers"] = len(players)
			metrics.UpdateStorePlayers(len(players))
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRows(totalRows)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
