package timeline

import (
	"context"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/metrics"
)

// DefaultWindow caps the number of most-recent events returned by Build.
const DefaultWindow = 60

// Engine turns batches of raw snapshots into daily activity timelines.
// It holds no state between calls; Build is a pure function of its input
// and is safe for concurrent use.
type Engine struct {
	window int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWindow sets the trailing window size. Values below 1 are ignored.
func WithWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// New creates an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{window: DefaultWindow}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build reconstructs the activity timeline for one player from an unordered,
// possibly duplicated batch of raw snapshots. Rows without a parseable date
// are dropped; unparseable scalars degrade to missing values. The result is
// ascending by day, at most one event per day, never empty for input that
// contains at least one valid row, and capped at the configured window.
func (e *Engine) Build(ctx context.Context, rows []model.RawSnapshot) []model.ActivityEvent {
	start := time.Now()

	normalized, dropped := normalize(rows)
	days := collapseDays(normalized)

	cands := make([]candidate, 0, len(days))
	var prev *resolvedState
	for _, day := range days {
		next, cand := foldStep(prev, day)
		prev = &next
		cands = append(cands, cand)
	}

	events := trimWindow(cands, e.window)

	metrics.RecordTimelineBuild()
	metrics.RecordTimelineBuildDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordTimelineEvents(len(events))
	metrics.RecordTimelineRowsDropped(dropped)

	return events
}
