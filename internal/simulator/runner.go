package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/logger"
)

// settleDelay gives the async ingest pipeline time to drain before reads.
const settleDelay = 2 * time.Second

// Run generates synthetic batches, submits them, and checks the
// reconstructed timelines.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get().Named("simulator")
	stats := &Stats{StartTime: time.Now()}

	batches := generateBatches(cfg, stats)
	log.Info(ctx, "generated snapshot batches",
		logger.Int("players", len(batches)),
		logger.Int("rows", stats.RowsGenerated),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)

	for _, b := range batches {
		ack, err := c.postSnapshots(ctx, b.tag, b.rows)
		if err != nil {
			return stats, fmt.Errorf("submitting batch for %s: %w", b.tag, err)
		}
		stats.RowsSubmitted += len(b.rows)
		stats.RowsAccepted += ack.Accepted
		stats.RowsDuplicate += ack.Duplicates
		stats.RowsFailed += ack.Rejected

		if cfg.Verbose {
			log.Info(ctx, "submitted batch",
				logger.String("player", b.tag),
				logger.Int("accepted", ack.Accepted),
				logger.Int("duplicates", ack.Duplicates),
			)
		}
	}

	select {
	case <-ctx.Done():
		return stats, ctx.Err()
	case <-time.After(settleDelay):
	}

	for _, b := range batches {
		stats.PlayersChecked++
		if err := verifyPlayer(ctx, c, b); err != nil {
			stats.ChecksFailed++
			log.Error(ctx, "timeline check failed",
				logger.String("player", b.tag),
				logger.Error(err),
			)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "simulation finished",
		logger.Int("playersChecked", stats.PlayersChecked),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
	)

	if stats.ChecksFailed > 0 {
		return stats, fmt.Errorf("%d of %d player checks failed", stats.ChecksFailed, stats.PlayersChecked)
	}
	return stats, nil
}

// verifyPlayer checks the reconstructed timeline against the guarantees the
// engine makes: ascending unique dates, at least one event, and identical
// output on a second read.
func verifyPlayer(ctx context.Context, c *client, b batch) error {
	days := b.days
	if days > 90 {
		days = 90
	}

	first, err := c.getHistory(ctx, b.tag, days)
	if err != nil {
		return err
	}
	if len(first.Events) == 0 {
		return fmt.Errorf("empty timeline for %d stored rows", first.SnapshotsFound)
	}
	if err := checkAscendingUnique(first.Events); err != nil {
		return err
	}

	second, err := c.getHistory(ctx, b.tag, days)
	if err != nil {
		return err
	}
	if len(second.Events) != len(first.Events) {
		return fmt.Errorf("non-deterministic rebuild: %d events then %d", len(first.Events), len(second.Events))
	}
	for i := range first.Events {
		if first.Events[i].Date != second.Events[i].Date || first.Events[i].Summary != second.Events[i].Summary {
			return fmt.Errorf("non-deterministic rebuild at %s", first.Events[i].Date)
		}
	}

	activity, err := c.getActivity(ctx, b.tag)
	if err != nil {
		return err
	}
	if activity.Score < 0 || activity.Score > 100 {
		return fmt.Errorf("activity score %f out of range", activity.Score)
	}
	if activity.Level == "" {
		return fmt.Errorf("missing activity level")
	}

	return nil
}

func checkAscendingUnique(events []model.ActivityEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].Date <= events[i-1].Date {
			return fmt.Errorf("dates not strictly ascending: %s then %s", events[i-1].Date, events[i].Date)
		}
	}
	return nil
}
