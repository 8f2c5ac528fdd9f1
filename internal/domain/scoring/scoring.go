// Package scoring computes a composite activity score from a player's
// activity timeline. It is the downstream consumer of the timeline engine's
// output: a well-formed, ascending, de-duplicated event list.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// Breakdown category names.
const (
	CategoryDonations   = "donations"
	CategoryTrophies    = "trophies"
	CategoryWar         = "war"
	CategoryCapital     = "capital"
	CategoryUpgrades    = "upgrades"
	CategoryConsistency = "consistency"
)

// Activity level bands, highest first.
const (
	LevelVeryHigh = "Very High"
	LevelHigh     = "High"
	LevelModerate = "Moderate"
	LevelLow      = "Low"
	LevelInactive = "Inactive"
)

const (
	maxScore            = 100
	defaultLookbackDays = 30
)

// Input carries a player's timeline and the evaluation window.
type Input struct {
	Timeline     []model.ActivityEvent
	LookbackDays int
}

// Result is the composite score with its per-category breakdown.
type Result struct {
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
	Level     string             `json:"level"`
}

// Scorer computes an activity score from a timeline.
type Scorer interface {
	Score(ctx context.Context, in Input) (Result, error)
}

// WeightedScorer implements Scorer with weighted category accumulation.
// Category contributions are capped so one hyperactive dimension cannot
// saturate the composite on its own.
type WeightedScorer struct {
	weights map[string]float64
	caps    map[string]float64
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights overrides category weights. Non-positive weights are ignored.
func WithWeights(weights map[string]float64) Option {
	return func(s *WeightedScorer) {
		for category, w := range weights {
			if w > 0 {
				s.weights[category] = w
			}
		}
	}
}

// WithCaps overrides per-category contribution caps.
func WithCaps(caps map[string]float64) Option {
	return func(s *WeightedScorer) {
		for category, c := range caps {
			if c > 0 {
				s.caps[category] = c
			}
		}
	}
}

// NewWeightedScorer creates a scorer with default weights and caps.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		weights: map[string]float64{
			CategoryDonations:   0.15,
			CategoryTrophies:    0.10,
			CategoryWar:         2.0,
			CategoryCapital:     0.01,
			CategoryUpgrades:    4.0,
			CategoryConsistency: 25.0,
		},
		caps: map[string]float64{
			CategoryDonations:   25,
			CategoryTrophies:    20,
			CategoryWar:         20,
			CategoryCapital:     10,
			CategoryUpgrades:    15,
			CategoryConsistency: 25,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates the trailing lookback window of the timeline. Events are
// anchored on the last event's date, so scoring stays deterministic for a
// fixed timeline regardless of wall-clock time.
func (s *WeightedScorer) Score(ctx context.Context, in Input) (Result, error) {
	lookback := in.LookbackDays
	if lookback <= 0 {
		lookback = defaultLookbackDays
	}

	breakdown := map[string]float64{
		CategoryDonations:   0,
		CategoryTrophies:    0,
		CategoryWar:         0,
		CategoryCapital:     0,
		CategoryUpgrades:    0,
		CategoryConsistency: 0,
	}

	events := windowEvents(in.Timeline, lookback)
	if len(events) == 0 {
		return Result{Score: 0, Breakdown: breakdown, Level: levelFor(0)}, nil
	}

	var donated, received, trophies, war, capital, upgrades float64
	activeDays := 0
	for i := range events {
		ev := &events[i]
		d := &ev.Deltas
		donated += math.Abs(float64(d.Donations))
		received += math.Abs(float64(d.DonationsReceived))
		trophies += math.Abs(float64(d.Trophies))
		war += float64(max(d.WarStars, 0) + max(d.AttackWins, 0))
		capital += float64(max(d.CapitalContributions, 0))
		upgrades += float64(len(ev.HeroUpgrades) + len(ev.PetUpgrades) + len(ev.EquipmentUpgrades))
		if d.Trophies != 0 || d.Donations != 0 || len(ev.HeroUpgrades) > 0 {
			activeDays++
		}
	}
	consistency := float64(activeDays) / float64(lookback)

	breakdown[CategoryDonations] = s.contribution(CategoryDonations, donated+received/2)
	breakdown[CategoryTrophies] = s.contribution(CategoryTrophies, trophies)
	breakdown[CategoryWar] = s.contribution(CategoryWar, war)
	breakdown[CategoryCapital] = s.contribution(CategoryCapital, capital)
	breakdown[CategoryUpgrades] = s.contribution(CategoryUpgrades, upgrades)
	breakdown[CategoryConsistency] = s.contribution(CategoryConsistency, consistency)

	var score float64
	for _, v := range breakdown {
		score += v
	}
	score = math.Min(maxScore, math.Max(0, math.Round(score*10)/10))

	return Result{Score: score, Breakdown: breakdown, Level: levelFor(score)}, nil
}

// contribution applies the category weight and cap, rounded to one decimal.
func (s *WeightedScorer) contribution(category string, raw float64) float64 {
	v := raw * s.weights[category]
	if c, ok := s.caps[category]; ok {
		v = math.Min(c, v)
	}
	return math.Round(v*10) / 10
}

// windowEvents keeps the events within lookback days of the last event.
func windowEvents(events []model.ActivityEvent, lookback int) []model.ActivityEvent {
	if len(events) == 0 {
		return nil
	}
	anchor, err := time.Parse("2006-01-02", events[len(events)-1].Date)
	if err != nil {
		return events
	}
	cutoff := anchor.AddDate(0, 0, -lookback).Format("2006-01-02")
	start := 0
	for start < len(events) && events[start].Date < cutoff {
		start++
	}
	return events[start:]
}

func levelFor(score float64) string {
	switch {
	case score >= 80:
		return LevelVeryHigh
	case score >= 60:
		return LevelHigh
	case score >= 45:
		return LevelModerate
	case score >= 20:
		return LevelLow
	default:
		return LevelInactive
	}
}
