package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// Tag alphabet used by real player tags.
const tagAlphabet = "0289PYLQGRJCUV"

const generatedTagLength = 8

// Probabilities shaping the noise profile of generated batches.
const (
	missingFieldChance = 0.25
	extraRowChance     = 0.35
	heroUpgradeChance  = 0.08
	superTroopChance   = 0.10
	stringNumberChance = 0.15
)

var heroNames = []string{"bk", "aq", "gw", "rc", "mp"}

var superTroopNames = []string{"sneaky_goblin", "super_barbarian", "rocket_balloon"}

// playerState carries the evolving ground truth for one synthetic player.
type playerState struct {
	tag        string
	trophies   int
	ranked     int
	donations  int
	received   int
	warStars   int
	heroLevels map[string]int
	boosted    []string
}

func newPlayerState(rng *rand.Rand) *playerState {
	tag := make([]byte, generatedTagLength)
	for i := range tag {
		tag[i] = tagAlphabet[rng.Intn(len(tagAlphabet))]
	}
	heroes := make(map[string]int, len(heroNames))
	for _, h := range heroNames {
		heroes[h] = 20 + rng.Intn(40)
	}
	return &playerState{
		tag:        "#" + string(tag),
		trophies:   2000 + rng.Intn(3000),
		ranked:     200 + rng.Intn(400),
		warStars:   rng.Intn(1500),
		heroLevels: heroes,
	}
}

// advance mutates the state by one day of simulated play.
func (p *playerState) advance(rng *rand.Rand) {
	p.trophies += rng.Intn(80) - 30
	p.ranked += rng.Intn(50) - 20
	p.donations += rng.Intn(60)
	p.received += rng.Intn(40)
	if rng.Intn(5) == 0 {
		p.warStars += 1 + rng.Intn(6)
	}
	if rng.Float64() < heroUpgradeChance {
		h := heroNames[rng.Intn(len(heroNames))]
		p.heroLevels[h]++
	}
	if rng.Float64() < superTroopChance {
		st := superTroopNames[rng.Intn(len(superTroopNames))]
		if !contains(p.boosted, st) {
			p.boosted = append(p.boosted, st)
		} else {
			p.boosted = remove(p.boosted, st)
		}
	}
}

// snapshotAt renders the state as one noisy raw row for the given day.
// Fields drop out at random and numbers sometimes arrive as strings, the
// way scraped exports tend to.
func (p *playerState) snapshotAt(rng *rand.Rand, day time.Time, seq int) model.RawSnapshot {
	ts := day.Add(time.Duration(rng.Intn(24)) * time.Hour)
	row := model.RawSnapshot{
		ID:   fmt.Sprintf("%s-%s-%d", p.tag[1:], day.Format("20060102"), seq),
		Date: ts.Format(time.RFC3339),
	}

	row.Trophies = noisyNumber(rng, p.trophies)
	row.RankedTrophies = noisyNumber(rng, p.ranked)
	row.Donations = noisyNumber(rng, p.donations)
	row.DonationsReceived = noisyNumber(rng, p.received)
	if rng.Float64() > missingFieldChance {
		row.WarStars = p.warStars
	}
	if rng.Float64() > missingFieldChance {
		heroes := make(map[string]any, len(p.heroLevels))
		for h, lvl := range p.heroLevels {
			heroes[h] = lvl
		}
		row.Heroes = heroes
	}
	if len(p.boosted) > 0 && rng.Float64() > missingFieldChance {
		row.SuperTroops = append([]string(nil), p.boosted...)
	}
	return row
}

// noisyNumber drops the value sometimes and stringifies it sometimes.
func noisyNumber(rng *rand.Rand, v int) any {
	if rng.Float64() < missingFieldChance {
		return nil
	}
	if rng.Float64() < stringNumberChance {
		return fmt.Sprintf("%d", v)
	}
	return v
}

// batch is everything generated for one player: the rows to submit, in
// deliberately shuffled order with duplicates mixed in.
type batch struct {
	tag  string
	rows []model.RawSnapshot
	days int
}

// generateBatches builds per-player noisy row batches.
func generateBatches(cfg *Config, stats *Stats) []batch {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Now().UTC().AddDate(0, 0, -cfg.Days).Truncate(24 * time.Hour)

	batches := make([]batch, 0, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		p := newPlayerState(rng)
		var rows []model.RawSnapshot

		for d := 0; d < cfg.Days; d++ {
			day := start.AddDate(0, 0, d)
			p.advance(rng)
			rows = append(rows, p.snapshotAt(rng, day, 0))
			// Some days get a second snapshot later in the day.
			if rng.Float64() < extraRowChance {
				rows = append(rows, p.snapshotAt(rng, day, 1))
			}
		}

		// Mix in exact duplicates.
		dupCount := int(float64(len(rows)) * cfg.DuplicateRate)
		for d := 0; d < dupCount; d++ {
			rows = append(rows, rows[rng.Intn(len(rows))])
		}

		// Shuffle so arrival order carries no information.
		rng.Shuffle(len(rows), func(a, b int) {
			rows[a], rows[b] = rows[b], rows[a]
		})

		stats.RowsGenerated += len(rows)
		batches = append(batches, batch{tag: p.tag, rows: rows, days: cfg.Days})
	}
	return batches
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
