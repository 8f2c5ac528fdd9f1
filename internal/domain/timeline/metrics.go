// Package timeline reconstructs a canonical, chronologically ordered
// sequence of daily activity events from noisy, unordered player snapshots.
//
// The pipeline is a pure function of its input: normalize rows, collapse
// them to one representative per UTC day, then fold forward carrying the
// most recent known value for every metric. It never errors; malformed
// input degrades to "missing data".
package timeline

import "github.com/warfroggy/clashlens/internal/domain/model"

// metricID indexes the scalar metrics tracked per snapshot.
type metricID int

const (
	metricTrophies metricID = iota
	metricRankedTrophies
	metricDonations
	metricDonationsReceived
	metricActivityScore
	metricWarStars
	metricAttackWins
	metricDefenseWins
	metricCapitalContributions
	metricBuilderHall
	metricVersusBattleWins
	metricMaxTroopCount
	metricMaxSpellCount
	metricAchievementCount
	metricExpLevel

	metricCount
)

// levelLike marks metrics whose first-day resolved default is "unknown"
// rather than zero. Counts start at zero; levels cannot.
var levelLike = map[metricID]bool{
	metricBuilderHall: true,
	metricExpLevel:    true,
}

// rawScalars extracts the loosely typed scalar fields in metricID order.
func rawScalars(r *model.RawSnapshot) [metricCount]any {
	return [metricCount]any{
		metricTrophies:             r.Trophies,
		metricRankedTrophies:       r.RankedTrophies,
		metricDonations:            r.Donations,
		metricDonationsReceived:    r.DonationsReceived,
		metricActivityScore:        r.ActivityScore,
		metricWarStars:             r.WarStars,
		metricAttackWins:           r.AttackWins,
		metricDefenseWins:          r.DefenseWins,
		metricCapitalContributions: r.ClanCapitalContributions,
		metricBuilderHall:          r.BuilderHallLevel,
		metricVersusBattleWins:     r.VersusBattleWins,
		metricMaxTroopCount:        r.MaxTroopCount,
		metricMaxSpellCount:        r.MaxSpellCount,
		metricAchievementCount:     r.AchievementCount,
		metricExpLevel:             r.ExpLevel,
	}
}
