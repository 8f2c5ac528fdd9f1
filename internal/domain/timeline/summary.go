package timeline

import (
	"fmt"
	"strings"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// heroLabels maps hero keys to display names for summaries.
var heroLabels = map[string]string{
	"bk": "Barbarian King",
	"aq": "Archer Queen",
	"gw": "Grand Warden",
	"rc": "Royal Champion",
	"mp": "Minion Prince",
}

// steadySummary is attached to days with nothing notable to describe.
const steadySummary = "Steady progress snapshot"

// significant reports whether a day's event is a primary activity signal:
// at least one hero upgrade or a nonzero trophy/donation delta. Pet,
// equipment and super-troop changes enrich the summary but do not retain a
// day on their own.
func significant(ev *model.ActivityEvent) bool {
	return len(ev.HeroUpgrades) > 0 ||
		ev.Deltas.Trophies != 0 ||
		ev.Deltas.Donations != 0 ||
		ev.Deltas.DonationsReceived != 0
}

// buildSummary composes the human-readable description of a day: one clause
// per applicable condition, in a fixed order, joined with newlines.
func buildSummary(ev *model.ActivityEvent) string {
	var clauses []string

	if len(ev.HeroUpgrades) > 0 {
		parts := make([]string, len(ev.HeroUpgrades))
		for i, up := range ev.HeroUpgrades {
			label, ok := heroLabels[up.Hero]
			if !ok {
				label = up.Hero
			}
			from := "?"
			if up.From != nil {
				from = fmt.Sprintf("%d", *up.From)
			}
			parts[i] = fmt.Sprintf("%s %s→%d", label, from, up.To)
		}
		clauses = append(clauses, "Hero upgrades: "+strings.Join(parts, ", "))
	}

	if d := ev.Deltas.Trophies; d != 0 {
		clauses = append(clauses, fmt.Sprintf("Ranked trophies %+d", d))
	}
	if d := ev.Deltas.Donations; d != 0 {
		clauses = append(clauses, fmt.Sprintf("Donated %+d", d))
	}
	if d := ev.Deltas.DonationsReceived; d != 0 {
		clauses = append(clauses, fmt.Sprintf("Received %+d", d))
	}

	if len(clauses) == 0 {
		return steadySummary
	}
	return strings.Join(clauses, "\n")
}
