package timeline

import "github.com/warfroggy/clashlens/internal/domain/model"

// resolvedState is the carry-forward view of all metrics as of one day.
// raw holds the most recent reported value per metric; resolved holds the
// carry-forward value exposed on events. States are never mutated once
// produced; each fold step builds a fresh one.
type resolvedState struct {
	raw      [metricCount]*int
	resolved [metricCount]*int

	heroes      map[string]int
	pets        map[string]int
	equipment   map[string]int
	superTroops []string
}

// candidate is one per-day event plus the significance flag used during
// window trimming.
type candidate struct {
	event       model.ActivityEvent
	significant bool
}

// foldStep resolves one day against the previous state and emits the day's
// event candidate. prev is nil on the very first day.
func foldStep(prev *resolvedState, r row) (resolvedState, candidate) {
	var next resolvedState
	var deltas [metricCount]int

	for m := metricID(0); m < metricCount; m++ {
		raw := r.scalars[m]

		// Carry the most recent reported value; deltas bridge report gaps.
		next.raw[m] = raw
		if raw == nil && prev != nil {
			next.raw[m] = prev.raw[m]
		}

		// resolved = raw ?? previous resolved ?? default.
		switch {
		case raw != nil:
			next.resolved[m] = raw
		case prev != nil && prev.resolved[m] != nil:
			next.resolved[m] = prev.resolved[m]
		case !levelLike[m]:
			zero := 0
			next.resolved[m] = &zero
		}

		if raw != nil && prev != nil && prev.raw[m] != nil {
			deltas[m] = *raw - *prev.raw[m]
		}
	}

	// Ranked trophies are the canonical trophy signal when reported on both
	// sides of the comparison; otherwise plain trophies carry the delta.
	trophyDelta := deltas[metricTrophies]
	if r.scalars[metricRankedTrophies] != nil && prev != nil && prev.raw[metricRankedTrophies] != nil {
		trophyDelta = deltas[metricRankedTrophies]
	}

	next.heroes = resolveMap(r.heroes, prev, func(s *resolvedState) map[string]int { return s.heroes })
	next.pets = resolveMap(r.pets, prev, func(s *resolvedState) map[string]int { return s.pets })
	next.equipment = resolveMap(r.equipment, prev, func(s *resolvedState) map[string]int { return s.equipment })

	next.superTroops = r.superTroops
	if next.superTroops == nil && prev != nil {
		next.superTroops = prev.superTroops
	}

	var prevHeroes, prevPets, prevEquipment map[string]int
	var prevTroops []string
	if prev != nil {
		prevHeroes, prevPets, prevEquipment = prev.heroes, prev.pets, prev.equipment
		prevTroops = prev.superTroops
	}

	heroUps := diffLevels(prevHeroes, next.heroes, heroKeys, false)
	petUps := diffLevels(prevPets, next.pets, nil, prev != nil)
	equipUps := diffLevels(prevEquipment, next.equipment, nil, prev != nil)
	activated, deactivated := diffSuperTroops(prevTroops, next.superTroops, prev == nil)

	ev := model.ActivityEvent{
		Date:              r.day,
		Trophies:          deref(next.resolved[metricTrophies]),
		RankedTrophies:    deref(next.resolved[metricRankedTrophies]),
		Donations:         deref(next.resolved[metricDonations]),
		DonationsReceived: deref(next.resolved[metricDonationsReceived]),
		ActivityScore:     r.scalars[metricActivityScore],
		Deltas: model.Deltas{
			Trophies:             trophyDelta,
			RankedTrophies:       trophyDelta,
			Donations:            deltas[metricDonations],
			DonationsReceived:    deltas[metricDonationsReceived],
			WarStars:             deltas[metricWarStars],
			AttackWins:           deltas[metricAttackWins],
			DefenseWins:          deltas[metricDefenseWins],
			CapitalContributions: deltas[metricCapitalContributions],
			BuilderHall:          deltas[metricBuilderHall],
			VersusBattleWins:     deltas[metricVersusBattleWins],
			MaxTroopCount:        deltas[metricMaxTroopCount],
			MaxSpellCount:        deltas[metricMaxSpellCount],
			AchievementCount:     deltas[metricAchievementCount],
			ExpLevel:             deltas[metricExpLevel],
		},
		HeroUpgrades:           heroUpgrades(heroUps),
		PetUpgrades:            petUpgrades(petUps),
		EquipmentUpgrades:      equipmentUpgrades(equipUps),
		SuperTroopsActivated:   activated,
		SuperTroopsDeactivated: deactivated,
	}

	sig := significant(&ev)
	ev.Summary = buildSummary(&ev)

	return next, candidate{event: ev, significant: sig}
}

// resolveMap applies the map carry-forward rule: the day's map if reported,
// else the previous day's, else empty.
func resolveMap(raw map[string]int, prev *resolvedState, get func(*resolvedState) map[string]int) map[string]int {
	if raw != nil {
		return raw
	}
	if prev != nil && get(prev) != nil {
		return get(prev)
	}
	return map[string]int{}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func heroUpgrades(changes []levelChange) []model.HeroUpgrade {
	out := make([]model.HeroUpgrade, len(changes))
	for i, c := range changes {
		out[i] = model.HeroUpgrade{Hero: c.name, From: c.from, To: c.to}
	}
	return out
}

func petUpgrades(changes []levelChange) []model.PetUpgrade {
	out := make([]model.PetUpgrade, len(changes))
	for i, c := range changes {
		out[i] = model.PetUpgrade{Pet: c.name, From: c.from, To: c.to}
	}
	return out
}

func equipmentUpgrades(changes []levelChange) []model.EquipmentUpgrade {
	out := make([]model.EquipmentUpgrade, len(changes))
	for i, c := range changes {
		out[i] = model.EquipmentUpgrade{Equipment: c.name, From: c.from, To: c.to}
	}
	return out
}
