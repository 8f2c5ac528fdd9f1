package timeline

import "sort"

// heroKeys is the closed hero key universe, in emission order.
var heroKeys = []string{"bk", "aq", "gw", "rc", "mp"}

// levelChange is a detected level increase for one keyed resource.
type levelChange struct {
	name string
	from *int
	to   int
}

// diffLevels compares two level maps and emits one change per level that
// went up. The key universe decides the comparison shape:
//
//   - A non-nil universe (heroes) is closed: only keys present in both maps
//     are compared, in universe order.
//   - A nil universe (pets, equipment) is open: current keys are walked in
//     sorted order; a key present in both maps with a higher current value
//     is an upgrade, and a newly appearing key with a positive level counts
//     as an upgrade only when includeNew is set. The very first day has no
//     baseline, so its entries are not upgrades.
func diffLevels(prev, curr map[string]int, universe []string, includeNew bool) []levelChange {
	keys := universe
	if keys == nil {
		keys = make([]string, 0, len(curr))
		for k := range curr {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	var changes []levelChange
	for _, k := range keys {
		to, ok := curr[k]
		if !ok {
			continue
		}
		from, seen := prev[k]
		switch {
		case seen && to > from:
			f := from
			changes = append(changes, levelChange{name: k, from: &f, to: to})
		case !seen && universe == nil && includeNew && to > 0:
			changes = append(changes, levelChange{name: k, from: nil, to: to})
		}
	}
	return changes
}
