package timeline

// diffSuperTroops computes activation transitions between two active-name
// lists. Order follows the respective source list. The caller is expected
// to pass an empty prev on the first day, in which case nothing is emitted
// as activated: there is no baseline to transition from.
func diffSuperTroops(prev, curr []string, firstDay bool) (activated, deactivated []string) {
	if firstDay {
		return nil, nil
	}
	prevSet := make(map[string]bool, len(prev))
	for _, name := range prev {
		prevSet[name] = true
	}
	currSet := make(map[string]bool, len(curr))
	for _, name := range curr {
		currSet[name] = true
	}
	for _, name := range curr {
		if !prevSet[name] {
			activated = append(activated, name)
		}
	}
	for _, name := range prev {
		if !currSet[name] {
			deactivated = append(deactivated, name)
		}
	}
	return activated, deactivated
}
