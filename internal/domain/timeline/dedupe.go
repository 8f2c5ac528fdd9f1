package timeline

import "sort"

// collapseDays reduces normalized rows to one representative per UTC
// calendar day: the row with the latest timestamp wins, and on an exact
// timestamp tie the later input element wins. The result is sorted
// ascending by day key.
func collapseDays(rows []row) []row {
	best := make(map[string]row, len(rows))
	for _, r := range rows {
		cur, ok := best[r.day]
		if !ok || !r.ts.Before(cur.ts) {
			// Input order is ascending by index, so a timestamp tie
			// here always replaces with the later-occurring element.
			best[r.day] = r
		}
	}

	days := make([]row, 0, len(best))
	for _, r := range best {
		days = append(days, r)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day < days[j].day })
	return days
}
