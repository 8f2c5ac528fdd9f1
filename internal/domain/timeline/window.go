package timeline

import "github.com/warfroggy/clashlens/internal/domain/model"

// fallbackSummary replaces the summary of the single event emitted when no
// day in the input was significant.
const fallbackSummary = "Latest snapshot — no notable changes to report."

// trimWindow filters candidates down to significant days, guarantees a
// non-empty result for non-empty input, and truncates to the most recent
// window entries while preserving ascending order.
func trimWindow(cands []candidate, window int) []model.ActivityEvent {
	events := make([]model.ActivityEvent, 0, len(cands))
	for _, c := range cands {
		if c.significant {
			events = append(events, c.event)
		}
	}

	if len(events) == 0 && len(cands) > 0 {
		last := cands[len(cands)-1].event
		last.Summary = fallbackSummary
		events = append(events, last)
	}

	if window > 0 && len(events) > window {
		events = events[len(events)-window:]
	}
	return events
}
