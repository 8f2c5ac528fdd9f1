package timeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
)

// dayFormat is the UTC calendar day key. Lexicographic order on these keys
// matches chronological order.
const dayFormat = "2006-01-02"

// Accepted timestamp layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayFormat,
}

// row is one snapshot after normalization: timestamp parsed, scalars coerced
// to numbers or nil, level maps coerced to int values. A nil map means the
// sub-resource was absent from the raw row; a present-but-empty map is kept
// empty.
type row struct {
	ts    time.Time
	day   string
	index int

	scalars     [metricCount]*int
	heroes      map[string]int
	pets        map[string]int
	equipment   map[string]int
	superTroops []string
}

// normalize filters out rows without a parseable date and coerces every
// scalar to a finite number or nil. Input order is preserved; the returned
// dropped count covers rows discarded for an invalid date.
func normalize(rows []model.RawSnapshot) (out []row, dropped int) {
	out = make([]row, 0, len(rows))
	for i := range rows {
		ts, ok := parseDate(rows[i].Date)
		if !ok {
			dropped++
			continue
		}
		r := row{
			ts:          ts,
			day:         ts.UTC().Format(dayFormat),
			index:       i,
			heroes:      coerceLevels(rows[i].Heroes),
			pets:        coerceLevels(rows[i].Pets),
			equipment:   coerceLevels(rows[i].Equipment),
			superTroops: rows[i].SuperTroops,
		}
		for m, v := range rawScalars(&rows[i]) {
			r.scalars[m] = coerceInt(v)
		}
		out = append(out, r)
	}
	return out, dropped
}

// parseDate accepts an ISO-8601 string in any of the supported layouts.
// Anything else (absent, non-string, unparseable) invalidates the row.
func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// coerceInt converts a loosely typed scalar to a finite integer. Numeric
// strings are accepted; everything else degrades to nil ("missing").
func coerceInt(v any) *int {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return &n
	case int32:
		i := int(n)
		return &i
	case int64:
		i := int(n)
		return &i
	case float32:
		return coerceFloat(float64(n))
	case float64:
		return coerceFloat(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		return coerceFloat(f)
	default:
		return nil
	}
}

func coerceFloat(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	i := int(f)
	return &i
}

// coerceLevels converts a raw level map, keeping only numeric values.
// A nil input stays nil so callers can distinguish absent from empty.
func coerceLevels(raw map[string]any) map[string]int {
	if raw == nil {
		return nil
	}
	levels := make(map[string]int, len(raw))
	for k, v := range raw {
		if n := coerceInt(v); n != nil {
			levels[k] = *n
		}
	}
	return levels
}
