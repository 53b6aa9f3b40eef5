package provider

import (
	"sort"
	"strconv"
	"strings"
)

// ExtractPosition normalizes a grid position from the upstream formats.
//
// Ergast returns positions as strings ("1"), OpenF1 as JSON numbers and
// sometimes null for drivers who did not set a time.
//
// Returns ok=false if the value is not a whole number.
func ExtractPosition(val interface{}) (int, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// NormalizeGrid sorts entries ascending by position and drops duplicate
// positions (first occurrence wins) and non-positive positions.
func NormalizeGrid(entries []GridEntry) []GridEntry {
	out := make([]GridEntry, 0, len(entries))
	for _, e := range entries {
		if e.Position > 0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	deduped := out[:0]
	for i, e := range out {
		if i > 0 && e.Position == out[i-1].Position {
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped
}
