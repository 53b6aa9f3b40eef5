package provider

import "errors"

// ErrUnavailable means the upstream has no data for the request: an empty
// result set, a 404, or a lookup that has no entry. Callers degrade the
// same way as for transient failures, but log it at a lower level.
var ErrUnavailable = errors.New("data unavailable")

// IsUnavailable reports whether err is (or wraps) ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// GridEntry is the canonical starting-grid row both grid sources normalize
// into.
type GridEntry struct {
	Position   int    `json:"position"`
	FamilyName string `json:"family_name"`
}

// Weather is the rendered forecast block for a session. Text is always
// populated, with a placeholder when no forecast could be produced.
type Weather struct {
	Text             string `json:"text"`
	PrecipitationPct int    `json:"precipitation_pct"`
}
