// Package notifications builds race-weekend reminder messages and delivers
// them to a Discord webhook.
//
// Pipeline: resolve session → fetch weather (+ grid for races) → render
// embed → post to webhook.
package notifications

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	embedColor = 15158332 // red

	liveTimingsURL = "https://f1-dash.com/dashboard"
	radioURL       = "https://www.boxbox-radio.com/radios"
	mapsURLFormat  = "https://www.google.com/maps?q=%s,%s&t=k&z=16"
	radarURLFormat = "https://www.rainviewer.com/weather-radar-map-live.html?loc=%s,%s,9&oCS=1&c=3&o=83&lm=1&layer=radar&sm=1&sn=1"

	gridFieldName = "🏁 Starting Grid"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Payload is the body of a Discord webhook execution.
type Payload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields"`
	Footer      Footer  `json:"footer"`
	Timestamp   string  `json:"timestamp,omitempty"`
}

// Field is one name/value block of an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Footer is the small text under an embed.
type Footer struct {
	Text string `json:"text"`
}

// Title returns the first embed's title, or "" for an empty payload.
func (p Payload) Title() string {
	if len(p.Embeds) == 0 {
		return ""
	}
	return p.Embeds[0].Title
}

// Field returns the first field with the given name.
func (e Embed) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
