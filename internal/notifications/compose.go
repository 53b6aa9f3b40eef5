package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
	"github.com/fenneh/discord-f1-reminder/internal/race"
)

// WeatherSource renders the forecast block for a location and instant.
// Implementations never fail; they return placeholder text instead.
type WeatherSource interface {
	Forecast(ctx context.Context, lat, lon string, at time.Time) provider.Weather
}

// GridSource is the primary starting-grid source, keyed by season/round.
type GridSource interface {
	QualifyingGrid(ctx context.Context, season, round string) ([]provider.GridEntry, error)
}

// CircuitGridSource is the fallback starting-grid source, keyed by
// season/circuit.
type CircuitGridSource interface {
	QualifyingGridByCircuit(ctx context.Context, season, circuitID string) ([]provider.GridEntry, error)
}

// Composer builds reminder payloads.
type Composer struct {
	botName  string
	weather  WeatherSource
	primary  GridSource
	fallback CircuitGridSource
	now      func() time.Time
	logger   *slog.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithClock overrides the clock used for the embed timestamp.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

// NewComposer creates a Composer. Either grid source may be nil.
func NewComposer(botName string, weather WeatherSource, primary GridSource, fallback CircuitGridSource, logger *slog.Logger, opts ...ComposerOption) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Composer{
		botName:  botName,
		weather:  weather,
		primary:  primary,
		fallback: fallback,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the reminder for one session. Weather and grid are fetched
// now, so the payload reflects conditions at composition time.
func (c *Composer) Compose(ctx context.Context, w race.Weekend, ev race.EventType, inst race.Instant) (Payload, error) {
	if !ev.Valid() {
		return Payload{}, fmt.Errorf("compose: invalid event type %d", int(ev))
	}
	loc := w.Circuit.Location

	// 1. Weather
	var weather provider.Weather
	if c.weather != nil {
		weather = c.weather.Forecast(ctx, loc.Lat, loc.Long, inst.At)
	} else {
		weather = provider.Weather{Text: "Weather N/A (No API Key)"}
	}
	weatherValue := fmt.Sprintf("%s\n☔ Rain Chance: %d%% ([Radar](%s))",
		weather.Text, weather.PrecipitationPct, fmt.Sprintf(radarURLFormat, loc.Lat, loc.Long))

	// 2. Fields
	circuitValue := fmt.Sprintf("[%s](%s) ([Map](%s))",
		w.Circuit.CircuitName, w.Circuit.URL, fmt.Sprintf(mapsURLFormat, loc.Lat, loc.Long))
	fields := []Field{
		{Name: ev.Label() + " Start Time", Value: fmt.Sprintf("<t:%d:R> (%s)", inst.At.Unix(), inst.Display)},
		{Name: "Round", Value: w.Round, Inline: true},
		{Name: "Circuit", Value: circuitValue, Inline: true},
		{Name: "Location", Value: loc.Locality + ", " + loc.Country},
		{Name: ":cloud: Weather Forecast", Value: weatherValue},
		{Name: "Live Timings", Value: "[F1 Dashboard](" + liveTimingsURL + ")", Inline: true},
		{Name: "📻 Radio Transcripts", Value: "[Box Box Radio](" + radioURL + ")", Inline: true},
	}

	// 3. Starting grid, races only
	if ev == race.Race {
		if block, ok := RenderGrid(c.Grid(ctx, w)); ok {
			fields = append(fields, Field{Name: gridFieldName, Value: block})
		}
	}

	return Payload{
		Username: c.botName,
		Embeds: []Embed{{
			Title:       title("", ev),
			Description: upcomingDescription(w, ev),
			Color:       embedColor,
			Fields:      fields,
			Footer:      Footer{Text: fmt.Sprintf("%s - Season %s", c.botName, w.Season)},
			Timestamp:   c.now().UTC().Format(time.RFC3339),
		}},
	}, nil
}

// Grid returns the starting grid for a weekend: the primary source first,
// then the fallback when the primary fails or is empty. Returns nil when
// neither has data.
func (c *Composer) Grid(ctx context.Context, w race.Weekend) []provider.GridEntry {
	if c.primary != nil {
		grid, err := c.primary.QualifyingGrid(ctx, w.Season, w.Round)
		if err == nil && len(grid) > 0 {
			return grid
		}
		c.logGridMiss("primary", w, err)
	}

	if c.fallback != nil {
		grid, err := c.fallback.QualifyingGridByCircuit(ctx, w.Season, w.Circuit.CircuitID)
		if err == nil && len(grid) > 0 {
			return grid
		}
		c.logGridMiss("fallback", w, err)
	}
	return nil
}

func (c *Composer) logGridMiss(source string, w race.Weekend, err error) {
	attrs := []any{"source", source, "season", w.Season, "round", w.Round, "circuit", w.Circuit.CircuitID}
	switch {
	case err == nil, provider.IsUnavailable(err):
		c.logger.Info("Starting grid unavailable", append(attrs, "reason", errString(err))...)
	default:
		c.logger.Warn("Starting grid fetch failed", append(attrs, "error", err)...)
	}
}

func errString(err error) string {
	if err == nil {
		return "empty"
	}
	return err.Error()
}

// --------------------------------------------------------------------------
// Title / description variants
// --------------------------------------------------------------------------

func title(prefix string, ev race.EventType) string {
	return fmt.Sprintf("%s%s F1 %s Reminder!", prefix, ev.Icon(), ev.Label())
}

func raceLink(w race.Weekend) string {
	return fmt.Sprintf("**[%s](%s)**", w.RaceName, w.URL)
}

func upcomingDescription(w race.Weekend, ev race.EventType) string {
	return fmt.Sprintf("The **%s** session for the %s is starting soon!", ev.Label(), raceLink(w))
}

// MarkTest tags a payload as an on-demand test of an upcoming session.
func MarkTest(p *Payload, w race.Weekend, ev race.EventType) {
	if len(p.Embeds) == 0 {
		return
	}
	p.Embeds[0].Title = title(":test_tube: TEST: ", ev)
	p.Embeds[0].Description = "**(Test Notification)**\n" + upcomingDescription(w, ev)
}

// MarkPrevious tags a payload as an on-demand test of a past session.
func MarkPrevious(p *Payload, w race.Weekend, ev race.EventType, inst race.Instant) {
	if len(p.Embeds) == 0 {
		return
	}
	p.Embeds[0].Title = title(":rewind: TEST (Previous): ", ev)
	p.Embeds[0].Description = fmt.Sprintf("**(Test Notification - Previous Event)**\nThe **%s** session for the %s occurred %s.",
		ev.Label(), raceLink(w), inst.Display)
}
