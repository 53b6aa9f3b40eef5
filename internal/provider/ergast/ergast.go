// Package ergast fetches the season schedule and qualifying results from an
// Ergast-compatible API (the Jolpica mirror by default).
//
// Responses are wrapped in an MRData envelope; positions are strings.
package ergast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
	"github.com/fenneh/discord-f1-reminder/internal/race"
)

// Fetcher reads the schedule feed and the qualifying endpoint.
type Fetcher struct {
	client      *provider.Client
	scheduleURL string
	baseURL     string
	logger      *slog.Logger
}

// New creates an Ergast fetcher. scheduleURL is the full URL of the current
// season feed; baseURL is the API root used for per-round endpoints.
func New(client *provider.Client, scheduleURL, baseURL string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:      client,
		scheduleURL: scheduleURL,
		baseURL:     baseURL,
		logger:      logger,
	}
}

type raceTableResponse struct {
	MRData struct {
		RaceTable struct {
			Season string       `json:"season"`
			Races  []raceRecord `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// raceRecord embeds the weekend so qualifying results decode alongside
// the schedule fields in one pass.
type raceRecord struct {
	race.Weekend
	QualifyingResults []qualifyingResult `json:"QualifyingResults"`
}

type qualifyingResult struct {
	Position interface{} `json:"position"`
	Driver   struct {
		FamilyName string `json:"familyName"`
	} `json:"Driver"`
}

// FetchSchedule returns the weekends of the active season in feed order.
// An empty race table is reported as provider.ErrUnavailable.
func (f *Fetcher) FetchSchedule(ctx context.Context) ([]race.Weekend, error) {
	var resp raceTableResponse
	if err := f.client.GetJSON(ctx, f.scheduleURL, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	races := resp.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, fmt.Errorf("schedule has no races: %w", provider.ErrUnavailable)
	}

	weekends := make([]race.Weekend, 0, len(races))
	for _, r := range races {
		weekends = append(weekends, r.Weekend)
	}
	f.logger.Info("Fetched schedule",
		"season", resp.MRData.RaceTable.Season, "weekends", len(weekends))
	return weekends, nil
}

// QualifyingGrid returns the qualifying order for one round, sorted by
// position. Entries without an integer position are discarded.
func (f *Fetcher) QualifyingGrid(ctx context.Context, season, round string) ([]provider.GridEntry, error) {
	u := fmt.Sprintf("%s/%s/%s/qualifying.json", f.baseURL, season, round)

	var resp raceTableResponse
	if err := f.client.GetJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch qualifying %s/%s: %w", season, round, err)
	}

	races := resp.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].QualifyingResults) == 0 {
		return nil, fmt.Errorf("no qualifying results for %s/%s: %w", season, round, provider.ErrUnavailable)
	}

	entries := make([]provider.GridEntry, 0, len(races[0].QualifyingResults))
	for _, q := range races[0].QualifyingResults {
		pos, ok := provider.ExtractPosition(q.Position)
		if !ok {
			continue
		}
		entries = append(entries, provider.GridEntry{Position: pos, FamilyName: q.Driver.FamilyName})
	}

	grid := provider.NormalizeGrid(entries)
	if len(grid) == 0 {
		return nil, fmt.Errorf("no positioned qualifying results for %s/%s: %w", season, round, provider.ErrUnavailable)
	}
	return grid, nil
}
