// Package openf1 is the fallback starting-grid source. It resolves an Ergast
// circuitId to an OpenF1 circuit_key, finds that season's Qualifying
// session and reads its classification.
package openf1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
)

// Fetcher reads qualifying results from the OpenF1 API.
type Fetcher struct {
	client  *provider.Client
	baseURL string
	logger  *slog.Logger
}

// New creates an OpenF1 fetcher rooted at baseURL (e.g. https://api.openf1.org/v1).
func New(client *provider.Client, baseURL string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, baseURL: baseURL, logger: logger}
}

type session struct {
	SessionKey interface{} `json:"session_key"`
}

type result struct {
	Position   interface{} `json:"position"`
	FamilyName string      `json:"family_name"`
	FullName   string      `json:"full_name"`
}

// QualifyingGridByCircuit returns the qualifying order for the season's
// weekend at circuitID. A circuit missing from the lookup table is reported
// as provider.ErrUnavailable without contacting the API.
func (f *Fetcher) QualifyingGridByCircuit(ctx context.Context, season, circuitID string) ([]provider.GridEntry, error) {
	circuitKey, ok := CircuitKey(circuitID)
	if !ok {
		return nil, fmt.Errorf("no OpenF1 circuit_key for %q: %w", circuitID, provider.ErrUnavailable)
	}

	var sessions []session
	params := url.Values{
		"year":         {season},
		"circuit_key":  {strconv.Itoa(circuitKey)},
		"session_name": {"Qualifying"},
	}
	if err := f.client.GetJSON(ctx, f.baseURL+"/sessions", params, &sessions); err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no qualifying session for %s circuit_key %d: %w", season, circuitKey, provider.ErrUnavailable)
	}

	sessionKey, ok := provider.ExtractPosition(sessions[0].SessionKey)
	if !ok {
		return nil, fmt.Errorf("session without session_key: %w", provider.ErrUnavailable)
	}
	f.logger.Debug("Resolved OpenF1 session", "season", season, "circuit", circuitID, "session_key", sessionKey)

	var results []result
	params = url.Values{"session_key": {strconv.Itoa(sessionKey)}}
	if err := f.client.GetJSON(ctx, f.baseURL+"/results", params, &results); err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}

	entries := make([]provider.GridEntry, 0, len(results))
	for _, r := range results {
		pos, ok := provider.ExtractPosition(r.Position)
		if !ok {
			continue
		}
		entries = append(entries, provider.GridEntry{Position: pos, FamilyName: familyName(r)})
	}

	grid := provider.NormalizeGrid(entries)
	if len(grid) == 0 {
		return nil, fmt.Errorf("no positioned results for session %d: %w", sessionKey, provider.ErrUnavailable)
	}
	return grid, nil
}

func familyName(r result) string {
	switch {
	case r.FamilyName != "":
		return r.FamilyName
	case r.FullName != "":
		return r.FullName
	default:
		return "N/A"
	}
}
