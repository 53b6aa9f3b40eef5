// Package openweather renders a session weather block from the
// OpenWeatherMap 5-day / 3-hour forecast.
//
// The fetcher never fails: every error path yields a placeholder text and
// a 0% precipitation chance, so scheduling proceeds without weather.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fenneh/discord-f1-reminder/internal/cache"
	"github.com/fenneh/discord-f1-reminder/internal/provider"
)

// Placeholder texts.
const (
	NoAPIKey     = "Weather N/A (No API Key)"
	NoForecast   = "Weather forecast not available for this time."
	FetchFailed  = "Weather fetch failed"
	ProcessError = "Weather processing error"
)

var iconEmoji = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "🌤️", "02n": "☁️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "❄️", "13n": "❄️",
	"50d": "🌫️", "50n": "🌫️",
}

// Fetcher reads forecasts for circuit coordinates.
type Fetcher struct {
	client *provider.Client
	url    string
	apiKey string
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a weather fetcher. An empty apiKey disables upstream calls.
// c may be nil, in which case every call hits the API.
func New(client *provider.Client, forecastURL, apiKey string, c *cache.Cache, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if c == nil {
		c = cache.New(false)
	}
	return &Fetcher{
		client: client,
		url:    forecastURL,
		apiKey: apiKey,
		cache:  c,
		logger: logger,
	}
}

type forecastResponse struct {
	List []sample `json:"list"`
}

type sample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Pop float64 `json:"pop"` // 0..1
}

// Forecast returns the weather block for the sample closest to at.
// lat and lon are the decimal strings from the schedule feed.
func (f *Fetcher) Forecast(ctx context.Context, lat, lon string, at time.Time) provider.Weather {
	if f.apiKey == "" {
		return provider.Weather{Text: NoAPIKey}
	}

	body, err := f.fetch(ctx, lat, lon)
	if err != nil {
		f.logger.Warn("Weather fetch failed", "lat", lat, "lon", lon, "error", err)
		return provider.Weather{Text: FetchFailed}
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		f.logger.Warn("Weather response unreadable", "lat", lat, "lon", lon, "error", err)
		return provider.Weather{Text: ProcessError}
	}

	s, ok := closest(resp.List, at)
	if !ok {
		return provider.Weather{Text: NoForecast}
	}
	if len(s.Weather) == 0 {
		f.logger.Warn("Forecast sample has no conditions", "dt", s.Dt)
		return provider.Weather{Text: ProcessError}
	}
	return render(s)
}

// fetch returns the raw forecast body, served from cache when possible.
// The forecast covers five days, so one response serves every session of a
// weekend.
func (f *Fetcher) fetch(ctx context.Context, lat, lon string) ([]byte, error) {
	key := "forecast:" + lat + "," + lon
	if data, ok := f.cache.Get(key); ok {
		return data, nil
	}

	params := url.Values{
		"lat":   {lat},
		"lon":   {lon},
		"appid": {f.apiKey},
		"units": {"metric"},
	}
	body, err := f.client.Get(ctx, f.url, params)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, body, cache.TTLForecast)
	return body, nil
}

// closest picks the sample minimizing |dt - at|. Ties keep the first one.
func closest(samples []sample, at time.Time) (sample, bool) {
	target := at.Unix()
	best := -1
	var bestDiff int64
	for i, s := range samples {
		diff := s.Dt - target
		if diff < 0 {
			diff = -diff
		}
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		return sample{}, false
	}
	return samples[best], true
}

func render(s sample) provider.Weather {
	cond := s.Weather[0]
	text := fmt.Sprintf("%s %s\n🌡️ Temp: %.1f°C (Feels like: %.1f°C)\n💧 Humidity: %.0f%%\n💨 Wind: %.1f km/h",
		iconEmoji[cond.Icon],
		cases.Title(language.English).String(cond.Description),
		s.Main.Temp,
		s.Main.FeelsLike,
		s.Main.Humidity,
		s.Wind.Speed*3.6,
	)
	return provider.Weather{
		Text:             text,
		PrecipitationPct: int(math.Round(s.Pop * 100)),
	}
}
