package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/fenneh/discord-f1-reminder/docs"
	"github.com/fenneh/discord-f1-reminder/internal/cache"
	"github.com/fenneh/discord-f1-reminder/internal/config"
	"github.com/fenneh/discord-f1-reminder/internal/notifications"
	"github.com/fenneh/discord-f1-reminder/internal/race"
	"github.com/fenneh/discord-f1-reminder/internal/scheduler"
)

type fakeJobs struct {
	jobs  []scheduler.Job
	stats scheduler.Stats
}

func (f *fakeJobs) Jobs() []scheduler.Job  { return f.jobs }
func (f *fakeJobs) Stats() scheduler.Stats { return f.stats }

func testConfig() *config.Config {
	return &config.Config{
		BotName:           "Pit Wall",
		CORSAllowOrigins:  []string{"*"},
		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

func sampleJobs() *fakeJobs {
	fire := time.Date(2024, 6, 9, 11, 0, 0, 0, time.UTC)
	pass := scheduler.PassResult{Weekends: 1, Evaluated: 6, Scheduled: 1, Pending: 1}
	return &fakeJobs{
		jobs: []scheduler.Job{{
			ID:       race.SessionID{Season: "2024", Round: "10", Event: race.Race},
			RaceName: "Spanish Grand Prix",
			StartAt:  fire.Add(3 * time.Hour),
			FireAt:   fire,
			Payload:  notifications.Payload{Embeds: []notifications.Embed{{Title: "🏎️ F1 Race Reminder!"}}},
		}},
		stats: scheduler.Stats{Lead: 3 * time.Hour, Pending: 1, Passes: 1, LastPass: &pass, NextFireAt: &fire},
	}
}

func TestHealth(t *testing.T) {
	r := NewRouter(sampleJobs(), nil, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestGetJobs_WithETag(t *testing.T) {
	r := NewRouter(sampleJobs(), nil, testConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
		Jobs  []struct {
			ID     string    `json:"id"`
			Event  string    `json:"event"`
			FireAt time.Time `json:"fire_at"`
			Title  string    `json:"title"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "2024_10_Race_notification", body.Jobs[0].ID)
	assert.Equal(t, "Race", body.Jobs[0].Event)
	assert.Equal(t, "🏎️ F1 Race Reminder!", body.Jobs[0].Title)
	assert.True(t, body.Jobs[0].FireAt.Equal(time.Date(2024, 6, 9, 11, 0, 0, 0, time.UTC)))

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetStatus(t *testing.T) {
	r := NewRouter(sampleJobs(), nil, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(180), body["lead_minutes"])
	assert.Equal(t, float64(1), body["pending"])
	assert.Equal(t, "2024-06-09T11:00:00Z", body["next_fire_at"])
	last, ok := body["last_pass"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, last["summary"], "scheduled=1")
}

func TestGetStatus_IncludesCacheStats(t *testing.T) {
	c := cache.New(true)
	defer c.Close()
	c.Set("forecast:41.57,2.26111", []byte(`{"list":[]}`), time.Minute)

	r := NewRouter(sampleJobs(), c, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Cache map[string]interface{} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Cache)
	assert.Equal(t, true, body.Cache["enabled"])
	assert.Equal(t, float64(1), body.Cache["active_keys"])
}

func TestGetStatus_WithoutCache(t *testing.T) {
	r := NewRouter(sampleJobs(), nil, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"cache"`)
}

func TestDocs_ServesSwaggerSpec(t *testing.T) {
	r := NewRouter(&fakeJobs{}, nil, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var spec struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "F1 Reminder Status API", spec.Info.Title)
	assert.Contains(t, spec.Paths, "/api/v1/jobs")
	assert.Contains(t, spec.Paths, "/api/v1/status")
}

func TestRoot(t *testing.T) {
	r := NewRouter(&fakeJobs{}, nil, testConfig())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pit Wall")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequests = 2 // burst of 1
	r := NewRouter(&fakeJobs{}, nil, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes[1:], http.StatusTooManyRequests)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
