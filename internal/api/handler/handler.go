// Package handler provides HTTP handlers for the read-only status API.
// Handlers read the scheduler's live job set through JobSource and never
// modify it.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/api/respond"
	"github.com/fenneh/discord-f1-reminder/internal/cache"
	"github.com/fenneh/discord-f1-reminder/internal/scheduler"
)

const jobsTTL = 5 * time.Second

// JobSource is the view of the scheduler the handlers need.
type JobSource interface {
	Jobs() []scheduler.Job
	Stats() scheduler.Stats
}

// CacheStats reports upstream response cache usage. May be nil.
type CacheStats interface {
	Stats() map[string]interface{}
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	jobs    JobSource
	cache   CacheStats
	botName string
	started time.Time
}

// New creates a Handler.
func New(jobs JobSource, caches CacheStats, botName string) *Handler {
	return &Handler{jobs: jobs, cache: caches, botName: botName, started: time.Now()}
}

// Root serves service info at /.
// @Summary Service info
// @Description Bot name and the list of available endpoints.
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":   h.botName,
		"status": "running",
		"endpoints": []string{
			"/health",
			"/api/v1/jobs",
			"/api/v1/status",
			"/docs/",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// jobView is the wire shape of a pending reminder.
type jobView struct {
	ID       string    `json:"id"`
	Season   string    `json:"season"`
	Round    string    `json:"round"`
	Event    string    `json:"event"`
	RaceName string    `json:"race_name"`
	StartAt  time.Time `json:"start_at"`
	FireAt   time.Time `json:"fire_at"`
	Title    string    `json:"title"`
}

// GetJobs lists pending reminders ordered by fire instant. Supports
// If-None-Match.
// @Summary List pending reminders
// @Description Pending reminders ordered by fire instant. Responds 304 when If-None-Match matches the current ETag.
// @Tags reminders
// @Produce json
// @Param If-None-Match header string false "ETag from a previous response"
// @Success 200 {object} map[string]interface{}
// @Success 304 "Not modified"
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/jobs [get]
func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.Jobs()
	views := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, jobView{
			ID:       j.ID.String(),
			Season:   j.ID.Season,
			Round:    j.ID.Round,
			Event:    j.ID.Event.Key(),
			RaceName: j.RaceName,
			StartAt:  j.StartAt,
			FireAt:   j.FireAt,
			Title:    j.Payload.Title(),
		})
	}

	data, err := json.Marshal(map[string]interface{}{"count": len(views), "jobs": views})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode jobs")
		return
	}

	etag := cache.ComputeETag(data)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, jobsTTL)
}

// GetStatus reports scheduler counters, the last pass summary and
// forecast cache usage.
// @Summary Scheduler status
// @Description Lead time, pending/fired/failed counters, next fire instant, last scheduling pass and cache statistics.
// @Tags reminders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.jobs.Stats()
	body := map[string]interface{}{
		"lead_minutes":      int(st.Lead.Minutes()),
		"pending":           st.Pending,
		"fired":             st.Fired,
		"failed_deliveries": st.Failed,
		"passes":            st.Passes,
		"uptime_seconds":    int(time.Since(h.started).Seconds()),
	}
	if st.NextFireAt != nil {
		body["next_fire_at"] = st.NextFireAt.UTC().Format(time.RFC3339)
	}
	if st.LastPass != nil {
		body["last_pass"] = map[string]interface{}{
			"summary":    st.LastPass.Summary(),
			"started_at": st.LastPass.StartedAt.UTC().Format(time.RFC3339),
			"errors":     st.LastPass.Errors,
		}
	}
	if h.cache != nil {
		body["cache"] = h.cache.Stats()
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}
