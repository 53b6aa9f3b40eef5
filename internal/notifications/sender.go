package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
)

// WebhookSender posts payloads to a Discord webhook. One attempt per
// payload, no retry.
type WebhookSender struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	missing    sync.Once
}

// NewWebhookSender creates a sender. An empty url is allowed: every Send is
// then a no-op and the misconfiguration is logged once.
func NewWebhookSender(url string, timeout time.Duration, logger *slog.Logger) *WebhookSender {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookSender{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts the payload. A non-2xx response or transport error is logged
// and returned; callers only log it.
func (s *WebhookSender) Send(ctx context.Context, p Payload) error {
	if s.url == "" {
		s.missing.Do(func() {
			s.logger.Error("DISCORD_WEBHOOK_URL not set, notifications will not be delivered")
		})
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Webhook delivery failed", "title", p.Title(), "error", err)
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("Webhook rejected notification",
			"title", p.Title(), "status", resp.StatusCode, "body", provider.Truncate(respBody, 200))
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	s.logger.Info("Sent notification", "title", p.Title())
	return nil
}
