package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/focus-mentor-api/internal/observability"
)

const defaultWebhookTimeout = 5 * time.Second

// ReviewNotification is the payload forwarded to the mentor automation webhook
// whenever a check-in fails the promotion rule.
type ReviewNotification struct {
	StudentID    uint `json:"student_id"`
	QuizScore    int  `json:"quiz_score"`
	FocusMinutes int  `json:"focus_minutes"`
}

// ReviewNotifier forwards needs-review events to an external automation sink.
// Delivery is best-effort: implementations log failures and never return them.
type ReviewNotifier interface {
	Notify(ctx context.Context, payload ReviewNotification)
}

// WebhookNotifier posts review notifications to a configured webhook URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewWebhookNotifier constructs the webhook sink. An empty URL disables
// delivery; every attempt is then skipped with a warning.
func NewWebhookNotifier(url string, timeout time.Duration, logger zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "webhook_notifier").Logger(),
	}
}

// Notify posts the payload to the webhook. Timeouts and transport failures are
// logged and swallowed so a failed notification never fails the check-in that
// triggered it.
func (n *WebhookNotifier) Notify(ctx context.Context, payload ReviewNotification) {
	if n.url == "" {
		n.logger.Warn().Msg("skipping review webhook: no url configured")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode review notification")
		observability.WebhookDeliveries().WithLabelValues("error").Inc()
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to build review webhook request")
		observability.WebhookDeliveries().WithLabelValues("error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error().Err(err).Uint("student_id", payload.StudentID).Msg("review webhook failed")
		observability.WebhookDeliveries().WithLabelValues("error").Inc()
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Warn().Int("status", resp.StatusCode).Uint("student_id", payload.StudentID).Msg("review webhook rejected")
		observability.WebhookDeliveries().WithLabelValues("rejected").Inc()
		return
	}

	observability.WebhookDeliveries().WithLabelValues("sent").Inc()
	n.logger.Debug().Uint("student_id", payload.StudentID).Msg("review webhook delivered")
}
