package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/models"
)

const webhookTimeout = 10 * time.Second

// WebhookNotifier posts alert payloads to a configured webhook URL. Delivery
// is best-effort with a single attempt; alert persistence has already
// succeeded by the time a notification goes out and is authoritative.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger arbor.ILogger
}

// NewWebhookNotifier creates a webhook notifier. An empty URL produces a
// notifier that silently drops every payload.
func NewWebhookNotifier(url string, logger arbor.ILogger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
		logger: logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, payload *models.NotificationPayload) error {
	if n.url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Debug().
		Str("territory", payload.Territory).
		Str("rule", payload.Rule).
		Msg("Alert notification delivered")

	return nil
}
