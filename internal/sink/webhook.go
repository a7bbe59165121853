package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nehorai4/git-project/internal/domain"
)

const defaultWebhookTimeout = 10 * time.Second

// Webhook POSTs each event as JSON to a URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a Webhook sink. A nil client gets a client with a 10s timeout.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: defaultWebhookTimeout}
	}
	return &Webhook{url: url, client: client}
}

// webhookPayload adds a preformatted text line so chat webhooks can render it as is.
type webhookPayload struct {
	domain.Event
	Text string `json:"text"`
}

func (w *Webhook) Emit(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(webhookPayload{Event: event, Text: event.Summary()})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}
