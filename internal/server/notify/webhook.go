// Package notify pings the community site when new content lands.
// Notifications are best-effort: failures are logged and never surfaced
// to the request that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/op47/clipchat/internal/logging"
)

type Webhook struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewWebhook builds a notifier for the given base URL. An empty base URL
// disables all notifications.
func NewWebhook(baseURL string, logger logging.Logger) *Webhook {
	return &Webhook{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger.With("module", "notify"),
	}
}

func (w *Webhook) Enabled() bool {
	return w.baseURL != ""
}

// NewClip announces a freshly inserted clip.
func (w *Webhook) NewClip(ctx context.Context) {
	if !w.Enabled() {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/new_clip", nil)
	if err != nil {
		w.logger.Warn(ctx, "building new_clip request failed", "error", err.Error())
		return
	}

	w.send(ctx, req, "new_clip")
}

// NewMessage announces a freshly inserted chat message for a channel.
func (w *Webhook) NewMessage(ctx context.Context, channel string) {
	if !w.Enabled() {
		return
	}

	body, err := json.Marshal(map[string]string{"channel": channel})
	if err != nil {
		w.logger.Warn(ctx, "encoding new_message payload failed", "error", err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/new_message", bytes.NewReader(body))
	if err != nil {
		w.logger.Warn(ctx, "building new_message request failed", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	w.send(ctx, req, "new_message")
}

func (w *Webhook) send(ctx context.Context, req *http.Request, kind string) {
	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn(ctx, "webhook delivery failed", "kind", kind, "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		w.logger.Warn(ctx, "webhook rejected", "kind", kind, "status", resp.StatusCode)
	}
}
