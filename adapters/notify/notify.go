// Package notify implements the notification collaborator. Delivery is
// fire-and-forget by contract: no result crosses back into the core and
// failures are swallowed after a log line.
package notify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"levelup/internal/logx"
)

// LogNotifier writes notifications to the application log. It is the
// default when no webhook is configured.
type LogNotifier struct {
	Log *logx.Logger
}

func (n *LogNotifier) Notify(_ context.Context, title, body string) {
	log := n.Log
	if log == nil {
		log = logx.Default
	}
	log.Info("notify: %s: %s", title, body)
}

// WebhookNotifier POSTs notifications to an ntfy-style webhook: the
// body is the message text, the title travels in a header.
type WebhookNotifier struct {
	URL  string
	Log  *logx.Logger
	http *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the given URL.
func NewWebhookNotifier(url string, log *logx.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		URL:  url,
		Log:  log,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, title, body string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, strings.NewReader(body))
	if err != nil {
		n.logf("notify: bad webhook request: %v", err)
		return
	}
	req.Header.Set("Title", title)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := n.http.Do(req)
	if err != nil {
		n.logf("notify: webhook delivery failed: %v", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logf("notify: webhook returned %d", resp.StatusCode)
	}
}

func (n *WebhookNotifier) logf(format string, args ...interface{}) {
	log := n.Log
	if log == nil {
		log = logx.Default
	}
	log.Warn(format, args...)
}
