package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Discord posts messages to a Discord webhook. Every message is also logged
// locally, so an unconfigured or failing webhook still leaves a trace.
type Discord struct {
	client     *resty.Client
	webhookURL string
	log        *slog.Logger
}

// NewDiscord builds a webhook notifier. An empty webhookURL yields a notifier
// that only logs.
func NewDiscord(webhookURL string, log *slog.Logger) *Discord {
	return &Discord{
		client:     resty.New().SetTimeout(5 * time.Second),
		webhookURL: webhookURL,
		log:        log,
	}
}

// Client exposes the underlying resty client for tests.
func (d *Discord) Client() *resty.Client { return d.client }

type webhookPayload struct {
	Content string `json:"content"`
}

func (d *Discord) Notify(ctx context.Context, msg string) {
	d.log.Info("notify", "message", msg)
	if d.webhookURL == "" {
		return
	}

	res, err := d.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{Content: msg}).
		Post(d.webhookURL)
	if err != nil {
		d.log.Error("discord webhook delivery failed", "error", err)
		return
	}
	if res.IsError() {
		d.log.Error("discord webhook rejected message", "status", res.StatusCode())
	}
}
