package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Message is what gets posted to the HR channel.
type Message struct {
	Text      string            `json:"text"`
	EventType string            `json:"event_type"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type noopNotifier struct {
	logger *zap.Logger
}

func (n noopNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.Debug("notification dropped, no webhook configured",
		zap.String("event_type", msg.EventType),
	)
	return nil
}

type WebhookNotifier struct {
	webhookURL string
	client     *resty.Client
	logger     *zap.Logger
}

// New returns a webhook notifier, or a no-op notifier when webhookURL is empty.
func New(webhookURL string, timeout time.Duration, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notify.webhook")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.webhook")
	}
	if webhookURL == "" {
		return noopNotifier{logger: l}
	}
	return NewWebhookNotifier(webhookURL, resty.New().SetTimeout(timeout), l)
}

func NewWebhookNotifier(webhookURL string, client *resty.Client, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     client,
		logger:     logger,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, msg Message) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(n.webhookURL)
	if err != nil {
		n.logger.Error("webhook send request failed", zap.String("event_type", msg.EventType), zap.Error(err))
		return fmt.Errorf("send webhook: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		n.logger.Error("webhook request rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode())
	}

	n.logger.Debug("webhook delivered", zap.String("event_type", msg.EventType))
	return nil
}
